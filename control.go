package refgo

import "sync/atomic"

// control is the out-of-band record shared by every Strong and Weak handle
// over one managed value. It holds the two reference counts, the type-erased
// cleanup closure, and the leak-registry id when tracking is enabled.
//
// A block moves through three states: Live (strong > 0), Expiring
// (strong == 0, weak > 0; the value is destroyed but outstanding Weak
// handles may still probe it), and Dead (both counts 0, block retired).
// Transitions are one-directional; a count that reached 0 never increases
// again.
type control struct {
	strong atomic.Int64
	weak   atomic.Int64

	// retired guards block retirement. The strong and weak counts can reach
	// 0 on two different goroutines at once; only the CAS winner retires.
	retired atomic.Bool

	// destroy invokes the deleter on the original managed pointer. Bound
	// once at construction, run at most once, on the 1->0 strong transition.
	destroy func()

	// track is the blockreg id, 0 when leak tracking was off at creation.
	track uintptr
}

// newControl allocates a control block for the first Strong handle:
// strong = 1, weak = 0.
func newControl(destroy func()) *control {
	c := &control{destroy: destroy}
	c.strong.Store(1)
	c.track = trackBlock()
	return c
}

func (c *control) incStrong() {
	c.strong.Add(1)
}

// incStrongIfLive increments the strong count unless it is 0. This is the
// CAS loop behind Weak.Lock: once the count has been observed at 0 it is
// permanently 0, so the loop can never revive a destroyed value.
func (c *control) incStrongIfLive() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// decStrong releases one strong reference. Whichever caller drives the count
// to 0 runs the deleter, then retires the block if no weak references remain.
//
// The destroy closure is captured before the decrement: holding a strong
// reference guarantees the block is not yet retired, whereas after the
// decrement a concurrent decWeak may retire it at any moment.
func (c *control) decStrong() {
	d := c.destroy
	if c.strong.Add(-1) != 0 {
		return
	}
	if d != nil {
		d()
	}
	c.destroy = nil
	if c.weak.Load() == 0 {
		c.retire()
	}
}

func (c *control) incWeak() {
	c.weak.Add(1)
}

// decWeak releases one weak reference and retires the block if it was the
// last reference of either kind.
func (c *control) decWeak() {
	if c.weak.Add(-1) == 0 && c.strong.Load() == 0 {
		c.retire()
	}
}

// retire marks the block Dead. The final decStrong and the final decWeak can
// both observe the last-reference condition when the counts hit 0
// concurrently; the CAS makes retirement exactly-once regardless of which
// decrement loses the race.
func (c *control) retire() {
	if !c.retired.CompareAndSwap(false, true) {
		return
	}
	untrackBlock(c.track)
}
