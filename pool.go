package refgo

import "sync"

// Pool reuses allocations of T to reduce allocation churn for expensive
// objects.
//
// Unlike sync.Pool, objects handed out by Get are reference-counted: Get
// returns a Strong handle whose deleter returns the object to the pool when
// the last copy of the handle is released. There is no Put; dropping the
// handles is the return path.
type Pool[T any] struct {
	mu       sync.Mutex
	idle     []*T
	closed   bool
	inUse    int
	maxInUse int

	alloc func() (*T, error)
	reset func(*T)
}

// PoolStats is a snapshot of a pool's occupancy.
type PoolStats struct {
	Idle  int
	InUse int
}

// NewPool creates a pool over alloc. If maxInUse <= 0, the pool is
// unbounded. reset, if non-nil, is applied to every object before it is
// handed out, recycled or fresh.
func NewPool[T any](maxInUse int, alloc func() (*T, error), reset func(*T)) *Pool[T] {
	return &Pool[T]{maxInUse: maxInUse, alloc: alloc, reset: reset}
}

// Get returns a Strong handle over a pooled object. The object returns to
// the pool when the last copy of the handle is released.
func (p *Pool[T]) Get() (Strong[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Strong[T]{}, ErrPoolClosed
	}
	if p.maxInUse > 0 && p.inUse >= p.maxInUse {
		return Strong[T]{}, ErrPoolExhausted
	}

	var obj *T
	if n := len(p.idle); n > 0 {
		obj = p.idle[n-1]
		p.idle = p.idle[:n-1]
	} else {
		var err error
		obj, err = p.alloc()
		if err != nil {
			return Strong[T]{}, err
		}
	}

	if p.reset != nil {
		p.reset(obj)
	}
	p.inUse++
	return ManageFunc(obj, p.put), nil
}

// put is the deleter attached to handles from Get.
func (p *Pool[T]) put(obj *T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse--
	if p.closed {
		// Pool is closed: drop the object to the GC.
		return
	}
	p.idle = append(p.idle, obj)
}

// Close drops all idle objects and stops the pool from handing out more.
// Objects still in use are unaffected; they are dropped instead of recycled
// when their last handle is released.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.idle = nil
	return nil
}

// Stats returns a snapshot of the pool's occupancy.
func (p *Pool[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{Idle: len(p.idle), InUse: p.inUse}
}
