package refgo

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDowngradeAndLock(t *testing.T) {
	s, destroyed := newTracked(1)

	w := s.Downgrade()
	require.False(t, w.IsNil())
	require.False(t, w.Expired())
	require.Equal(t, int64(1), s.StrongCount(), "downgrade must not touch the strong count")
	require.Equal(t, int64(1), s.WeakCount())

	locked := w.Lock()
	require.False(t, locked.IsNil())
	require.Same(t, s.Get(), locked.Get())
	require.Equal(t, int64(2), s.StrongCount())

	locked.Release()
	s.Release()
	require.Equal(t, int64(1), destroyed.Load())

	w.Release()
}

func TestLockAfterLastStrongReleased(t *testing.T) {
	s, destroyed := newTracked(1)
	w := s.Downgrade()

	s.Release()
	require.Equal(t, int64(1), destroyed.Load())

	require.True(t, w.Expired())
	locked := w.Lock()
	require.True(t, locked.IsNil(), "lock after destruction must return an empty handle")
	require.Equal(t, int64(1), destroyed.Load(), "failed lock must not touch the value")

	w.Release()
}

func TestWeakDoesNotExtendLifetime(t *testing.T) {
	s, destroyed := newTracked(1)
	w := s.Downgrade()
	w2 := w.Clone()
	require.Equal(t, int64(2), s.WeakCount())

	s.Release()
	require.Equal(t, int64(1), destroyed.Load(), "weak handles must not keep the value alive")

	w.Release()
	w2.Release()
}

func TestWeakMoveAndSet(t *testing.T) {
	s, _ := newTracked(1)
	defer s.Release()

	w := s.Downgrade()
	m := w.Move()
	require.True(t, w.IsNil())
	require.False(t, m.IsNil())
	require.Equal(t, int64(1), s.WeakCount(), "move must not perturb the counter")

	other, _ := newTracked(2)
	wo := other.Downgrade()
	m.Set(wo)
	require.Equal(t, int64(0), s.WeakCount())
	require.Equal(t, int64(2), other.WeakCount())

	m.Release()
	wo.Release()
	other.Release()
}

func TestWeakOfEmpty(t *testing.T) {
	var s Strong[testObject]
	w := WeakOf(s)
	require.True(t, w.IsNil())
	require.True(t, w.Expired())
	require.True(t, w.Lock().IsNil())
	w.Release()
}

func TestExpiredIsStableAfterDestruction(t *testing.T) {
	s, _ := newTracked(1)
	w := s.Downgrade()
	s.Release()

	// Once expired, a weak handle can never observe the value alive again.
	for i := 0; i < 100; i++ {
		require.True(t, w.Expired())
		require.True(t, w.Lock().IsNil())
	}
	w.Release()
}

// TestConcurrentLockRacingRelease races Lock against the final Release:
// lockers hammer the weak handle while the main goroutine drops the only
// strong reference. Every Lock must atomically observe either a live value
// (extending its lifetime) or a dead one; the deleter fires exactly once,
// locks before the release succeed, locks after it consistently fail.
func TestConcurrentLockRacingRelease(t *testing.T) {
	const lockers = 50
	const locksPerGoroutine = 1000

	s, destroyed := newTracked(1)
	w := s.Downgrade()

	var successes atomic.Int64
	var wg sync.WaitGroup
	wg.Add(lockers)
	for i := 0; i < lockers; i++ {
		go func() {
			defer wg.Done()
			for k := 0; k < locksPerGoroutine; k++ {
				if locked := w.Lock(); !locked.IsNil() {
					successes.Add(1)
					if destroyed.Load() != 0 {
						t.Error("locked a destroyed value")
					}
					locked.Release()
				}
			}
		}()
	}

	// Let the lockers run against a live value for a moment.
	time.Sleep(10 * time.Millisecond)
	s.Release()
	wg.Wait()

	require.Equal(t, int64(1), destroyed.Load())
	require.Greater(t, successes.Load(), int64(0), "locks before the release must succeed")

	// Strictly after the final release, every lock fails.
	var lateWG sync.WaitGroup
	var lateSuccesses atomic.Int64
	lateWG.Add(lockers)
	for i := 0; i < lockers; i++ {
		go func() {
			defer lateWG.Done()
			for k := 0; k < locksPerGoroutine; k++ {
				if locked := w.Lock(); !locked.IsNil() {
					lateSuccesses.Add(1)
					locked.Release()
				}
			}
		}()
	}
	lateWG.Wait()

	require.Equal(t, int64(0), lateSuccesses.Load())
	require.Equal(t, int64(1), destroyed.Load())

	w.Release()
}

// TestConcurrentWeakCopyDrop exercises the weak count under the same
// copy/drop discipline as the strong stress test.
func TestConcurrentWeakCopyDrop(t *testing.T) {
	const goroutines = 50
	const copiesPerGoroutine = 100

	s, destroyed := newTracked(1)
	w := s.Downgrade()

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			local := make([]Weak[testObject], 0, copiesPerGoroutine)
			for j := 0; j < copiesPerGoroutine; j++ {
				local = append(local, w.Clone())
			}
			for k := range local {
				local[k].Release()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), s.WeakCount())
	require.Equal(t, int64(0), destroyed.Load())

	w.Release()
	s.Release()
	require.Equal(t, int64(1), destroyed.Load())
}
