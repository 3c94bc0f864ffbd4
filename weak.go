package refgo

// Weak is a non-owning handle to a value managed by Strong handles. It never
// extends the value's lifetime; the only way to reach the value is Lock,
// which promotes the Weak handle to a Strong one if and only if the value
// has not yet been destroyed.
//
// Copy with Clone, transfer with Move, drop with Release — the same
// discipline as Strong, applied to the weak count only.
type Weak[T any] struct {
	ptr  *T
	ctrl *control
}

// WeakOf returns a Weak handle observing s's value. The strong count is not
// touched. An empty s yields an empty Weak handle.
func WeakOf[T any](s Strong[T]) Weak[T] {
	if s.ctrl == nil {
		return Weak[T]{}
	}
	s.ctrl.incWeak()
	return Weak[T]{ptr: s.ptr, ctrl: s.ctrl}
}

// Clone returns a new Weak handle observing the same value.
func (w Weak[T]) Clone() Weak[T] {
	if w.ctrl == nil {
		return Weak[T]{}
	}
	w.ctrl.incWeak()
	return Weak[T]{ptr: w.ptr, ctrl: w.ctrl}
}

// Move transfers w's reference to the returned handle and empties w.
func (w *Weak[T]) Move() Weak[T] {
	out := *w
	w.ptr, w.ctrl = nil, nil
	return out
}

// Set replaces w's reference with a new reference to other's target,
// acquire-before-drop as for Strong.Set.
func (w *Weak[T]) Set(other Weak[T]) {
	tmp := other.Clone()
	w.Swap(&tmp)
	tmp.Release()
}

// Swap exchanges the references held by w and other.
func (w *Weak[T]) Swap(other *Weak[T]) {
	w.ptr, other.ptr = other.ptr, w.ptr
	w.ctrl, other.ctrl = other.ctrl, w.ctrl
}

// Release drops w's weak reference and empties the handle. Releasing an
// empty handle is a no-op.
func (w *Weak[T]) Release() {
	if w.ctrl != nil {
		w.ctrl.decWeak()
	}
	w.ptr, w.ctrl = nil, nil
}

// Lock promotes w to an owning handle. It returns a live Strong handle if
// the value is still alive, and an empty one if the value has been
// destroyed.
//
// The promotion is a lock-free increment-if-nonzero: the strong count is
// re-read and CAS-incremented until either the increment lands or the count
// is observed at 0. Because the count never leaves 0 once reached, a
// successful Lock is guaranteed to have extended the lifetime of a value
// whose deleter has not run, and a failed Lock is guaranteed the deleter
// either ran already or is running.
func (w Weak[T]) Lock() Strong[T] {
	if w.ctrl == nil || !w.ctrl.incStrongIfLive() {
		return Strong[T]{}
	}
	return Strong[T]{ptr: w.ptr, ctrl: w.ctrl}
}

// Expired reports whether the observed value has been destroyed (or the
// handle is empty). A false result may be stale immediately; use Lock to
// both test and extend the lifetime atomically.
func (w Weak[T]) Expired() bool {
	return w.ctrl == nil || w.ctrl.strong.Load() == 0
}

// IsNil reports whether the handle is empty.
func (w Weak[T]) IsNil() bool {
	return w.ctrl == nil
}

// StrongCount returns a snapshot of the observed value's strong count, or 0
// for an empty handle.
func (w Weak[T]) StrongCount() int64 {
	if w.ctrl == nil {
		return 0
	}
	return w.ctrl.strong.Load()
}
