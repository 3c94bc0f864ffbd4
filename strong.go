package refgo

// Strong is an owning, reference-counted handle to a manually managed value.
// Copies made with Clone share ownership; the deleter supplied at
// construction runs exactly once, when the last owning handle is released.
//
// The zero value is an empty handle. Handles must be copied with Clone (or
// transferred with Move) rather than by plain assignment: assignment
// duplicates the handle without incrementing the count, leaving two handles
// that together own a single reference.
//
// All operations on distinct handles over the same value are safe for
// concurrent use. A single handle value is not itself goroutine-safe.
type Strong[T any] struct {
	ptr  *T
	ctrl *control
}

// New heap-allocates a copy of v and returns the first owning handle over it.
// The value's memory is Go-managed; no deleter is attached.
func New[T any](v T) Strong[T] {
	return Manage(&v)
}

// Manage takes shared ownership of p without attaching a deleter. Use it for
// Go-allocated values where "destruction" is simply becoming unreachable, or
// ManageFunc when cleanup must run. Managing a nil pointer yields an empty
// handle.
func Manage[T any](p *T) Strong[T] {
	if p == nil {
		return Strong[T]{}
	}
	return Strong[T]{ptr: p, ctrl: newControl(nil)}
}

// ManageFunc takes shared ownership of p and arranges for deleter(p) to be
// called exactly once, when the last owning handle is released. The deleter
// must not panic; a panicking deleter is a programming error outside this
// package's recovery responsibility.
func ManageFunc[T any](p *T, deleter func(*T)) Strong[T] {
	if p == nil {
		return Strong[T]{}
	}
	if deleter == nil {
		return Manage(p)
	}
	return Strong[T]{ptr: p, ctrl: newControl(func() { deleter(p) })}
}

// Clone returns a new handle sharing ownership with s. Cloning an empty
// handle returns an empty handle.
func (s Strong[T]) Clone() Strong[T] {
	if s.ctrl == nil {
		return Strong[T]{}
	}
	s.ctrl.incStrong()
	return Strong[T]{ptr: s.ptr, ctrl: s.ctrl}
}

// Move transfers s's reference to the returned handle and empties s.
// No counter traffic occurs.
func (s *Strong[T]) Move() Strong[T] {
	out := *s
	s.ptr, s.ctrl = nil, nil
	return out
}

// Set replaces s's reference with a new reference to other's value.
// The new reference is acquired before the old one is dropped, so s is left
// unchanged if acquiring it fails, and setting a handle to itself is safe.
func (s *Strong[T]) Set(other Strong[T]) {
	tmp := other.Clone()
	s.Swap(&tmp)
	tmp.Release()
}

// Swap exchanges the references held by s and other. No counter traffic.
func (s *Strong[T]) Swap(other *Strong[T]) {
	s.ptr, other.ptr = other.ptr, s.ptr
	s.ctrl, other.ctrl = other.ctrl, s.ctrl
}

// Release drops s's reference and empties the handle. If s held the last
// strong reference, the deleter runs before Release returns. Releasing an
// empty handle is a no-op.
func (s *Strong[T]) Release() {
	if s.ctrl != nil {
		s.ctrl.decStrong()
	}
	s.ptr, s.ctrl = nil, nil
}

// Get returns the managed pointer, or nil for an empty handle.
func (s Strong[T]) Get() *T {
	return s.ptr
}

// Deref returns the managed value. It panics with ErrNilDereference when the
// handle is empty; callers that cannot guarantee non-emptiness should use
// Value instead.
func (s Strong[T]) Deref() T {
	if s.ptr == nil {
		panic(ErrNilDereference)
	}
	return *s.ptr
}

// Value returns the managed pointer, or ErrNilDereference for an empty
// handle.
func (s Strong[T]) Value() (*T, error) {
	if s.ptr == nil {
		return nil, ErrNilDereference
	}
	return s.ptr, nil
}

// IsNil reports whether the handle is empty.
func (s Strong[T]) IsNil() bool {
	return s.ptr == nil
}

// StrongCount returns the number of owning handles over the managed value,
// or 0 for an empty handle. The result is a snapshot and may be stale by the
// time it is observed; it is reliable only as a boundary condition (1 from
// the sole owner, 0 from an empty handle).
func (s Strong[T]) StrongCount() int64 {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.strong.Load()
}

// WeakCount returns the number of weak handles over the managed value.
// Snapshot semantics as for StrongCount.
func (s Strong[T]) WeakCount() int64 {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.weak.Load()
}

// Downgrade returns a Weak handle observing s's value without extending its
// lifetime.
func (s Strong[T]) Downgrade() Weak[T] {
	return WeakOf(s)
}
