package refgo

// Alias returns a Strong[U] that shares ownership with owner but points at
// target. It is the Go rendition of a converting copy: the target must be a
// pointer reachable from (and outliving with) the owned value, typically an
// embedded field for an upcast:
//
//	base := refgo.Alias(derived, &derived.Get().Base)
//
// The typed *U argument is the compile-time convertibility check; no new
// control block is allocated, the owner's is shared and its strong count
// incremented. The deleter still receives the original managed pointer.
//
// An empty owner or nil target yields an empty handle with no counter
// traffic.
func Alias[U any, T any](owner Strong[T], target *U) Strong[U] {
	if owner.ctrl == nil || target == nil {
		return Strong[U]{}
	}
	owner.ctrl.incStrong()
	return Strong[U]{ptr: target, ctrl: owner.ctrl}
}

// AliasWeak is Alias for Weak handles: the result observes target under the
// owner's control block, incrementing the weak count only.
func AliasWeak[U any, T any](owner Weak[T], target *U) Weak[U] {
	if owner.ctrl == nil || target == nil {
		return Weak[U]{}
	}
	owner.ctrl.incWeak()
	return Weak[U]{ptr: target, ctrl: owner.ctrl}
}
