// Package refgo provides shared and weak ownership handles for manually
// managed resources: C allocations reached through purego, pooled objects,
// file descriptors, or anything else whose cleanup must run exactly once.
//
// A Strong handle owns one reference to a value; copies share ownership
// through an atomically counted control block, and the cleanup callback
// supplied at construction runs when the last Strong handle is released.
// A Weak handle observes the same value without keeping it alive and can
// be promoted back to a Strong handle with Lock() as long as the value has
// not been destroyed.
//
// For most use cases, construct handles with New, Manage, or ManageFunc and
// pass copies around with Clone. The cmem package builds on these handles to
// manage raw C memory obtained from the platform's C runtime.
package refgo
