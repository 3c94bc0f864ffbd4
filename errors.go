package refgo

import "errors"

// Common errors
var (
	// ErrNilDereference indicates a Deref or Value call on an empty handle.
	ErrNilDereference = errors.New("refgo: dereference of empty handle")

	// ErrPoolClosed indicates a Get on a closed pool.
	ErrPoolClosed = errors.New("refgo: pool is closed")

	// ErrPoolExhausted indicates the pool's in-use limit has been reached.
	ErrPoolExhausted = errors.New("refgo: pool exhausted")
)
