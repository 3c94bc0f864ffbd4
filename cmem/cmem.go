//go:build !ios && !android && (amd64 || arm64)

// Package cmem provides reference-counted ownership of C memory.
//
// Buffers are allocated by the platform's C runtime (loaded via purego, no
// CGO) and returned as refgo.Strong handles whose deleter calls free on the
// original pointer when the last handle is released. Weak handles, aliasing,
// and pooling from the refgo package all apply unchanged.
package cmem

import (
	"errors"
	"unsafe"

	"github.com/obinnaokechukwu/refgo"
	"github.com/obinnaokechukwu/refgo/internal/libc"
)

// Common errors
var (
	// ErrOutOfMemory indicates the C allocator returned NULL.
	ErrOutOfMemory = errors.New("refgo: out of memory")

	// ErrInvalidSize indicates a non-positive allocation size.
	ErrInvalidSize = errors.New("refgo: invalid allocation size")
)

// Init loads the C runtime. It is called automatically by the allocation
// functions, but can be called explicitly to check for errors.
// It is safe to call multiple times.
func Init() error {
	return libc.Load()
}

// IsLoaded returns true if the C runtime has been successfully loaded.
func IsLoaded() bool {
	return libc.IsLoaded()
}

// Buffer is a block of C-allocated memory. It is always reached through a
// refgo handle; the memory is freed when the last Strong handle over the
// buffer is released, after which Bytes returns nil.
type Buffer struct {
	ptr  unsafe.Pointer
	size int
}

// Ptr returns the raw C pointer, or nil after the buffer has been freed.
func (b *Buffer) Ptr() unsafe.Pointer {
	if b == nil {
		return nil
	}
	return b.ptr
}

// Size returns the allocation size in bytes.
func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Bytes returns the buffer's memory as a byte slice. The slice is valid only
// while at least one Strong handle over the buffer is alive.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// Alloc allocates size bytes of uninitialized C memory and returns an owning
// handle over it. The memory is freed exactly once, when the last copy of
// the handle is released.
func Alloc(size int) (refgo.Strong[Buffer], error) {
	return alloc(size, false)
}

// AllocZeroed is Alloc with the memory zero-filled by the allocator.
func AllocZeroed(size int) (refgo.Strong[Buffer], error) {
	return alloc(size, true)
}

func alloc(size int, zeroed bool) (refgo.Strong[Buffer], error) {
	if size <= 0 {
		return refgo.Strong[Buffer]{}, ErrInvalidSize
	}
	if err := libc.Load(); err != nil {
		return refgo.Strong[Buffer]{}, err
	}

	var p unsafe.Pointer
	if zeroed {
		p = libc.Calloc(uintptr(size), 1)
	} else {
		p = libc.Malloc(uintptr(size))
	}
	if p == nil {
		return refgo.Strong[Buffer]{}, ErrOutOfMemory
	}

	return refgo.ManageFunc(&Buffer{ptr: p, size: size}, freeBuffer), nil
}

// Dup copies data into a fresh C allocation and returns an owning handle.
func Dup(data []byte) (refgo.Strong[Buffer], error) {
	buf, err := Alloc(len(data))
	if err != nil {
		return refgo.Strong[Buffer]{}, err
	}
	copy(buf.Get().Bytes(), data)
	return buf, nil
}

// freeBuffer is the deleter attached to every allocated buffer. It receives
// the original *Buffer exactly once.
func freeBuffer(b *Buffer) {
	if b.ptr == nil {
		return
	}
	libc.Free(b.ptr)
	b.ptr = nil
}
