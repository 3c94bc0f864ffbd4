//go:build !ios && !android && (amd64 || arm64)

// Package libc loads the platform's C runtime and registers the allocation
// function bindings using purego. It backs the cmem package; nothing here
// allocates on its own.
package libc

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/refgo/internal/platform"
)

// ErrNotLoaded is returned when allocation functions are called before Load().
var ErrNotLoaded = errors.New("refgo: C runtime not loaded; call cmem.Init() first")

// ErrLibraryNotFound is returned when no C runtime library can be found.
var ErrLibraryNotFound = errors.New("refgo: C runtime library not found")

// Library handle
var (
	libC uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Function bindings
var (
	cMalloc func(size uintptr) unsafe.Pointer
	cCalloc func(n, size uintptr) unsafe.Pointer
	cFree   func(ptr unsafe.Pointer)
	cMemset func(ptr unsafe.Pointer, c int32, n uintptr) unsafe.Pointer
	cMemcpy func(dst, src unsafe.Pointer, n uintptr) unsafe.Pointer
	cStrlen func(ptr unsafe.Pointer) uintptr
)

// IsLoaded returns true if the C runtime has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the C runtime and registers the function bindings.
// It is safe to call multiple times; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	lib, err := openCRuntime()
	if err != nil {
		return err
	}
	libC = lib

	purego.RegisterLibFunc(&cMalloc, libC, "malloc")
	purego.RegisterLibFunc(&cCalloc, libC, "calloc")
	purego.RegisterLibFunc(&cFree, libC, "free")
	purego.RegisterLibFunc(&cMemset, libC, "memset")
	purego.RegisterLibFunc(&cMemcpy, libC, "memcpy")
	purego.RegisterLibFunc(&cStrlen, libC, "strlen")

	return nil
}

// openCRuntime tries each candidate library name for this platform.
func openCRuntime() (uintptr, error) {
	var lastErr error
	for _, name := range platform.CRuntimeCandidates() {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return lib, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return 0, fmt.Errorf("%w: %v", ErrLibraryNotFound, lastErr)
	}
	return 0, ErrLibraryNotFound
}

// Malloc allocates size bytes of uninitialized C memory.
// Returns nil if the runtime is not loaded or the allocation fails.
func Malloc(size uintptr) unsafe.Pointer {
	if cMalloc == nil {
		return nil
	}
	return cMalloc(size)
}

// Calloc allocates n*size bytes of zeroed C memory.
func Calloc(n, size uintptr) unsafe.Pointer {
	if cCalloc == nil {
		return nil
	}
	return cCalloc(n, size)
}

// Free releases C memory obtained from Malloc or Calloc.
// Safe to call with nil.
func Free(ptr unsafe.Pointer) {
	if ptr == nil || cFree == nil {
		return
	}
	cFree(ptr)
}

// Memset fills n bytes at ptr with c.
func Memset(ptr unsafe.Pointer, c int32, n uintptr) {
	if ptr == nil || cMemset == nil {
		return
	}
	cMemset(ptr, c, n)
}

// Memcpy copies n bytes from src to dst. The regions must not overlap.
func Memcpy(dst, src unsafe.Pointer, n uintptr) {
	if dst == nil || src == nil || cMemcpy == nil {
		return
	}
	cMemcpy(dst, src, n)
}

// Strlen returns the length of the NUL-terminated C string at ptr.
func Strlen(ptr unsafe.Pointer) uintptr {
	if ptr == nil || cStrlen == nil {
		return 0
	}
	return cStrlen(ptr)
}
