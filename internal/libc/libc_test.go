//go:build !ios && !android && (amd64 || arm64)

package libc

import (
	"testing"
	"unsafe"
)

// requireLibc loads the C runtime, skipping the test when it is unavailable.
func requireLibc(t *testing.T) {
	t.Helper()
	if err := Load(); err != nil {
		t.Skipf("C runtime not available: %v", err)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	requireLibc(t)

	if err := Load(); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if !IsLoaded() {
		t.Error("IsLoaded should be true after Load")
	}
}

func TestMallocFree(t *testing.T) {
	requireLibc(t)

	p := Malloc(64)
	if p == nil {
		t.Fatal("Malloc returned nil")
	}

	// Write through the allocation to make sure it is usable memory.
	b := unsafe.Slice((*byte)(p), 64)
	for i := range b {
		b[i] = byte(i)
	}
	if b[63] != 63 {
		t.Errorf("b[63] = %d, want 63", b[63])
	}

	Free(p)
	Free(nil) // must be a no-op
}

func TestCallocZeroes(t *testing.T) {
	requireLibc(t)

	p := Calloc(32, 1)
	if p == nil {
		t.Fatal("Calloc returned nil")
	}
	defer Free(p)

	b := unsafe.Slice((*byte)(p), 32)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestMemsetMemcpyStrlen(t *testing.T) {
	requireLibc(t)

	src := Malloc(16)
	dst := Malloc(16)
	if src == nil || dst == nil {
		t.Fatal("Malloc returned nil")
	}
	defer Free(src)
	defer Free(dst)

	Memset(src, 'a', 15)
	sb := unsafe.Slice((*byte)(src), 16)
	sb[15] = 0

	Memcpy(dst, src, 16)
	if got := Strlen(dst); got != 15 {
		t.Errorf("Strlen = %d, want 15", got)
	}

	db := unsafe.Slice((*byte)(dst), 16)
	if db[0] != 'a' || db[14] != 'a' {
		t.Error("Memcpy did not copy the payload")
	}
}
