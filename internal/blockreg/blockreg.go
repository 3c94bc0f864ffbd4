// Package blockreg is the registry behind refgo's leak tracking. Each live
// control block created while tracking is enabled holds a uintptr id here;
// retirement removes it, so whatever remains registered corresponds to
// values whose handles were never all released.
//
// The registry stores the construction call stack (as raw PCs) and the
// creation time; symbolization is left to the caller.
package blockreg

import (
	"sync"
	"time"
)

// Record describes one live control block.
type Record struct {
	ID      uintptr
	Stack   []uintptr
	Created time.Time
}

var (
	mu     sync.RWMutex
	blocks = make(map[uintptr]Record)
	nextID uintptr = 1
)

// Register stores the construction stack of a new control block and returns
// its registry id.
//
// Thread-safe.
func Register(stack []uintptr) uintptr {
	pcs := make([]uintptr, len(stack))
	copy(pcs, stack)

	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	blocks[id] = Record{ID: id, Stack: pcs, Created: time.Now()}
	return id
}

// Unregister removes a retired block. Unknown ids are ignored.
//
// Thread-safe.
func Unregister(id uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(blocks, id)
}

// Count returns the number of currently registered blocks.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(blocks)
}

// Snapshot returns a copy of all currently registered records.
//
// Thread-safe.
func Snapshot() []Record {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Record, 0, len(blocks))
	for _, r := range blocks {
		out = append(out, r)
	}
	return out
}
