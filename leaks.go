package refgo

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/obinnaokechukwu/refgo/internal/blockreg"
)

// Leak tracking records the origin of every control block created while it
// is enabled and forgets it when the block is retired (both counts 0).
// Anything still registered at ReportLeaks time is a value whose handles
// were never all released.
//
// Tracking is off by default; it takes a runtime.Callers capture per
// construction and a registry entry per live block.

var (
	leakTracking atomic.Bool

	leakLogMu sync.Mutex
	leakLog   = zerolog.New(os.Stderr).With().
			Timestamp().
			Str("component", "refgo").
			Logger()
)

// EnableLeakTracking starts recording origins for control blocks created
// from now on. Blocks created before the call are not tracked.
func EnableLeakTracking() {
	leakTracking.Store(true)
}

// DisableLeakTracking stops recording origins for new control blocks.
// Already-tracked blocks remain in the registry until retired.
func DisableLeakTracking() {
	leakTracking.Store(false)
}

// SetLeakLogger replaces the logger used by ReportLeaks. The default writes
// to stderr.
func SetLeakLogger(l zerolog.Logger) {
	leakLogMu.Lock()
	leakLog = l
	leakLogMu.Unlock()
}

// LiveBlocks returns the number of tracked control blocks not yet retired.
func LiveBlocks() int {
	return blockreg.Count()
}

// ReportLeaks logs every tracked control block that is still live and
// returns how many there were. A non-zero result after all handles should
// have been released means a Strong or Weak handle was leaked (or copied by
// plain assignment instead of Clone).
func ReportLeaks() int {
	recs := blockreg.Snapshot()

	leakLogMu.Lock()
	log := leakLog
	leakLogMu.Unlock()

	for _, r := range recs {
		log.Warn().
			Uint64("block", uint64(r.ID)).
			Time("created", r.Created).
			Strs("origin", formatFrames(r.Stack)).
			Msg("live control block")
	}
	return len(recs)
}

// trackBlock captures the construction site for a new control block.
// Returns 0 when tracking is disabled.
func trackBlock() uintptr {
	if !leakTracking.Load() {
		return 0
	}
	var pcs [4]uintptr
	// Skip runtime.Callers, trackBlock, newControl: the first recorded
	// frame is the refgo constructor, the next its caller.
	n := runtime.Callers(3, pcs[:])
	return blockreg.Register(pcs[:n])
}

// untrackBlock removes a retired block from the registry.
func untrackBlock(id uintptr) {
	if id != 0 {
		blockreg.Unregister(id)
	}
}

func formatFrames(pcs []uintptr) []string {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]string, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			out = append(out, fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line))
		}
		if !more {
			break
		}
	}
	return out
}
