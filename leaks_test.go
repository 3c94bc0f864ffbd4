package refgo

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLeakTrackingLifecycle(t *testing.T) {
	SetLeakLogger(zerolog.Nop())
	EnableLeakTracking()
	defer DisableLeakTracking()

	base := LiveBlocks()

	s, _ := newTracked(1)
	require.Equal(t, base+1, LiveBlocks())

	w := s.Downgrade()
	s.Release()
	// Expiring: the value is destroyed but the block stays registered while
	// a weak handle can still probe it.
	require.Equal(t, base+1, LiveBlocks())

	w.Release()
	require.Equal(t, base, LiveBlocks())
}

func TestLeakTrackingDisabled(t *testing.T) {
	DisableLeakTracking()

	base := LiveBlocks()
	s, _ := newTracked(1)
	require.Equal(t, base, LiveBlocks(), "untracked blocks must not register")
	s.Release()
}

func TestReportLeaksLogsOrigins(t *testing.T) {
	var buf bytes.Buffer
	SetLeakLogger(zerolog.New(&buf))
	defer SetLeakLogger(zerolog.Nop())

	EnableLeakTracking()
	defer DisableLeakTracking()

	base := ReportLeaks()
	buf.Reset()

	s, _ := newTracked(1)
	n := ReportLeaks()
	require.Equal(t, base+1, n)
	require.Contains(t, buf.String(), "live control block")
	require.Contains(t, buf.String(), "origin")

	s.Release()
	require.Equal(t, base, ReportLeaks())
}
