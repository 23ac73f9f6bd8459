package statslog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, time.Second)
	require.NoError(t, err)

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	l.report(now, Stats{BlocksWritten: 10, AuxUnderruns: 1, AuxRingFill: 4800, Mode: "sequence"})

	data, err := os.ReadFile(filepath.Join(dir, "vibrowolf-20260305.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode=sequence")
	assert.Contains(t, string(data), "blocks=10")
	assert.Contains(t, string(data), "aux_underruns=1")
}

func TestReport_AppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, time.Second)
	require.NoError(t, err)

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	l.report(now, Stats{Mode: "a"})
	l.report(now, Stats{Mode: "b"})

	data, err := os.ReadFile(filepath.Join(dir, "vibrowolf-20260305.log"))
	require.NoError(t, err)
	lines := 0
	for _, c := range data {
		if c == '\n' {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
}

func TestRun_ZeroIntervalIsNoOp(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, 0)
	require.NoError(t, err)

	done := make(chan struct{})
	close(done)
	called := false
	l.Run(done, func() Stats { called = true; return Stats{} })
	assert.False(t, called)
}
