package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPersistedState_MissingReturnsDefault(t *testing.T) {
	s, err := LoadPersistedState(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultPersistedState(), s)
}

func TestSaveThenLoadPersistedState_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	want := PersistedState{MixValue: 72, BTMono: false}

	require.NoError(t, SavePersistedState(dir, want))

	got, err := LoadPersistedState(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSavePersistedState_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SavePersistedState(dir, PersistedState{MixValue: 10, BTMono: true}))

	entries, err := filepath.Glob(filepath.Join(dir, ".mix-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSavePersistedState_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	require.NoError(t, SavePersistedState(dir, DefaultPersistedState()))

	got, err := LoadPersistedState(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultPersistedState(), got)
}
