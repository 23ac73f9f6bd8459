package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PersistedState mirrors the small slice of engine state that must
// survive a restart: the music-mix slider and the BT mono/stereo
// fan-out flag (spec.md §6 "Persisted state"). The source mirrors
// these as a JSON file; we use YAML for consistency with the rest of
// config, written with the same atomic temp-file-then-rename pattern
// teacher uses elsewhere for config persistence.
type PersistedState struct {
	MixValue int  `yaml:"mix_value"`
	BTMono   bool `yaml:"bt_mono"`
}

// DefaultPersistedState is a 50/50 mix with mono fan-out, matching
// engine.NewPlayerState's defaults.
func DefaultPersistedState() PersistedState {
	return PersistedState{MixValue: 50, BTMono: true}
}

func statePath(stateDir string) string {
	return filepath.Join(stateDir, "mix.yaml")
}

// LoadPersistedState reads the mirrored mix/mono state, returning
// DefaultPersistedState if the file does not yet exist.
func LoadPersistedState(stateDir string) (PersistedState, error) {
	data, err := os.ReadFile(statePath(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPersistedState(), nil
		}
		return PersistedState{}, fmt.Errorf("config: reading persisted state: %w", err)
	}
	var s PersistedState
	if err := yaml.Unmarshal(data, &s); err != nil {
		return PersistedState{}, fmt.Errorf("config: parsing persisted state: %w", err)
	}
	return s, nil
}

// SavePersistedState writes s atomically: a temp file in the same
// directory, synced, then renamed over the target so a reader never
// observes a partial write.
func SavePersistedState(stateDir string, s PersistedState) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("config: creating state dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshaling persisted state: %w", err)
	}
	target := statePath(stateDir)
	tmp, err := os.CreateTemp(stateDir, ".mix-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("config: creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("config: syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("config: renaming temp state file: %w", err)
	}
	return nil
}
