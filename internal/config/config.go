// Package config loads vibrowolfd's YAML configuration file and
// layers pflag command-line overrides on top of it, the same
// file-then-flag layering the teacher's src/config.go applies to a
// direwolf.conf-style text config (here: cmd/direwolf/main.go parses
// the file, then individual -x flags override fields before the
// config is handed to the rest of the program).
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config bundles every tunable vibrowolfd needs at startup. Fields
// not set in the YAML file keep their Default* value.
type Config struct {
	// OutputDeviceSubstring selects the 8-channel USB device by name
	// substring (spec.md §6: "containing ICUSBAUDIO7D").
	OutputDeviceSubstring string `yaml:"output_device_substring"`

	// BlockLen is the engine's fixed block size in frames.
	BlockLen int `yaml:"block_len"`

	// ControlListenAddr is the WebSocket control-plane bind address.
	ControlListenAddr string `yaml:"control_listen_addr"`

	// PresetListenAddr is the HTTP preset-store bind address.
	PresetListenAddr string `yaml:"preset_listen_addr"`

	// StateDir holds persisted mutable state (mix.yaml) and the
	// preset store's JSON files.
	StateDir string `yaml:"state_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// DNSSDName is the mDNS service instance name; empty picks a
	// hostname-derived default (see internal/btdiscovery).
	DNSSDName string `yaml:"dns_sd_name"`

	// APUnit/APDNSMasqUnit are the systemd unit names toggle-ap-mode
	// starts/stops (internal/apmode).
	APUnit        string `yaml:"ap_hostapd_unit"`
	APDNSMasqUnit string `yaml:"ap_dnsmasq_unit"`

	// ButtonStartLine/ButtonStopLine/ButtonSkipLine are GPIO chip line
	// offsets for the hardware transport buttons, or -1 to disable.
	GPIOChip        string `yaml:"gpio_chip"`
	ButtonStartLine int    `yaml:"button_start_line"`
	ButtonStopLine  int    `yaml:"button_stop_line"`
	ButtonSkipLine  int    `yaml:"button_skip_line"`

	// StatsLogDir is where rotating per-session stats logs are
	// written (internal/statslog).
	StatsLogDir string `yaml:"stats_log_dir"`
}

// Default returns the nominal configuration: spec.md's 1200-frame
// block at 48 kHz, GPIO buttons disabled, state under /var/lib.
func Default() Config {
	return Config{
		OutputDeviceSubstring: "ICUSBAUDIO7D",
		BlockLen:              1200,
		ControlListenAddr:     ":8765",
		PresetListenAddr:      ":8766",
		StateDir:              "/var/lib/vibrowolf",
		LogLevel:              "info",
		DNSSDName:             "",
		APUnit:                "hostapd",
		APDNSMasqUnit:         "dnsmasq",
		GPIOChip:              "/dev/gpiochip0",
		ButtonStartLine:       -1,
		ButtonStopLine:        -1,
		ButtonSkipLine:        -1,
		StatsLogDir:           "/var/log/vibrowolf",
	}
}

// Load reads path (if it exists) over Default, then returns the
// merged config. A missing file is not an error: Default alone is a
// valid configuration for a quick bring-up.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers pflag overrides for every field that plausibly
// gets overridden from the command line, mirroring the teacher's
// flag-over-file layering.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.OutputDeviceSubstring, "output-device", c.OutputDeviceSubstring, "USB audio device name substring")
	fs.IntVar(&c.BlockLen, "block-len", c.BlockLen, "engine block size in frames")
	fs.StringVar(&c.ControlListenAddr, "control-addr", c.ControlListenAddr, "control-plane WebSocket bind address")
	fs.StringVar(&c.PresetListenAddr, "preset-addr", c.PresetListenAddr, "preset-store HTTP bind address")
	fs.StringVar(&c.StateDir, "state-dir", c.StateDir, "directory for persisted mix/mono state and presets")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn, or error")
	fs.StringVar(&c.DNSSDName, "dns-sd-name", c.DNSSDName, "mDNS service instance name")
}
