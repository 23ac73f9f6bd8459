// Package logging sets up the per-subsystem leveled loggers every
// other package pulls a handle from. It replaces the teacher's
// text_color_set stub (src/textcolor.go: a global level, a no-op
// setter, and a "// TODO KG" marking it unfinished) with real
// charmbracelet/log instances, one per subsystem, each prefixed so
// interleaved log lines stay attributable.
package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	level   = log.InfoLevel
	loggers = map[string]*log.Logger{}
)

// SetLevel changes the level new and already-created subsystem
// loggers report at. Called once at startup from the config/flag
// layer (the Go analogue of the teacher's -d debug flags).
func SetLevel(l log.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	for _, lg := range loggers {
		lg.SetLevel(level)
	}
}

// For returns the leveled logger for a named subsystem ("engine",
// "auxcapture", "control", "btdiscovery", "presets", "sink", ...),
// creating it on first use.
func For(subsystem string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if lg, ok := loggers[subsystem]; ok {
		return lg
	}
	lg := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          subsystem,
	})
	lg.SetLevel(level)
	loggers[subsystem] = lg
	return lg
}
