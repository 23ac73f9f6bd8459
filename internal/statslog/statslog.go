// Package statslog periodically appends a line of engine health
// stats (aux underruns, ring fill, blocks written) to a rotating
// per-day log file, the same periodic-report idea as the teacher's
// src/audio_stats.go ("ADEVICE0: Sample rate approx...every 100
// seconds"), generalized from a fixed adev/nchan audio-level report
// to this engine's stats, with github.com/lestrrat-go/strftime
// providing the rotating filename template (the one teacher
// dependency otherwise unused in the retrieved subset).
package statslog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("statslog")

// filenamePattern rotates the stats log once per day.
const filenamePattern = "vibrowolf-%Y%m%d.log"

// Stats is one sample of engine health at report time.
type Stats struct {
	BlocksWritten int64
	AuxUnderruns  int
	AuxRingFill   int
	Mode          string
}

// Logger appends a formatted line to dir's rotating stats file at the
// configured interval.
type Logger struct {
	dir      string
	pattern  *strftime.Strftime
	interval time.Duration
}

// NewLogger builds a statslog writer under dir, reporting every
// interval (0 disables reporting, matching the teacher's "interval 0
// to turn off").
func NewLogger(dir string, interval time.Duration) (*Logger, error) {
	pattern, err := strftime.New(filenamePattern)
	if err != nil {
		return nil, fmt.Errorf("statslog: compiling filename pattern: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("statslog: creating %s: %w", dir, err)
	}
	return &Logger{dir: dir, pattern: pattern, interval: interval}, nil
}

// Run calls sample once per interval and appends the result to the
// day's log file until done is closed. A zero interval makes Run a
// no-op, returning immediately.
func (l *Logger) Run(done <-chan struct{}, sample func() Stats) {
	if l.interval <= 0 {
		return
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			l.report(now, sample())
		}
	}
}

func (l *Logger) report(now time.Time, s Stats) {
	name := l.pattern.FormatString(now)
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn("stats log open failed", "path", path, "err", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s mode=%s blocks=%d aux_underruns=%d aux_fill=%d\n",
		now.Format(time.RFC3339), s.Mode, s.BlocksWritten, s.AuxUnderruns, s.AuxRingFill)
	if _, err := f.WriteString(line); err != nil {
		log.Warn("stats log write failed", "path", path, "err", err)
	}
}
