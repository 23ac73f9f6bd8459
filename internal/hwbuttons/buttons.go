// Package hwbuttons wires physical start/stop/skip transport buttons
// to GPIO lines via the Linux gpiocdev character-device API, the same
// library and line-request pattern the teacher uses for PTT GPIO
// control in src/ptt.go, tested the same mock-line way as
// src/ptt_test.go (a requestLine seam swapped out in tests instead of
// touching real hardware).
package hwbuttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("hwbuttons")

// gpioLine is the subset of *gpiocdev.Line this package depends on,
// narrow enough that tests can substitute a mock the same way
// src/ptt_test.go's mockGPIODLine stands in for a real gpiod line.
type gpioLine interface {
	Close() error
}

// requestLine is overridden in tests; production code always calls
// through to gpiocdev.RequestLine.
var requestLine = func(chip string, offset int, onPress func()) (gpioLine, error) {
	return gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventFallingEdge {
				onPress()
			}
		}),
	)
}

// Buttons owns the three optional transport-button GPIO lines. A
// negative line offset disables that button (config.Config's
// Button*Line fields default to -1).
type Buttons struct {
	start, stop, skip gpioLine
}

// Request opens whichever of start/stop/skip have a non-negative
// line offset on chip, invoking the matching callback on each falling
// edge (button press, active-low with an internal pull-up).
func Request(chip string, startLine, stopLine, skipLine int, onStart, onStop, onSkip func()) (*Buttons, error) {
	b := &Buttons{}
	var err error
	if b.start, err = requestIfEnabled(chip, startLine, "start", onStart); err != nil {
		return nil, err
	}
	if b.stop, err = requestIfEnabled(chip, stopLine, "stop", onStop); err != nil {
		b.Close()
		return nil, err
	}
	if b.skip, err = requestIfEnabled(chip, skipLine, "skip", onSkip); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func requestIfEnabled(chip string, line int, name string, onPress func()) (gpioLine, error) {
	if line < 0 {
		return nil, nil
	}
	l, err := requestLine(chip, line, onPress)
	if err != nil {
		return nil, fmt.Errorf("hwbuttons: requesting %s line %d: %w", name, line, err)
	}
	log.Info("button line requested", "button", name, "chip", chip, "line", line)
	return l, nil
}

// Close releases every requested line; safe to call when some or all
// buttons were never enabled.
func (b *Buttons) Close() {
	for _, l := range []gpioLine{b.start, b.stop, b.skip} {
		if l != nil {
			_ = l.Close()
		}
	}
}
