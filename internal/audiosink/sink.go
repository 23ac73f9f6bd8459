// Package audiosink owns the output side of spec.md's component A:
// opening the eight-channel USB device, writing interleaved int16
// blocks with full-block blocking semantics, and watching for the
// device vanishing so the supervisor can re-open it. Grounded on the
// teacher's src/audio.go device lifecycle (open/put/flush/wait/close
// phases), reimplemented with github.com/gordonklaus/portaudio —
// already in the teacher's go.mod — instead of src/audio.go's cgo
// ALSA/OSS backend.
package audiosink

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("sink")

const (
	// SampleRate is the fixed 48kHz the engine and spec assume
	// throughout; no software sample-rate conversion is supported.
	SampleRate = 48000
	// Channels is the fixed eight-channel output width.
	Channels = 8
)

// ErrDeviceNotFound is returned when no output device's name contains
// the configured substring.
var ErrDeviceNotFound = errors.New("audiosink: no output device matches configured name")

// ErrDeviceLost marks a write failure the engine loop must treat as
// fatal per spec.md §4.A/§7: halt the loop, let the supervisor
// re-open.
var ErrDeviceLost = errors.New("audiosink: output device lost")

// Sink is a write-only blocking PCM stream: 48kHz, 8 channels, S16LE,
// interleaved, period = framesPerBuffer, buffer = 2 periods.
type Sink struct {
	mu              sync.Mutex
	stream          *portaudio.Stream
	frame           []int16
	framesPerBuffer int
	deviceName      string
}

// Open finds a device whose name contains substr with at least
// Channels output channels, and opens a blocking output stream at
// framesPerBuffer frames per period (the engine's block size) with a
// two-period buffer. Every call initialises portaudio and opens a new
// stream; Open does not detect or reuse a Sink that is already live.
func Open(substr string, framesPerBuffer int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audiosink: initializing portaudio: %w", err)
	}

	dev, err := findDevice(substr)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	frame := make([]int16, framesPerBuffer*Channels)
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: Channels,
			Latency:  time.Duration(2*framesPerBuffer) * time.Second / SampleRate,
		},
		SampleRate:      SampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, &frame)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audiosink: opening stream on %q: %w", dev.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audiosink: starting stream on %q: %w", dev.Name, err)
	}

	log.Info("output sink opened", "device", dev.Name, "frames_per_buffer", framesPerBuffer)
	return &Sink{
		stream:          stream,
		frame:           frame,
		framesPerBuffer: framesPerBuffer,
		deviceName:      dev.Name,
	}, nil
}

func findDevice(substr string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audiosink: enumerating devices: %w", err)
	}
	for _, d := range devices {
		if d.MaxOutputChannels >= Channels && containsFold(d.Name, substr) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, substr)
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	h, n := []rune(haystack), []rune(needle)
	toLower := func(rs []rune) []rune {
		out := make([]rune, len(rs))
		for i, r := range rs {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			out[i] = r
		}
		return out
	}
	h, n = toLower(h), toLower(n)
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			if h[i+j] != n[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Write writes one complete block of interleaved int16 PCM
// (len(pcm) == framesPerBuffer*Channels). Partial writes loop until
// the whole block is accepted by the stream; a write error is wrapped
// in ErrDeviceLost, the signal the engine loop halts on.
func (s *Sink) Write(pcm []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := s.framesPerBuffer * Channels
	if len(pcm) != want {
		return fmt.Errorf("audiosink: write of %d samples, want %d", len(pcm), want)
	}

	written := 0
	for written < len(pcm) {
		n := copy(s.frame, pcm[written:])
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceLost, err)
		}
		written += n
	}
	return nil
}

// Close stops and closes the stream and terminates the portaudio
// host. Safe to call on an already-closed Sink.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	portaudio.Terminate()
	s.stream = nil
	if stopErr != nil {
		return fmt.Errorf("audiosink: stopping stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("audiosink: closing stream: %w", closeErr)
	}
	return nil
}

// DeviceName reports the name of the device currently open, or "" if
// none is open.
func (s *Sink) DeviceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceName
}
