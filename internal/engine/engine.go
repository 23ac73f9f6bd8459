package engine

import (
	"context"
	"time"
)

// Sink is the output device the engine writes completed 8-channel
// interleaved int16 blocks to. Implemented by internal/audiosink.
type Sink interface {
	Write(pcm []int16) error
}

// AuxSource supplies the already-captured, already-low-passed
// auxiliary stereo block the engine mixes in. Implemented by
// internal/auxring.
type AuxSource interface {
	Read(n int) (left, right []float32)
}

// Clock abstracts time.Now so tests can drive the loop deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config bundles the engine loop's fixed parameters.
type Config struct {
	BlockLen int // samples per block, 1200 by default
}

// DefaultConfig is the spec's nominal block size: 1200 frames at
// 48 kHz, about 25 ms per tick.
var DefaultConfig = Config{BlockLen: 1200}

// Engine owns PlayerState and the output sink exclusively, and runs
// the fixed-block scheduler of spec's component K.
type Engine struct {
	cfg Config

	state     *PlayerState
	sequencer *Sequencer
	commands  CommandQueue
	notify    NotificationQueue

	sink  Sink
	aux   AuxSource
	clock Clock

	scratch  *blockScratch
	pcm      []int16
	therapy  [8][]float64
	auxBlock [8][]float64

	Stream *WifiStream

	lastErr error
}

// New constructs an Engine wired to the given sink, aux source, and
// command/notification queues.
func New(cfg Config, sink Sink, aux AuxSource, commands CommandQueue, notify NotificationQueue) *Engine {
	state := NewPlayerState()
	e := &Engine{
		cfg:       cfg,
		state:     state,
		sequencer: NewSequencer(state, notify),
		commands:  commands,
		notify:    notify,
		sink:      sink,
		aux:       aux,
		clock:     realClock{},
		scratch:   newBlockScratch(cfg.BlockLen),
		pcm:       make([]int16, cfg.BlockLen*8),
		Stream:    NewWifiStream(),
	}
	for ch := 0; ch < 8; ch++ {
		e.therapy[ch] = make([]float64, cfg.BlockLen)
		e.auxBlock[ch] = make([]float64, cfg.BlockLen)
	}
	return e
}

// State returns the live player state, for read-only inspection (e.g.
// building a treatment-state snapshot for the control plane). Callers
// must not mutate it; all mutation goes through Command.
func (e *Engine) State() *PlayerState { return e.state }

// LastError returns the most recent fatal sink error, if the loop has
// halted.
func (e *Engine) LastError() error { return e.lastErr }

// Run executes the fixed-block loop until ctx is cancelled or the sink
// reports a fatal error. One iteration is one block (~25 ms at the
// default block size).
func (e *Engine) Run(ctx context.Context) error {
	period := time.Duration(float64(e.cfg.BlockLen) / sampleRate * float64(time.Second))
	deadline := e.clock.Now().Add(period)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		e.drainCommands()

		now := e.clock.Now()
		e.sequencer.Tick(now)

		e.buildAuxBlock()
		e.buildTherapyBlock(now)

		mixToPCM(&e.therapy, &e.auxBlock, e.state.Mix, e.cfg.BlockLen, e.pcm)

		if err := e.sink.Write(e.pcm); err != nil {
			e.lastErr = err
			return err
		}

		now = e.clock.Now()
		if now.Before(deadline) {
			sleepUntil(deadline)
			deadline = deadline.Add(period)
		} else {
			// overslept: don't double-tick, resync from now
			deadline = now.Add(period)
		}
	}
}

func sleepUntil(t time.Time) {
	d := time.Until(t)
	if d > 0 {
		time.Sleep(d)
	}
}

func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.commands:
			if err := e.sequencer.ApplyCommand(cmd, e.clock.Now()); err != nil {
				select {
				case e.notify <- Notification{Kind: NotifyError, Err: err.Error()}:
				default:
				}
			}
		default:
			return
		}
	}
}

func (e *Engine) buildTherapyBlock(now time.Time) {
	for ch := 0; ch < 8; ch++ {
		for n := range e.therapy[ch] {
			e.therapy[ch][n] = 0
		}
	}
	if e.Stream.Active() {
		if block, ok := e.Stream.Pop(); ok {
			for ch := 0; ch < 8; ch++ {
				for n := 0; n < e.cfg.BlockLen && n < len(block[ch]); n++ {
					e.therapy[ch][n] = float64(block[ch][n])
				}
			}
		}
		return
	}
	if e.state.Mode != PlayingSingle && e.state.Mode != PlayingSequence {
		return
	}
	elapsed := e.state.elapsed(now)
	synthesizeTherapyBlock(
		e.state.ActiveRow,
		e.state.Trim,
		elapsed,
		e.cfg.BlockLen,
		&e.state.Carrier,
		&e.state.Modulator,
		&e.state.Fade,
		e.scratch,
		&e.therapy,
	)
}

// buildAuxBlock pulls BlockLen stereo frames from the aux source and
// fans them out to eight channels: mono broadcasts L+R averaged to
// every channel, stereo fans L to {0,2,4,6} and R to {1,3,5,7}.
func (e *Engine) buildAuxBlock() {
	left, right := e.aux.Read(e.cfg.BlockLen)
	mono := e.state.BTMono
	for n := 0; n < e.cfg.BlockLen; n++ {
		l, r := float64(left[n]), float64(right[n])
		if mono {
			m := (l + r) / 2
			for ch := 0; ch < 8; ch++ {
				e.auxBlock[ch][n] = m
			}
		} else {
			e.auxBlock[0][n] = l
			e.auxBlock[2][n] = l
			e.auxBlock[4][n] = l
			e.auxBlock[6][n] = l
			e.auxBlock[1][n] = r
			e.auxBlock[3][n] = r
			e.auxBlock[5][n] = r
			e.auxBlock[7][n] = r
		}
	}
}
