package engine

import "time"

// PlayMode identifies which of the four mutually-exclusive playback
// states the engine occupies.
type PlayMode int

const (
	Idle PlayMode = iota
	PlayingSingle
	PlayingSequence
	Paused
)

func (m PlayMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case PlayingSingle:
		return "playing_single"
	case PlayingSequence:
		return "playing_sequence"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Snapshot captures everything needed to resume a paused row without
// an audible phase discontinuity.
type Snapshot struct {
	Row            Row
	ElapsedAtPause float64
	CarrierPhase   float64
	Modulator      ModulatorState
	SequenceIndex  int
	IsSequence     bool
}

// PlayerState is owned exclusively by the engine loop; every other
// goroutine mutates it only by posting a Command (see commands.go).
type PlayerState struct {
	Mode PlayMode

	ActiveRow Row
	RowStart  time.Time
	Carrier   CarrierState
	Modulator ModulatorState
	Fade      FadeState

	Sequence      Sequence
	SequenceIndex int

	PauseRequested bool
	PausedSnapshot *Snapshot

	Trim     UserTrim
	Mix      MixGains
	MixValue int // the 0-100 slider value Mix was last derived from

	BTMono bool
}

// NewPlayerState returns a fresh idle state with an equal-power
// 50/50 mix and no user trims applied.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		Mode:     Idle,
		Mix:      computeMixGains(50),
		MixValue: 50,
		BTMono:   true,
	}
}

// elapsed returns seconds since the active row started, as of now.
func (s *PlayerState) elapsed(now time.Time) float64 {
	return now.Sub(s.RowStart).Seconds()
}

func (s *PlayerState) startRow(r Row, now time.Time) {
	s.ActiveRow = r
	s.RowStart = now
	s.Carrier.Reset()
	s.Modulator.ResetForRow(r)
	s.Fade.StartFadeIn()
}
