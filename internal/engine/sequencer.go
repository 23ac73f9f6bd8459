package engine

import "time"

// Sequencer drives PlayerState's transitions (spec's §4.I table) and
// emits notifications for row highlight/pause/resume events. It holds
// no audio data itself; the engine loop calls it once per block,
// before synthesis, and it calls back into the engine's notification
// queue.
type Sequencer struct {
	state  *PlayerState
	notify NotificationQueue
}

// NewSequencer binds a sequencer to a player state and the
// notification queue it should post highlight/pause/resume events to.
func NewSequencer(state *PlayerState, notify NotificationQueue) *Sequencer {
	return &Sequencer{state: state, notify: notify}
}

func (sq *Sequencer) post(n Notification) {
	select {
	case sq.notify <- n:
	default:
		// notification queue full: drop rather than block the engine
	}
}

// ApplyCommand executes a single command against PlayerState,
// performing the corresponding §4.I transition synchronously.
func (sq *Sequencer) ApplyCommand(cmd Command, now time.Time) error {
	s := sq.state
	switch cmd.Kind {
	case CmdPlayRow:
		s.Mode = PlayingSingle
		s.Sequence = Sequence{}
		s.SequenceIndex = 0
		s.PauseRequested = false
		s.PausedSnapshot = nil
		s.startRow(cmd.Row, now)

	case CmdPlaySequence:
		if len(cmd.Sequence.Rows) == 0 {
			return ErrNothingToPlay
		}
		s.Mode = PlayingSequence
		s.Sequence = cmd.Sequence
		s.SequenceIndex = 0
		s.PauseRequested = false
		s.PausedSnapshot = nil
		s.startRow(s.Sequence.Rows[0], now)
		sq.post(Notification{Kind: NotifyHighlight, Index: 0})

	case CmdPause:
		if s.Mode == PlayingSingle || s.Mode == PlayingSequence {
			s.PauseRequested = true
			s.Fade.StartFadeOut()
		}

	case CmdResume:
		if s.Mode != Paused {
			return nil
		}
		snap := cmd.ResumeSnapshot
		if snap == nil {
			snap = s.PausedSnapshot
		}
		if snap == nil {
			return nil
		}
		if snap.IsSequence {
			s.Mode = PlayingSequence
		} else {
			s.Mode = PlayingSingle
		}
		s.ActiveRow = snap.Row
		s.RowStart = now.Add(-time.Duration(snap.ElapsedAtPause * float64(time.Second)))
		s.Carrier.Phase = snap.CarrierPhase
		s.Modulator = snap.Modulator
		s.SequenceIndex = snap.SequenceIndex
		s.PauseRequested = false
		s.PausedSnapshot = nil
		s.Fade.StartFadeIn()
		sq.post(Notification{Kind: NotifyResumeComplete})

	case CmdStop:
		s.Mode = Idle
		s.PauseRequested = false
		s.PausedSnapshot = nil
		s.Fade = FadeState{}
		sq.post(Notification{Kind: NotifyClearHighlight})

	case CmdSetUserControl:
		sq.setUserControl(cmd.Control, cmd.Value)

	case CmdSetMix:
		s.Mix = computeMixGains(cmd.MixValue)
		s.MixValue = cmd.MixValue

	case CmdBTSetMono:
		s.BTMono = cmd.Mono
	}
	return nil
}

func (sq *Sequencer) setUserControl(c UserControl, value int) {
	s := sq.state
	v := value
	switch c {
	case ControlMaster:
		s.Trim.Master = &v
	case ControlNeck:
		s.Trim.Neck = &v
	case ControlBack:
		s.Trim.Back = &v
	case ControlThighs:
		s.Trim.Thighs = &v
	case ControlLegs:
		s.Trim.Legs = &v
	}
}

// Tick advances the state machine for natural row/fade progression:
// fade-out-on-approach, row completion, sequence advance, and the
// pause latch. Called once per block after commands are drained and
// before synthesis for the current block.
func (sq *Sequencer) Tick(now time.Time) {
	s := sq.state
	if s.Mode != PlayingSingle && s.Mode != PlayingSequence {
		return
	}

	elapsed := s.elapsed(now)
	row := s.ActiveRow

	fadeOutThreshold := row.TimeS - 4.0
	if row.TimeS > 4.0 && elapsed >= fadeOutThreshold && s.Fade.Direction == FadeNone && !s.PauseRequested {
		s.Fade.StartFadeOut()
	}

	if s.PauseRequested && s.Fade.OutComplete() {
		snap := &Snapshot{
			Row:            row,
			ElapsedAtPause: elapsed,
			CarrierPhase:   s.Carrier.Phase,
			Modulator:      s.Modulator,
			SequenceIndex:  s.SequenceIndex,
			IsSequence:     s.Mode == PlayingSequence,
		}
		s.PausedSnapshot = snap
		s.Mode = Paused
		sq.post(Notification{Kind: NotifyPauseComplete})
		return
	}

	if elapsed >= row.TimeS {
		sq.advance(now)
	}
}

func (sq *Sequencer) advance(now time.Time) {
	s := sq.state
	if s.Mode == PlayingSingle {
		s.Mode = Idle
		return
	}
	if s.SequenceIndex+1 < len(s.Sequence.Rows) {
		s.SequenceIndex++
		s.startRow(s.Sequence.Rows[s.SequenceIndex], now)
		sq.post(Notification{Kind: NotifyHighlight, Index: s.SequenceIndex})
		return
	}
	s.Mode = Idle
	sq.post(Notification{Kind: NotifyClearHighlight})
}
