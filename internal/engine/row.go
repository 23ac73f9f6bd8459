// Package engine implements the real-time eight-channel vibroacoustic
// synthesis and playback core: waveform synthesis, envelopes, routing,
// gain staging, fades, the sequencer state machine, and the mixer that
// combines synthesis with auxiliary audio.
package engine

import "fmt"

// Row is an immutable recipe for one stimulation segment. Values are
// validated at Sequence construction; the engine trusts them once
// loaded.
type Row struct {
	TimeS        float64 // duration in seconds, [0, 3600]; 0 skips the row
	FrequencyHz  float64 // base carrier, [20, 200]
	FreqSweepHz  float64 // peak vibrato deviation, [0, 100]
	SweepSpeedHz float64 // vibrato LFO frequency, [0, 10]
	PhaseDeg     float64 // per-output phase offset step, [0, 359]
	ModSpeedStep int     // [1, 100], log-mapped to modulator Hz
	Mode         int     // [0, 10]
	Strength     int     // [0, 9] baseline master intensity
	Neck         int     // [0, 9]
	Back         int     // [0, 9]
	Thighs       int     // [0, 9]
	Legs         int     // [0, 9]
}

// Valid reports whether r can be played: a non-positive duration or
// carrier frequency makes the row a no-op at load time. Other field
// ranges are not checked here.
func (r Row) Valid() bool {
	return r.TimeS > 0 && r.FrequencyHz > 0
}

// zoneTrim returns the baseline trim for one of the four anatomical
// zones, keyed the same way UserTrim keys its overrides.
func (r Row) zoneTrim(zone Zone) int {
	switch zone {
	case ZoneNeck:
		return r.Neck
	case ZoneBack:
		return r.Back
	case ZoneThighs:
		return r.Thighs
	case ZoneLegs:
		return r.Legs
	default:
		panic(fmt.Sprintf("engine: unknown zone %d", zone))
	}
}

// Zone identifies one of the four anatomical regions a row's trims
// and the router's speaker pairs are keyed by.
type Zone int

const (
	ZoneNeck Zone = iota
	ZoneBack
	ZoneThighs
	ZoneLegs
)

// UserTrim holds live operator overrides on top of a Row's baselines.
// A nil pointer field means "unset": the row's baseline applies
// unmodified.
type UserTrim struct {
	Master *int
	Neck   *int
	Back   *int
	Thighs *int
	Legs   *int
}

func (u UserTrim) zoneOverride(zone Zone) *int {
	if u.Neck == nil && u.Back == nil && u.Thighs == nil && u.Legs == nil {
		return nil
	}
	switch zone {
	case ZoneNeck:
		return u.Neck
	case ZoneBack:
		return u.Back
	case ZoneThighs:
		return u.Thighs
	case ZoneLegs:
		return u.Legs
	default:
		panic(fmt.Sprintf("engine: unknown zone %d", zone))
	}
}

// Sequence is an ordered, load-time-filtered list of playable rows.
type Sequence struct {
	Rows []Row
}

// NewSequence drops zero-time or zero-frequency rows, matching
// spec's "filtered out at sequence load" rule. An all-invalid input
// yields a Sequence with no rows; callers must reject that before
// handing it to the engine (see commands.go's ErrNothingToPlay).
func NewSequence(rows []Row) Sequence {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return Sequence{Rows: out}
}
