package engine

import "math"

// ModulatorState carries the four per-output envelope generators'
// phase state across engine blocks. It is reset whenever a row starts
// (fresh play or sequence advance); a resume restores it from the
// pause snapshot instead.
type ModulatorState struct {
	outputs [4]outputModState
}

type outputModState struct {
	sinePhase float64 // radians, [0, 2pi)
	periodPos float64 // seconds into the current drum/heartbeat period
	burstIdx  int     // 0-based index within the current burst+silent group
}

// OutputPhase is the exported, wire-friendly view of one output's
// modulator phase, for snapshotting across a client-supplied resume
// payload (control plane round-trips it through JSON).
type OutputPhase struct {
	SinePhase float64
	PeriodPos float64
	BurstIdx  int
}

// Phases returns the current phase of each of the four outputs.
func (m ModulatorState) Phases() [4]OutputPhase {
	var out [4]OutputPhase
	for k := 0; k < 4; k++ {
		out[k] = OutputPhase{
			SinePhase: m.outputs[k].sinePhase,
			PeriodPos: m.outputs[k].periodPos,
			BurstIdx:  m.outputs[k].burstIdx,
		}
	}
	return out
}

// ModulatorFromPhases builds a ModulatorState from per-output phases,
// the inverse of Phases. Used to restore modulator state from a
// client-supplied resume payload.
func ModulatorFromPhases(phases [4]OutputPhase) ModulatorState {
	var m ModulatorState
	for k := 0; k < 4; k++ {
		m.outputs[k] = outputModState{
			sinePhase: phases[k].SinePhase,
			periodPos: phases[k].PeriodPos,
			burstIdx:  phases[k].BurstIdx,
		}
	}
	return m
}

// ResetForRow re-initialises modulator phase for a fresh row start.
// Each output's drum/heartbeat period position is pre-offset by its
// circular-shift amount so the four outputs diverge correctly from
// the first period onward; the burst grouping counter starts aligned
// across outputs, which is an acceptable approximation at the very
// start of a row and self-corrects after the first burst cycle.
func (m *ModulatorState) ResetForRow(r Row) {
	fm := modFrequency(r.ModSpeedStep)
	family := familyFor(r.Mode)
	period := periodFor(family, fm, r.Mode)
	for k := 0; k < 4; k++ {
		shiftSeconds := (float64(k) * r.PhaseDeg / 360.0) * period
		m.outputs[k] = outputModState{
			sinePhase: 0,
			periodPos: math.Mod(period-math.Mod(shiftSeconds, period), period),
			burstIdx:  0,
		}
	}
}

func periodFor(family envelopeFamily, fm float64, mode int) float64 {
	switch family {
	case familyHeartbeat:
		bpm := math.Round(fm * 60)
		if bpm < 1 {
			bpm = 1
		}
		return 60.0 / bpm
	default:
		return 1.0 / fm
	}
}

func attackDecay(mode int) (attack, decay float64) {
	if mode == 8 {
		return 0.005, 0.100
	}
	return 0.015, 0.400
}

// Generate advances the modulator state by blockLen samples and
// writes each of the four output envelopes into env[k][0:blockLen].
func (m *ModulatorState) Generate(r Row, blockLen int, env *[4][]float64) {
	fm := modFrequency(r.ModSpeedStep)
	family := familyFor(r.Mode)
	period := periodFor(family, fm, r.Mode)
	sinePhaseInc := 2 * math.Pi * fm / sampleRate

	switch family {
	case familySine:
		for k := 0; k < 4; k++ {
			phiK := float64(k) * r.PhaseDeg * math.Pi / 180.0
			s := &m.outputs[k]
			out := (*env)[k]
			for n := 0; n < blockLen; n++ {
				out[n] = sineEnvelopeSample(s.sinePhase, phiK)
				s.sinePhase += sinePhaseInc
				if s.sinePhase >= 2*math.Pi {
					s.sinePhase -= 2 * math.Pi
				}
			}
		}
	case familyDrum:
		attack, decay := attackDecay(r.Mode)
		burstLen := int(math.Max(1, math.Round(r.PhaseDeg/22.5)))
		for k := 0; k < 4; k++ {
			s := &m.outputs[k]
			out := (*env)[k]
			for n := 0; n < blockLen; n++ {
				if s.burstIdx == burstLen {
					out[n] = 0
				} else {
					out[n] = drumEnvelopeValue(s.periodPos, attack, decay)
				}
				s.periodPos += 1.0 / sampleRate
				if s.periodPos >= period {
					s.periodPos -= period
					s.burstIdx++
					if s.burstIdx > burstLen {
						s.burstIdx = 0
					}
				}
			}
		}
	case familyHeartbeat:
		for k := 0; k < 4; k++ {
			s := &m.outputs[k]
			out := (*env)[k]
			for n := 0; n < blockLen; n++ {
				out[n] = heartbeatEnvelopeValue(s.periodPos, period)
				s.periodPos += 1.0 / sampleRate
				if s.periodPos >= period {
					s.periodPos -= period
				}
			}
		}
	}
}
