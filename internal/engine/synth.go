package engine

import "math"

// CarrierState is the phase accumulator for the shared carrier,
// preserved across blocks so consecutive blocks join without a click.
type CarrierState struct {
	Phase float64 // radians, normalised to [0, 2pi)
}

// Reset zeroes the accumulator; called whenever a row starts fresh.
func (c *CarrierState) Reset() {
	c.Phase = 0
}

// Generate fills out[0:blockLen] with one block of the carrier for row
// r, starting at elapsed time t0 seconds into the row, advancing and
// wrapping the phase accumulator as it goes. The same carrier feeds
// all four logical outputs; phase differentiation between outputs
// happens in the modulator, not here.
func (c *CarrierState) Generate(r Row, t0 float64, blockLen int, out []float64) {
	sweep := r.FreqSweepHz > 0 && r.SweepSpeedHz > 0
	for n := 0; n < blockLen; n++ {
		t := t0 + float64(n)/sampleRate
		f := r.FrequencyHz
		if sweep {
			f = r.FrequencyHz + r.FreqSweepHz*math.Sin(2*math.Pi*r.SweepSpeedHz*t)
			f = math.Max(20, math.Min(200, f))
		}
		out[n] = math.Sin(c.Phase)
		c.Phase += 2 * math.Pi * f / sampleRate
		if c.Phase >= 2*math.Pi {
			c.Phase -= 2 * math.Pi
		}
	}
}
