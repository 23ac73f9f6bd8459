package engine

import "math"

// MixGains holds the equal-power cross-fade gains derived from the
// music_mix slider.
type MixGains struct {
	Music, Therapy float64
}

// computeMixGains converts a 0-100 mix slider into equal-power gains
// such that g_music^2 + g_therapy^2 == 1.
func computeMixGains(x int) MixGains {
	x = clampInt(x, 0, 100)
	theta := (math.Pi / 2) * (float64(x) / 100.0)
	return MixGains{Music: math.Cos(theta), Therapy: math.Sin(theta)}
}

// ComputeMixGains is the exported form of computeMixGains, for
// callers outside the package (e.g. restoring a persisted mix slider
// value at startup) that need the identical clamp/trig a live
// set-mix command applies.
func ComputeMixGains(x int) MixGains { return computeMixGains(x) }

// mixToPCM combines the 8-channel therapy block with the 8-channel
// (already fan-expanded, not zone-gained) aux block using gains, clips
// to [-1, 1], and converts to interleaved int16 PCM in out.
func mixToPCM(therapy, aux *[8][]float64, gains MixGains, blockLen int, out []int16) {
	t, a := *therapy, *aux
	for n := 0; n < blockLen; n++ {
		for ch := 0; ch < 8; ch++ {
			v := t[ch][n]*gains.Therapy + a[ch][n]*gains.Music
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			out[n*8+ch] = int16(math.Round(v * 32767))
		}
	}
}
