package engine

// FadeSamples is the length of every fade-in/fade-out ramp: 4 seconds
// at 48 kHz.
const FadeSamples = 192000

// FadeDirection is the sign of the fade currently in progress.
type FadeDirection int

const (
	FadeNone FadeDirection = 0
	FadeIn   FadeDirection = 1
	FadeOut  FadeDirection = -1
)

// FadeState tracks the sample-accurate linear fade bracketing every
// row and applied around pause/resume.
type FadeState struct {
	Direction        FadeDirection
	SamplesRemaining int
	Multiplier       float64
}

// StartFadeIn begins a fresh fade-in from silence.
func (f *FadeState) StartFadeIn() {
	f.Direction = FadeIn
	f.SamplesRemaining = FadeSamples
	f.Multiplier = 0
}

// StartFadeOut begins a full-length ramp from 1 down to silence. The
// ramp starts at 1 whatever the current multiplier is (fade-out length
// is fixed, not shortened by how far into a fade-in we are).
func (f *FadeState) StartFadeOut() {
	f.Direction = FadeOut
	f.SamplesRemaining = FadeSamples
}

// Advance produces the next blockLen fade multipliers into out and
// advances the fade's remaining-sample counter. Once a fade-in
// completes the state holds steady at multiplier 1; once a fade-out
// completes it holds at 0 and Direction becomes FadeNone.
func (f *FadeState) Advance(blockLen int, out []float64) {
	for n := 0; n < blockLen; n++ {
		switch f.Direction {
		case FadeIn:
			progress := float64(FadeSamples-f.SamplesRemaining) / float64(FadeSamples)
			f.Multiplier = progress
			out[n] = f.Multiplier
			if f.SamplesRemaining > 0 {
				f.SamplesRemaining--
			}
			if f.SamplesRemaining == 0 {
				f.Multiplier = 1
				f.Direction = FadeNone
				out[n] = 1
			}
		case FadeOut:
			progress := float64(f.SamplesRemaining) / float64(FadeSamples)
			f.Multiplier = progress
			out[n] = f.Multiplier
			if f.SamplesRemaining > 0 {
				f.SamplesRemaining--
			}
			if f.SamplesRemaining == 0 {
				f.Multiplier = 0
				f.Direction = FadeNone
				out[n] = 0
			}
		default:
			out[n] = f.Multiplier
		}
	}
}

// OutComplete reports whether a fade-out has latched: either it ran to
// its natural end (direction flips to FadeNone at multiplier 0) or, in
// case a block boundary races the final sample, the multiplier has
// already decayed below the pause latch threshold. The source checks
// both conditions to avoid a deadlock if a stop races the fade-out's
// natural completion.
func (f *FadeState) OutComplete() bool {
	if f.Direction == FadeNone {
		return f.Multiplier == 0
	}
	return f.Direction == FadeOut && (f.SamplesRemaining <= 0 || f.Multiplier <= 0.001)
}
