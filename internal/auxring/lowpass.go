package auxring

// LowPass is the 5-tap symmetric FIR fallback of spec.md §4.C
// ({0.1, 0.2, 0.4, 0.2, 0.1}), applied to auxiliary stereo before
// mixing. At 48 kHz these taps pass 200 Hz essentially unchanged and
// are only 3 dB down near 5.7 kHz, so the filter smooths the aux path
// rather than limiting it to the 200 Hz band. Per-channel 4-sample
// history is preserved across blocks so there is no inter-block
// discontinuity.
//
// The Butterworth SOS variant spec.md offers as the preferred
// implementation is deliberately not built: no library in the
// retrieved example corpus provides a second-order-section filter,
// and pulling in a numerics dependency nothing else in this repo uses
// would contradict grounding every component in the corpus. The FIR
// fallback is itself explicitly sanctioned by spec.md §4.C.
type LowPass struct {
	histL [4]float32
	histR [4]float32
}

var firTaps = [5]float32{0.1, 0.2, 0.4, 0.2, 0.1}

// NewLowPass returns a filter with zeroed history (cold start, as at
// process boot).
func NewLowPass() *LowPass {
	return &LowPass{}
}

// Process filters one block of stereo samples in place, advancing
// each channel's history to the block's trailing four samples.
func (lp *LowPass) Process(left, right []float32) {
	filterChannel(left, &lp.histL)
	filterChannel(right, &lp.histR)
}

func filterChannel(block []float32, hist *[4]float32) {
	n := len(block)
	if n == 0 {
		return
	}
	// scratch holds the 4 samples of history followed by the block,
	// so sample i of the output convolves scratch[i:i+5].
	scratch := make([]float32, 4+n)
	copy(scratch[:4], hist[:])
	copy(scratch[4:], block)

	for i := 0; i < n; i++ {
		var acc float32
		for k := 0; k < 5; k++ {
			acc += firTaps[k] * scratch[i+k]
		}
		block[i] = acc
	}

	copy(hist[:], scratch[len(scratch)-4:])
}
