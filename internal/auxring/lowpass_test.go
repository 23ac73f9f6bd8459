package auxring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowPass_DCGainIsUnity(t *testing.T) {
	lp := NewLowPass()
	left := make([]float32, 32)
	right := make([]float32, 32)
	for i := range left {
		left[i] = 1
		right[i] = 1
	}
	lp.Process(left, right)
	// taps sum to 1.0, so a constant input settles to the same
	// constant output once history fills with that constant.
	assert.InDelta(t, 1.0, left[31], 1e-6)
	assert.InDelta(t, 1.0, right[31], 1e-6)
}

func TestLowPass_HistoryCarriesAcrossBlocks(t *testing.T) {
	lp := NewLowPass()
	ones := []float32{1, 1, 1, 1, 1}
	right := make([]float32, 5)
	lp.Process(ones, right)
	require := ones[4]
	assert.InDelta(t, 1.0, float64(require), 1e-6)

	// a second all-ones block should already be steady state from the
	// first block's trailing history, with no dip at the seam.
	ones2 := []float32{1, 1, 1, 1, 1}
	lp.Process(ones2, right)
	assert.InDelta(t, 1.0, float64(ones2[0]), 1e-6)
}
