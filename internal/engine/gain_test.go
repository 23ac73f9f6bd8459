package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDual_NilUser(t *testing.T) {
	assert.Equal(t, 7, applyDual(7, nil))
}

func TestApplyDual_Five(t *testing.T) {
	five := 5
	assert.Equal(t, 7, applyDual(7, &five))
}

func TestApplyDual_Low(t *testing.T) {
	zero := 0
	assert.Equal(t, 0, applyDual(8, &zero))
}

func TestApplyDual_High(t *testing.T) {
	nine := 9
	assert.Equal(t, 9, applyDual(5, &nine))
}

func TestScaledAmp_Midpoint(t *testing.T) {
	assert.InDelta(t, 50.0/90.0, scaledAmp(5, 5), 1e-9)
}

func TestScaledAmp_ZeroStrength(t *testing.T) {
	assert.Equal(t, 0.0, scaledAmp(0, 5))
}

func TestScaledAmp_S1Seed(t *testing.T) {
	// S1 seed scenario from spec: scaled_amp(5,5) = 0.555...
	got := scaledAmp(5, 5)
	assert.InDelta(t, 50.0/90.0, got, 1e-9)
}
