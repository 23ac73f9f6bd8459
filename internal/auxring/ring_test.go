package auxring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_ReadExactFill(t *testing.T) {
	r := NewRing(8)
	for i := 0; i < 4; i++ {
		r.Push(float32(i), -float32(i))
	}
	left, right := r.Read(4)
	require.Len(t, left, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(i), left[i])
		assert.Equal(t, -float32(i), right[i])
	}
	assert.Equal(t, 0, r.Fill())
}

func TestRing_UnderrunZeroFills(t *testing.T) {
	r := NewRing(8)
	r.Push(1, 1)
	left, right := r.Read(4)
	require.Len(t, left, 4)
	assert.Equal(t, float32(1), left[0])
	assert.Equal(t, float32(0), left[1])
	assert.Equal(t, float32(0), right[3])
}

func TestRing_OverflowDropsOldest(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 6; i++ {
		r.Push(float32(i), float32(i))
	}
	assert.Equal(t, 4, r.Fill())
	left, _ := r.Read(4)
	// oldest two frames (0, 1) were dropped; the ring should hold 2..5
	assert.Equal(t, float32(2), left[0])
	assert.Equal(t, float32(5), left[3])
}

func TestRing_FillNeverExceedsCapacity(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 100; i++ {
		r.Push(float32(i), float32(i))
		assert.LessOrEqual(t, r.Fill(), 4)
	}
}
