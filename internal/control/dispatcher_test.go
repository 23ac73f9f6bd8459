package control

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeBlock builds a frame-major/interleaved payload (frame 0's 8
// channels, then frame 1's, ...), the same layout decodeWifiBlock
// expects.
func encodeBlock(t *testing.T, blockLen int, fill func(ch, n int) float32) string {
	t.Helper()
	raw := make([]byte, blockLen*8*4)
	for n := 0; n < blockLen; n++ {
		base := n * 8 * 4
		for ch := 0; ch < 8; ch++ {
			off := base + ch*4
			binary.LittleEndian.PutUint32(raw[off:off+4], math.Float32bits(fill(ch, n)))
		}
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecodeWifiBlock_RoundTrips(t *testing.T) {
	const blockLen = 4
	b64 := encodeBlock(t, blockLen, func(ch, n int) float32 { return float32(ch*10 + n) })

	block, err := decodeWifiBlock(b64, blockLen)
	require.NoError(t, err)
	assert.Equal(t, float32(0), block[0][0])
	assert.Equal(t, float32(3), block[0][3])
	assert.Equal(t, float32(70), block[7][0])
}

func TestDecodeWifiBlock_WrongLengthErrors(t *testing.T) {
	b64 := encodeBlock(t, 4, func(ch, n int) float32 { return 0 })
	_, err := decodeWifiBlock(b64, 8) // wrong blockLen, expects more bytes
	assert.Error(t, err)
}

func TestDecodeWifiBlock_InvalidBase64Errors(t *testing.T) {
	_, err := decodeWifiBlock("not valid base64!!", 4)
	assert.Error(t, err)
}
