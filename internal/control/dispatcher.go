package control

import (
	"encoding/base64"
	"encoding/binary"
	"math"
)

// handleWifiStream routes the three wifi-stream-* actions (a
// supplemented feature per spec.md §4.K's "external WiFi-stream
// mode") directly against the engine's WifiStream buffer rather than
// through the command queue: streamed blocks bypass synthesis
// entirely, so there's no PlayerState transition to apply.
//
// Per spec.md §9's Open Question resolution, wifi-stream-data accepts
// only base64-encoded float32 PCM; a JSON number array is rejected
// with error:badjson rather than silently supported, so clients don't
// end up straddling both encodings.
func (s *Server) handleWifiStream(msg inMessage) string {
	switch msg.Action {
	case ActionWifiStreamStart:
		s.stream.Start()
		return ackFrame(msg.Action)

	case ActionWifiStreamStop:
		s.stream.Stop()
		return ackFrame(msg.Action)

	case ActionWifiStreamData:
		block, err := decodeWifiBlock(msg.Data, s.blockLen)
		if err != nil {
			return errorFrame(errBadJSON)
		}
		s.stream.Push(block)
		return ackFrame(msg.Action)

	default:
		return errorFrame(errUnknownAction)
	}
}

// decodeWifiBlock decodes a base64 payload of blockLen frames * 8
// channels little-endian float32 samples, frame-major/interleaved
// (frame 0's 8 channels, then frame 1's, ...), matching
// original_source/ws_audio.py's `wifi_data.reshape((frames, CHANNELS))`
// and the engine's own PCM convention (mixer.go's mixToPCM writes
// out[n*8+ch]).
func decodeWifiBlock(b64 string, blockLen int) (block [8][]float32, err error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return block, err
	}
	want := blockLen * 8 * 4
	if len(raw) != want {
		return block, errShortBlock
	}
	for ch := 0; ch < 8; ch++ {
		block[ch] = make([]float32, blockLen)
	}
	for n := 0; n < blockLen; n++ {
		base := n * 8 * 4
		for ch := 0; ch < 8; ch++ {
			off := base + ch*4
			bits := binary.LittleEndian.Uint32(raw[off : off+4])
			block[ch][n] = math.Float32frombits(bits)
		}
	}
	return block, nil
}

type wifiBlockError string

func (e wifiBlockError) Error() string { return string(e) }

const errShortBlock = wifiBlockError("control: wifi-stream-data payload wrong length")
