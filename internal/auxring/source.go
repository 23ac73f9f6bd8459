package auxring

// Source composes the ring buffer with the low-pass filter into the
// single read call the engine's AuxSource interface expects: pull a
// block, then filter it, so the engine never has to know the two
// exist separately.
type Source struct {
	ring *Ring
	lp   *LowPass
}

// NewSource binds a filtered read-side view onto ring.
func NewSource(ring *Ring) *Source {
	return &Source{ring: ring, lp: NewLowPass()}
}

// Read satisfies engine.AuxSource: n stereo frames, passed through
// the 5-tap FIR LowPass, zero-filled on underrun.
func (s *Source) Read(n int) (left, right []float32) {
	left, right = s.ring.Read(n)
	s.lp.Process(left, right)
	return left, right
}
