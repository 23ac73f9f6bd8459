// Package auxring decouples the bursty auxiliary (Bluetooth A2DP)
// capture source from the engine's fixed-rate output callback: a
// background thread drains the capture handle into a mutex-protected
// stereo ring buffer, and the engine reads fixed-size blocks out of
// it once per tick. Grounded structurally on
// FabianRolfMatthiasNoll-GameBoyEmulator's internal/apu ring buffer
// (pushStereo/PullStereo/StereoAvailable: power-of-two-free head/tail
// counters, drop-oldest on overflow), adapted to float32 samples and
// a read API that zero-fills shortfall instead of returning nil.
package auxring

import (
	"sync"
	"time"

	"github.com/vibrowolf/vibrowolf/internal/logging"
)

var log = logging.For("auxcapture")

// Ring is a fixed-capacity stereo ring buffer of float32 samples in
// [-1, 1]. Capacity is BLOCK*8 frames per spec.md §4.B. One capture
// goroutine writes, the engine goroutine reads; a mutex protects
// {writeIdx, readIdx, fill}.
type Ring struct {
	mu    sync.Mutex
	left  []float32
	right []float32

	writeIdx int
	readIdx  int
	fill     int

	underruns       int
	lastUnderrunLog time.Time
}

// NewRing allocates a ring of the given frame capacity.
func NewRing(capacity int) *Ring {
	return &Ring{
		left:  make([]float32, capacity),
		right: make([]float32, capacity),
	}
}

// Push appends one stereo frame. On overflow the oldest frame is
// dropped: the write pointer advances and the read pointer advances
// by one, keeping fill pinned at capacity.
func (r *Ring) Push(l, rr float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cap := len(r.left)
	r.left[r.writeIdx] = l
	r.right[r.writeIdx] = rr
	r.writeIdx = (r.writeIdx + 1) % cap
	if r.fill < cap {
		r.fill++
	} else {
		r.readIdx = (r.readIdx + 1) % cap
	}
}

// Read copies up to n frames out of the ring (engine-facing API,
// spec.md §4.B). If fill < n the shortfall is zero-filled and the
// underrun counter is incremented, logged at most once per second.
// The copy is two-part when the read wraps past the end of the
// backing arrays.
func (r *Ring) Read(n int) (left, right []float32) {
	left = make([]float32, n)
	right = make([]float32, n)

	r.mu.Lock()
	avail := r.fill
	if avail > n {
		avail = n
	}
	cap := len(r.left)
	idx := r.readIdx
	first := avail
	if idx+first > cap {
		first = cap - idx
	}
	copy(left[:first], r.left[idx:idx+first])
	copy(right[:first], r.right[idx:idx+first])
	copy(left[first:avail], r.left[:avail-first])
	copy(right[first:avail], r.right[:avail-first])
	if cap > 0 {
		r.readIdx = (idx + avail) % cap
	}
	r.fill -= avail
	shortfall := n - avail
	if shortfall > 0 {
		r.underruns++
	}
	lastLog := r.lastUnderrunLog
	r.mu.Unlock()

	if shortfall > 0 {
		now := time.Now()
		if now.Sub(lastLog) >= time.Second {
			r.mu.Lock()
			r.lastUnderrunLog = now
			r.mu.Unlock()
			log.Warn("aux read underrun", "requested", n, "shortfall", shortfall)
		}
	}
	return left, right
}

// Fill reports the number of frames currently buffered, for tests and
// diagnostics.
func (r *Ring) Fill() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fill
}
