package auxring

import (
	"strings"
	"sync"
	"time"
)

// Handle is the capture-facing side of the external Bluetooth A2DP
// collaborator: one non-blocking attempt to read whatever stereo
// int16 frames are currently available. An empty, nil-error result
// means "nothing ready yet" (EAGAIN-equivalent), not device loss.
type Handle interface {
	Read() (frames [][2]int16, err error)
}

const (
	maxReadsPerIteration = 10
	drainSleep           = 5 * time.Millisecond
	maxConsecutiveErrors = 50
	recycleCooldown      = 5 * time.Second
)

// Capture runs the background drain thread of spec.md §4.B: up to
// ten non-blocking reads per iteration to absorb bursts, then a 5ms
// sleep, converting each frame int16->float32 via x/32767 into the
// ring. It owns the write side of the ring and the capture handle;
// the engine owns only the read side via Ring.Read.
type Capture struct {
	ring *Ring

	mu          sync.Mutex
	handle      Handle
	tornDownAt  time.Time
	consecutive int
}

// NewCapture binds a capture loop to the ring it feeds.
func NewCapture(ring *Ring) *Capture {
	return &Capture{ring: ring}
}

// SetHandle installs a freshly (re)established capture handle. A call
// within recycleCooldown of the last teardown is ignored: the spec
// requires a minimum 5s cooldown between recycles, and honoring it
// here means the Bluetooth collaborator doesn't need to track timing
// itself.
func (c *Capture) SetHandle(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tornDownAt.IsZero() && time.Since(c.tornDownAt) < recycleCooldown {
		return
	}
	c.handle = h
	c.consecutive = 0
}

// Clear tears down the active handle immediately (e.g. the collaborator
// observed the device vanish out-of-band). While torn down, Run
// delivers silence to the ring.
func (c *Capture) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

func (c *Capture) teardownLocked() {
	c.handle = nil
	c.consecutive = 0
	c.tornDownAt = time.Now()
}

func (c *Capture) currentHandle() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Run drains the capture handle into the ring until done is closed. It
// never panics and never blocks longer than drainSleep when no handle
// is installed.
func (c *Capture) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		c.drainIteration()

		select {
		case <-done:
			return
		case <-time.After(drainSleep):
		}
	}
}

func (c *Capture) drainIteration() {
	for i := 0; i < maxReadsPerIteration; i++ {
		h := c.currentHandle()
		if h == nil {
			return
		}
		frames, err := h.Read()
		if err != nil {
			c.recordError(err)
			return
		}
		if len(frames) == 0 {
			c.recordSuccess()
			return
		}
		c.recordSuccess()
		for _, f := range frames {
			c.ring.Push(float32(f[0])/32767, float32(f[1])/32767)
		}
	}
}

func (c *Capture) recordSuccess() {
	c.mu.Lock()
	c.consecutive = 0
	c.mu.Unlock()
}

// recordError applies spec's teardown rule: an explicit device-loss
// error tears down immediately; any other transient error only tears
// down after 50 consecutive occurrences.
func (c *Capture) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if isDeviceLoss(err) {
		c.teardownLocked()
		return
	}
	c.consecutive++
	if c.consecutive >= maxConsecutiveErrors {
		c.teardownLocked()
	}
}

func isDeviceLoss(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "device") && (strings.Contains(msg, "lost") ||
		strings.Contains(msg, "disconnect") || strings.Contains(msg, "gone") ||
		strings.Contains(msg, "no such device"))
}

// Active reports whether a capture handle is currently installed.
func (c *Capture) Active() bool {
	return c.currentHandle() != nil
}
