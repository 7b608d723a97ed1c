package loop

import (
	"sync"
	"time"
)

// Manual is a deterministic scheduler for tests and offline rendering.
// Time only moves when Step or Advance is called.
type Manual struct {
	queue

	clockMu sync.RWMutex
	now     time.Duration
}

// NewManual creates a manual scheduler at time zero.
func NewManual() *Manual { return &Manual{} }

// Now returns the manual clock.
func (m *Manual) Now() time.Duration {
	m.clockMu.RLock()
	defer m.clockMu.RUnlock()
	return m.now
}

// Advance moves the clock without running anything.
func (m *Manual) Advance(d time.Duration) {
	m.clockMu.Lock()
	m.now += d
	m.clockMu.Unlock()
}

// RequestFrame schedules fn for the next Step.
func (m *Manual) RequestFrame(fn FrameFunc) FrameID { return m.request(fn) }

// CancelFrame removes a pending callback.
func (m *Manual) CancelFrame(id FrameID) { m.cancel(id) }

// Defer queues a microtask; it runs on the next Flush, Post or Step.
func (m *Manual) Defer(fn func()) { m.deferTask(fn) }

// Post runs fn as a host event: immediately, followed by its microtasks.
func (m *Manual) Post(fn func()) {
	fn()
	m.drainMicro()
}

// Call runs fn and its microtasks. Manual has no goroutine of its own, so
// this is the same as Post.
func (m *Manual) Call(fn func()) { m.Post(fn) }

// Flush runs pending microtasks and reports how many ran.
func (m *Manual) Flush() int { return m.drainMicro() }

// Step advances the clock by d and runs one frame. It returns the number of
// frame callbacks that ran.
func (m *Manual) Step(d time.Duration) int {
	m.Advance(d)
	m.drainMicro()
	return m.runFrame(m.Now())
}

// Pending returns the number of frame callbacks waiting for the next Step.
func (m *Manual) Pending() int { return m.pending() }
