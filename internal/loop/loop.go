// Package loop provides the cooperative frame scheduler that drives a stage.
//
// The model mirrors a browser event loop: frame callbacks requested with
// RequestFrame run once on the next frame, microtasks queued with Defer run
// after the current callback returns and before anything else, and Post
// delivers host events onto the loop goroutine. Everything a stage does
// happens on that one goroutine, so stage state needs no locks.
package loop

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameFunc is a frame callback. now is the loop time since start.
type FrameFunc func(now time.Duration)

// Scheduler is the subset of the loop a stage depends on.
type Scheduler interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame removes a pending callback. Unknown ids are ignored.
	CancelFrame(id FrameID)

	// Defer queues fn to run after the current callback completes.
	Defer(fn func())

	// Post delivers a host event callback onto the loop goroutine.
	Post(fn func())

	// Call runs fn between callbacks, followed by the microtasks it
	// queued, and returns once they are done. It must not be called from
	// inside a callback.
	Call(fn func())

	// Now returns the loop time.
	Now() time.Duration
}

type frameEntry struct {
	id FrameID
	fn FrameFunc
}

// queue holds pending frames and microtasks. It is shared by Loop and Manual.
type queue struct {
	mu      sync.Mutex
	nextID  FrameID
	frames  []frameEntry
	running []frameEntry
	micro   []func()
}

func (q *queue) request(fn FrameFunc) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.frames = append(q.frames, frameEntry{id: q.nextID, fn: fn})
	return q.nextID
}

// cancel removes a pending frame. A callback of the frame currently running
// can cancel a later callback of the same frame.
func (q *queue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.frames {
		if e.id == id {
			q.frames = append(q.frames[:i], q.frames[i+1:]...)
			break
		}
	}
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
		}
	}
}

func (q *queue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

func (q *queue) deferTask(fn func()) {
	q.mu.Lock()
	q.micro = append(q.micro, fn)
	q.mu.Unlock()
}

// drainMicro runs microtasks until the queue is empty, including tasks
// queued by other microtasks.
func (q *queue) drainMicro() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.micro) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.micro[0]
		q.micro = q.micro[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

// runFrame runs every callback that was pending when the frame started,
// draining microtasks after each one. Callbacks requested during the frame
// wait for the next one.
func (q *queue) runFrame(now time.Duration) int {
	q.mu.Lock()
	q.running = q.frames
	q.frames = nil
	q.mu.Unlock()

	n := 0
	for i := 0; ; i++ {
		q.mu.Lock()
		if i >= len(q.running) {
			q.running = nil
			q.mu.Unlock()
			return n
		}
		fn := q.running[i].fn
		q.mu.Unlock()

		if fn == nil {
			continue
		}
		fn(now)
		n++
		q.drainMicro()
	}
}

// Loop is the real-time scheduler. Run it on a dedicated goroutine.
type Loop struct {
	queue

	interval time.Duration
	start    time.Time
	posts    chan func()

	exec sync.Mutex // held while a callback or Call runs
}

// New creates a loop ticking at interval. A zero interval means 60 Hz.
func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		interval: interval,
		start:    time.Now(),
		posts:    make(chan func(), 64),
	}
}

// Now returns the time since the loop was created.
func (l *Loop) Now() time.Duration { return time.Since(l.start) }

// RequestFrame schedules fn for the next tick. Safe for concurrent use.
func (l *Loop) RequestFrame(fn FrameFunc) FrameID { return l.request(fn) }

// CancelFrame removes a pending callback. Safe for concurrent use.
func (l *Loop) CancelFrame(id FrameID) { l.cancel(id) }

// Defer queues a microtask. Safe for concurrent use.
func (l *Loop) Defer(fn func()) { l.deferTask(fn) }

// Post delivers fn to the loop goroutine. It runs before the next frame,
// followed by any microtasks it queued. Post blocks while the inbox is full.
func (l *Loop) Post(fn func()) { l.posts <- fn }

// Call runs fn with the loop paused between callbacks and waits for it and
// its microtasks. It lets another goroutine reach stage state without
// racing a frame. Calling it from a loop callback deadlocks.
func (l *Loop) Call(fn func()) {
	l.exec.Lock()
	defer l.exec.Unlock()
	fn()
	l.drainMicro()
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posts:
			l.Call(fn)
		case <-ticker.C:
			l.exec.Lock()
			l.drainMicro()
			l.runFrame(l.Now())
			l.exec.Unlock()
		}
	}
}
