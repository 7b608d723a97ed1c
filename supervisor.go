package ihero

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// maxRenderFailures is the number of consecutive render errors treated as
// a lost context.
const maxRenderFailures = 3

// ContextLost switches the stage to the CSS fallback, as the host does on
// a GPU context-loss event. The status is written before ContextLost
// returns; Destroy runs as a microtask so the host's event dispatch is not
// re-entered. The context is never restored.
func (s *Stage) ContextLost() {
	s.loseContext("context lost")
}

func (s *Stage) loseContext(detail string) {
	if s.lost || s.destroyed {
		return
	}
	s.lost = true
	s.setStatus(cssStatus(StatusContextLost, detail))
	slogger().Warn("ihero: context lost, falling back to css", "root", s.root.ID(), "detail", detail)
	s.sched.Defer(s.Destroy)
}

// fail switches to the CSS fallback after an unexpected failure.
func (s *Stage) fail(st Status, detail string) {
	if s.destroyed || s.status.Fallback() {
		return
	}
	s.setStatus(cssStatus(st, detail))
	slogger().Warn("ihero: stage failed, falling back to css", "root", s.root.ID(), "detail", detail)
	s.sched.Defer(s.Destroy)
}

// renderFailed classifies a render error. Device loss is terminal at
// once; other errors are logged and only become terminal after
// maxRenderFailures in a row.
func (s *Stage) renderFailed(err error) {
	if isContextLoss(err) {
		s.loseContext(err.Error())
		return
	}
	s.failures++
	slogger().Warn("ihero: render failed", "root", s.root.ID(), "attempt", s.failures, "err", err)
	if s.failures >= maxRenderFailures {
		s.loseContext(fmt.Sprintf("%d consecutive render failures: %v", s.failures, err))
	}
}

// guardTick runs one tick and turns a panic into the CSS fallback.
func (s *Stage) guardTick(now time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(StatusContextLost, fmt.Sprintf("tick panicked: %v", r))
		}
	}()
	s.Tick(now)
}

func isContextLoss(err error) bool {
	return errors.Is(err, hal.ErrDeviceLost) ||
		errors.Is(err, hal.ErrSurfaceLost) ||
		errors.Is(err, ErrContextLost)
}

func isTransient(err error) bool { return errors.Is(err, ErrTransientInput) }

// safeRelease runs one release step. A panic is logged and swallowed so
// the remaining steps still run.
func safeRelease(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slogger().Warn("ihero: release panicked", "resource", name, "panic", r)
		}
	}()
	fn()
}
