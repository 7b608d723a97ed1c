package ihero

import (
	"fmt"

	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/host"
)

// Fixed selectors of the mount point.
const (
	RootSelector   = "[data-ih-root]"
	CanvasSelector = "canvas[data-ih-canvas]"
)

// Controller is a mounted stage plus the host listeners feeding it.
type Controller struct {
	stage   *Stage
	sched   Scheduler
	removes []func()
}

// Stage returns the controlled stage.
func (c *Controller) Stage() *Stage { return c.stage }

// Dispose detaches every listener, then destroys the stage on the
// scheduler between two callbacks. It must not be called from inside a
// scheduler callback.
func (c *Controller) Dispose() {
	for _, remove := range c.removes {
		safeRelease("listener", remove)
	}
	c.removes = nil
	c.sched.Call(c.stage.Destroy)
}

// NewFactory returns the Factory that mounts a hero into a root of doc.
//
// For each root it probes env, reads the dataset configuration and the
// ihDebug and scene query parameters, builds a stage and wires the root's
// events into it through sched. A root without a canvas is skipped
// silently. When the GPU is unavailable or the stage cannot be built the
// root is switched to the CSS fallback and nothing is mounted.
//
// Each mounted controller is also passed to onMount, which may be nil. If
// anything after the stage is built panics, onMount included, the
// controller is disposed and the root falls back to CSS before the panic
// continues.
func NewFactory(doc host.Document, env caps.Env, sched Scheduler, onMount func(*Controller), opts ...StageOption) Factory {
	return func(root host.Root) (Disposer, error) {
		canvas, ok := root.Canvas(CanvasSelector)
		if !ok {
			slogger().Debug("ihero: root has no canvas", "root", root.ID())
			return nil, nil
		}

		location := doc.Location()
		if debugParam(location) {
			root.SetDataset(keyDebug, "1")
		}
		cfg := ParseConfig(root)

		snap := caps.Probe(env)
		if !snap.WebGL {
			cssStatus(StatusWebGLUnavailable, "").write(root)
			slogger().Info("ihero: gpu unavailable, css fallback", "root", root.ID())
			return nil, nil
		}

		all := append([]StageOption{WithScheduler(sched), withConfig(cfg)}, opts...)
		stage, err := NewStage(root, canvas, snap, all...)
		if err != nil {
			cssStatus(StatusInitFailed, err.Error()).write(root)
			return nil, err
		}

		c := &Controller{stage: stage, sched: sched}
		defer func() {
			if p := recover(); p != nil {
				c.Dispose()
				cssStatus(StatusInitFailed, fmt.Sprintf("mount panicked: %v", p)).write(root)
				panic(p)
			}
		}()

		if g := stage.Gallery(); g != nil {
			if i, ok := ParseSceneParam(location, g.Count()); ok {
				stage.jumpProgress(float64(i) * g.Step())
			}
		}

		c.listen(root, sched)
		sched.Call(stage.Start)
		if onMount != nil {
			onMount(c)
		}
		return c.Dispose, nil
	}
}

// listen attaches the root's event streams. Every callback is posted to
// the loop goroutine, context loss included: its status flips inside the
// posted callback and Destroy follows as a microtask.
func (c *Controller) listen(root host.Root, sched Scheduler) {
	s := c.stage
	on := func(kind host.EventKind, fn func(host.Event)) {
		c.removes = append(c.removes, root.Listen(kind, fn))
	}
	on(host.EventPointer, func(ev host.Event) {
		sched.Post(func() { _ = s.HandlePointer(ev.Pointer) })
	})
	on(host.EventGesture, func(ev host.Event) {
		sched.Post(func() { _ = s.HandleGesture(ev.Gesture) })
	})
	on(host.EventScroll, func(ev host.Event) {
		sched.Post(func() { _ = s.HandleScroll(ev.Scroll) })
	})
	on(host.EventKey, func(ev host.Event) {
		sched.Post(func() { _ = s.HandleKey(ev.Key) })
	})
	on(host.EventResize, func(host.Event) {
		sched.Post(func() {
			if err := s.Resize(); err != nil && !isTransient(err) {
				s.renderFailed(err)
			}
		})
	})
	on(host.EventVisibility, func(ev host.Event) {
		sched.Post(func() { s.SetVisible(ev.Visible) })
	})
	on(host.EventIntersection, func(ev host.Event) {
		sched.Post(func() { s.SetIntersecting(ev.Visible) })
	})
	on(host.EventContextLost, func(host.Event) {
		sched.Post(s.ContextLost)
	})
}
