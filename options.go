package ihero

import (
	"time"

	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/chapter"
	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/internal/gpu"
	"github.com/gogpu/ihero/internal/loop"
	"github.com/gogpu/ihero/quality"
	"github.com/gogpu/ihero/render"
)

// Scheduler drives a stage: frame callbacks, microtasks and host events.
type Scheduler = loop.Scheduler

// Loop is the real-time Scheduler. Run it on its own goroutine.
type Loop = loop.Loop

// NewLoop creates a Loop ticking at interval. Zero means 60 Hz.
func NewLoop(interval time.Duration) *Loop { return loop.New(interval) }

// RendererFactory creates the renderer of a stage. It runs once, inside
// the stage constructor.
type RendererFactory func(canvas host.Canvas, snap caps.Snapshot) (render.Renderer, error)

// StageOption configures a Stage during creation.
//
// Example:
//
//	// Default: a GPU renderer on the best hal backend, scroll-driven.
//	st, err := ihero.NewStage(root, canvas, snap, ihero.WithScheduler(l))
//
//	// Gallery mode over a custom table with a CPU preview renderer.
//	st, err := ihero.NewStage(root, canvas, snap,
//	    ihero.WithScheduler(l),
//	    ihero.WithMode(ihero.ModeGallery),
//	    ihero.WithChapters(table),
//	    ihero.WithRenderer(render.NewSoftwareRenderer()))
type StageOption func(*stageOptions)

type stageOptions struct {
	scheduler   Scheduler
	renderer    render.Renderer
	newRenderer RendererFactory
	device      render.DeviceHandle
	chapters    chapter.Table
	policy      quality.Policy
	ripples     RipplePolicy
	mode        Mode
	scenes      int
	composite   bool
	debug       bool
}

func defaultStageOptions() stageOptions {
	return stageOptions{
		policy:    quality.DefaultPolicy(),
		ripples:   DefaultRipplePolicy(),
		mode:      ModeHero,
		composite: true,
	}
}

// WithScheduler sets the loop the stage runs on. It is required: NewStage
// fails without it, since a stage nobody drives would never render.
func WithScheduler(s Scheduler) StageOption {
	return func(o *stageOptions) { o.scheduler = s }
}

// WithRenderer injects a ready renderer. The stage takes ownership and
// destroys it.
func WithRenderer(r render.Renderer) StageOption {
	return func(o *stageOptions) { o.renderer = r }
}

// WithRendererFactory replaces the default GPU renderer factory.
func WithRendererFactory(f RendererFactory) StageOption {
	return func(o *stageOptions) { o.newRenderer = f }
}

// WithDevice makes the default renderer borrow the host's GPU device.
func WithDevice(h render.DeviceHandle) StageOption {
	return func(o *stageOptions) { o.device = h }
}

// WithChapters sets the chapter table. The default depends on the mode:
// chapter.Hero for ModeHero and chapter.Gallery for ModeGallery.
func WithChapters(t chapter.Table) StageOption {
	return func(o *stageOptions) { o.chapters = t }
}

// WithQualityPolicy replaces the adaptive quality thresholds.
func WithQualityPolicy(p quality.Policy) StageOption {
	return func(o *stageOptions) { o.policy = p }
}

// WithRipplePolicy replaces the energy and ripple constants.
func WithRipplePolicy(p RipplePolicy) StageOption {
	return func(o *stageOptions) { o.ripples = p }
}

// WithMode selects scroll-driven or gallery progress.
func WithMode(m Mode) StageOption {
	return func(o *stageOptions) { o.mode = m }
}

// WithComposite enables or disables the two-pass portal composite.
func WithComposite(enabled bool) StageOption {
	return func(o *stageOptions) { o.composite = enabled }
}

// withConfig applies a parsed dataset configuration.
func withConfig(c Config) StageOption {
	return func(o *stageOptions) {
		o.mode = c.Mode
		o.scenes = c.Scenes
		o.composite = c.Composite
		o.debug = c.Debug
	}
}

// gpuRendererFactory opens the wgpu renderer, borrowing device when set.
func gpuRendererFactory(device render.DeviceHandle) RendererFactory {
	return func(_ host.Canvas, _ caps.Snapshot) (render.Renderer, error) {
		var opts []gpu.Option
		if device != nil {
			opts = append(opts, gpu.WithDevice(device))
		}
		return gpu.New(opts...)
	}
}
