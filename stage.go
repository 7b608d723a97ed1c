package ihero

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/chapter"
	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/internal/loop"
	"github.com/gogpu/ihero/quality"
	"github.com/gogpu/ihero/render"
)

// idleRefreshTicks is how often a skipped tick still refreshes the
// exported variables.
const idleRefreshTicks = 50

// Stage renders one hero into one canvas.
//
// A stage is driven by its scheduler: every method except the constructor
// must be called on the scheduler's goroutine. Host event callbacks reach
// it through Scheduler.Post.
type Stage struct {
	root     host.Root
	canvas   host.Canvas
	snap     caps.Snapshot
	sched    Scheduler
	renderer render.Renderer

	chapters  chapter.Table
	mode      Mode
	composite bool
	depth     bool
	debug     bool
	ripplePol RipplePolicy

	input    InputState
	touches  int
	pinching bool
	energy   energy
	ripples  rippleRing
	quality  *quality.Controller
	viewport viewportStabilizer
	vars     *varWriter
	gallery  *Gallery

	progress   float64
	target     float64
	external   bool
	cfg        chapter.Config
	lastFactor float64

	width, height int

	status       StageStatus
	visible      bool
	intersecting bool
	lost         bool
	destroyed    bool
	failures     int

	started bool
	start   time.Duration
	last    time.Duration
	elapsed float64
	ticks   uint64
	frameID loop.FrameID

	rippleBuf []render.Ripple
}

// NewStage creates a stage for canvas inside root. Any failure is returned
// as an *InitError and leaves nothing to release; the caller must not use
// the stage and should fall back to CSS.
func NewStage(root host.Root, canvas host.Canvas, snap caps.Snapshot, opts ...StageOption) (*Stage, error) {
	if root == nil || canvas == nil {
		return nil, &InitError{Op: "mount", Err: errNoRoot}
	}
	if !snap.WebGL {
		return nil, &InitError{Op: "probe", Err: ErrCapabilityUnavailable}
	}

	o := defaultStageOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		return nil, &InitError{Op: "scheduler", Err: errNoScheduler}
	}
	table := o.chapters
	if table == nil {
		table = chapter.Hero()
		if o.mode == ModeGallery {
			table = chapter.Gallery()
		}
	}
	if o.scenes >= 1 && o.scenes < len(table) {
		table = table[:o.scenes]
	}
	if err := table.Validate(); err != nil {
		return nil, &InitError{Op: "chapters", Err: err}
	}

	r, err := createRenderer(o, canvas, snap)
	if err != nil {
		return nil, &InitError{Op: "renderer", Err: err}
	}

	s := &Stage{
		root:         root,
		canvas:       canvas,
		snap:         snap,
		sched:        o.scheduler,
		renderer:     r,
		chapters:     table,
		mode:         o.mode,
		composite:    o.composite,
		depth:        snap.WebGL2,
		debug:        o.debug,
		ripplePol:    o.ripples,
		input:        newInputState(),
		quality:      quality.New(o.policy, snap.CoarsePointer),
		viewport:     viewportStabilizer{coarse: snap.CoarsePointer},
		vars:         newVarWriter(root),
		visible:      true,
		intersecting: true,
	}
	if cr, ok := r.(render.CapableRenderer); ok {
		s.depth = s.depth && cr.Capabilities().DepthTexture
	}
	s.cfg = chapter.Blend(table, 0)
	s.lastFactor = s.quality.Factor()
	if o.mode == ModeGallery {
		s.external = true
		s.gallery = newGallery(s, len(table))
	}

	if err := s.SyncSize(); err != nil && !isTransient(err) {
		safeRelease("renderer", r.Destroy)
		return nil, &InitError{Op: "resize", Err: err}
	}
	s.setStatus(okStatus())
	slogger().Debug("ihero: stage created",
		"root", root.ID(), "mode", o.mode, "chapters", len(table),
		"composite", o.composite, "depth", s.depth)
	return s, nil
}

// createRenderer runs the injected renderer or factory. A panicking
// factory is reported as an error.
func createRenderer(o stageOptions, canvas host.Canvas, snap caps.Snapshot) (r render.Renderer, err error) {
	if o.renderer != nil {
		return o.renderer, nil
	}
	factory := o.newRenderer
	if factory == nil {
		factory = gpuRendererFactory(o.device)
	}
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("renderer factory panicked: %v", p)
		}
	}()
	r, err = factory(canvas, snap)
	if err == nil && r == nil {
		err = fmt.Errorf("renderer factory returned nil")
	}
	return r, err
}

// Start schedules the first frame. Each frame schedules the next until
// Destroy.
func (s *Stage) Start() {
	if s.destroyed || s.frameID != 0 {
		return
	}
	s.frameID = s.sched.RequestFrame(s.onFrame)
}

func (s *Stage) onFrame(now time.Duration) {
	s.frameID = 0
	s.guardTick(now)
	if !s.destroyed {
		s.frameID = s.sched.RequestFrame(s.onFrame)
	}
}

// Tick advances the stage to loop time now and renders one frame. It
// renders nothing while the CSS fallback is active, the page is hidden,
// the root is off screen or the context is lost.
func (s *Stage) Tick(now time.Duration) {
	if s.destroyed {
		return
	}
	s.ticks++
	dt, deltaMs := s.advanceClock(now)

	if s.idle() {
		if s.ticks%idleRefreshTicks == 0 {
			s.exportVars()
		}
		return
	}

	s.input.advance(dt, s.touching())
	s.advanceProgress(dt)
	s.cfg = s.blend()
	s.lastFactor = s.quality.Update(deltaMs)
	s.energy.decay(s.ripplePol)

	if err := s.syncSize(); err != nil {
		slogger().Debug("ihero: frame skipped", "err", err)
		s.exportVars()
		return
	}
	if err := s.renderer.Render(s.frame()); err != nil {
		s.renderFailed(err)
		return
	}
	s.failures = 0
	s.exportVars()
}

func (s *Stage) idle() bool {
	return s.status.Fallback() || s.lost || !s.visible || !s.intersecting
}

func (s *Stage) touching() bool { return s.touches > 0 || s.pinching }

// advanceClock returns the clamped tick delta in seconds and the raw frame
// delta in milliseconds. The first tick has no delta.
func (s *Stage) advanceClock(now time.Duration) (dt, deltaMs float64) {
	if !s.started {
		s.started = true
		s.start = now
		s.last = now
		return minTickDt, 0
	}
	raw := now - s.last
	s.last = now
	s.elapsed = (now - s.start).Seconds()
	return clampDt(raw.Seconds()), float64(raw) / float64(time.Millisecond)
}

func (s *Stage) advanceProgress(dt float64) {
	if s.external {
		s.progress = damp(s.progress, s.target, galleryLambda, dt)
		if math.Abs(s.progress-s.target) < 1e-4 {
			s.progress = s.target
		}
		return
	}
	g := s.root.Geometry()
	vh, err := s.viewport.stable(g)
	if err != nil {
		return
	}
	if p, err := scrollProgress(g, vh); err == nil {
		s.progress = p
	}
}

// frame assembles the renderer input for the current state.
func (s *Stage) frame() *render.Frame {
	branches := quality.BranchesFor(s.lastFactor)
	if !s.depth {
		branches.DepthBias = false
	}
	s.rippleBuf = s.ripples.live(s.rippleBuf[:0], s.elapsed, s.ripplePol.Wave.Lifetime)
	return &render.Frame{
		Time:         s.elapsed,
		Width:        s.width,
		Height:       s.height,
		PixelRatio:   s.pixelRatio(),
		Quality:      s.lastFactor,
		Progress:     s.progress,
		Chapter:      s.cfg,
		Pointer:      s.input.Pointer,
		Pinch:        s.input.Pinch,
		EnergySoft:   s.energy.soft,
		EnergyBurst:  s.energy.burst,
		Ripples:      s.rippleBuf,
		RippleParams: s.ripplePol.Wave,
		Composite:    s.composite && s.quality.Composite(),
		Branches:     branches,
	}
}

// pixelRatio is the render pixel ratio snapped to the quality policy's
// RatioStep, so the targets are reallocated only when it crosses a step.
func (s *Stage) pixelRatio() float64 {
	r := quality.PixelRatio(s.snap.DevicePixelRatio, s.snap.MaxDPR, s.lastFactor)
	return quality.Snap(r, s.quality.Policy().RatioStep)
}

// blend resolves the chapter configuration at the current progress. Hero
// mode spreads the chapters over equal bands; gallery mode puts chapter i
// exactly at scene i.
func (s *Stage) blend() chapter.Config {
	if s.gallery != nil {
		return chapter.BlendScenes(s.chapters, s.progress)
	}
	return chapter.Blend(s.chapters, s.progress)
}

// Resize re-reads the canvas size and reallocates the render targets.
func (s *Stage) Resize() error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	s.width, s.height = 0, 0
	return s.syncSize()
}

// SyncSize applies the current canvas size and quality factor to the
// drawing buffer and render targets. It does nothing when neither changed.
func (s *Stage) SyncSize() error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	return s.syncSize()
}

func (s *Stage) syncSize() error {
	cw, ch := s.canvas.Size()
	if cw <= 0 || ch <= 0 {
		return fmt.Errorf("%w: canvas is %dx%d", ErrTransientInput, cw, ch)
	}
	w, h := quality.TargetSize(cw, ch, s.pixelRatio())
	if w == s.width && h == s.height {
		return nil
	}
	if err := s.renderer.Resize(w, h); err != nil {
		return err
	}
	s.canvas.SetDrawingBufferSize(w, h)
	s.width, s.height = w, h
	slogger().Debug("ihero: resized", "root", s.root.ID(), "css", [2]int{cw, ch}, "target", [2]int{w, h})
	return nil
}

// exportVars writes the derived values to the root. Unchanged values are
// not rewritten.
func (s *Stage) exportVars() {
	s.vars.set(VarScroll, s.progress)
	s.vars.set(VarEnergySoft, s.energy.soft)
	s.vars.set(VarEnergyBurst, s.energy.burst)
	s.vars.set(VarHue, s.cfg.PaletteHueA)
	s.vars.set(VarPinch, s.input.Pinch)
	s.vars.set(VarQuality, s.lastFactor)
	s.vars.dataset(keyChapter, s.cfg.ID)
	s.vars.dataset(keyQuality, qualityTier(s.lastFactor, s.quality.Policy().CompositeThreshold))
}

// SetProgress sets the externally driven progress target, clamped to
// [0,1]. The stage damps toward it. NaN is ignored.
func (s *Stage) SetProgress(p float64) {
	if s.destroyed || math.IsNaN(p) {
		return
	}
	s.external = true
	s.target = clamp01(p)
}

// jumpProgress sets the progress without damping, for the initial scene.
func (s *Stage) jumpProgress(p float64) {
	s.SetProgress(p)
	s.progress = s.target
	s.cfg = s.blend()
}

// Progress returns the externally set target when progress is driven
// externally, and the scroll progress otherwise.
func (s *Stage) Progress() float64 {
	if s.external {
		return s.target
	}
	return s.progress
}

// Status returns the current stage status.
func (s *Stage) Status() StageStatus { return s.status }

// Input returns a copy of the fused input state.
func (s *Stage) Input() InputState { return s.input }

// Quality returns the adaptive quality state.
func (s *Stage) Quality() quality.State { return s.quality.State() }

// Chapter returns the chapter configuration of the last tick.
func (s *Stage) Chapter() chapter.Config { return s.cfg }

// Gallery returns the discrete navigator, or nil outside gallery mode.
func (s *Stage) Gallery() *Gallery { return s.gallery }

// Debug reports whether the root asked for diagnostics through ihDebug.
func (s *Stage) Debug() bool { return s.debug }

// Renderer returns the renderer the stage owns.
func (s *Stage) Renderer() render.Renderer { return s.renderer }

// Destroyed reports whether Destroy has run.
func (s *Stage) Destroyed() bool { return s.destroyed }

// SetVisible gates rendering on page visibility.
func (s *Stage) SetVisible(v bool) { s.visible = v }

// SetIntersecting gates rendering on the root being on screen.
func (s *Stage) SetIntersecting(v bool) { s.intersecting = v }

func (s *Stage) setStatus(st StageStatus) {
	s.status = st
	st.write(s.root)
}

// Destroy stops the frame loop and releases the renderer. It is
// idempotent and never panics.
func (s *Stage) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.frameID != 0 {
		s.sched.CancelFrame(s.frameID)
		s.frameID = 0
	}
	safeRelease("renderer", s.renderer.Destroy)
	slogger().Debug("ihero: stage destroyed", "root", s.root.ID(), "status", s.status.String())
}
