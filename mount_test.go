package ihero

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/internal/loop"
	"github.com/gogpu/ihero/render"
)

type mountFixture struct {
	doc       *host.Memory
	root      *host.MemoryRoot
	m         *loop.Manual
	mgr       *Manager
	renderers []*countingRenderer
	mounted   []*Controller
}

func newMountFixture(t *testing.T, url string) *mountFixture {
	t.Helper()
	f := &mountFixture{doc: host.NewMemory(url), m: loop.NewManual(), mgr: NewManager()}
	f.root, _ = newTestRoot()
	f.doc.Add(RootSelector, f.root)
	t.Cleanup(f.mgr.Teardown)
	return f
}

func (f *mountFixture) factory(env caps.Env) Factory {
	newRenderer := func(host.Canvas, caps.Snapshot) (render.Renderer, error) {
		r := &countingRenderer{}
		f.renderers = append(f.renderers, r)
		return r, nil
	}
	onMount := func(c *Controller) { f.mounted = append(f.mounted, c) }
	return NewFactory(f.doc, env, f.m, onMount, WithRendererFactory(newRenderer))
}

func (f *mountFixture) mount(t *testing.T) Handle {
	t.Helper()
	h, err := f.mgr.Mount(f.doc, RootSelector, f.factory(gpuEnv()))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return h
}

func TestMountTwiceKeepsOneController(t *testing.T) {
	f := newMountFixture(t, "https://example.com/")
	h1 := f.mount(t)
	h2 := f.mount(t)

	if !h1.Live() || h1 != h2 {
		t.Errorf("second Mount() = %+v, want the live handle %+v", h2, h1)
	}
	if got := f.mgr.Live(); got != 1 {
		t.Errorf("Live() = %d, want 1", got)
	}
	if got := len(f.renderers); got != 1 {
		t.Errorf("renderers created = %d, want 1", got)
	}
	if got := f.root.ListenerCount(""); got != 8 {
		t.Errorf("ListenerCount() = %d, want 8", got)
	}
}

func TestMountRootChangeUnmountsOld(t *testing.T) {
	var unmounted []string
	f := newMountFixture(t, "https://example.com/a")
	f.mgr = NewManager(WithUnmountHook(func(id string) { unmounted = append(unmounted, id) }))
	t.Cleanup(f.mgr.Teardown)
	old := f.mount(t)

	next, _ := newTestRoot()
	f.doc.Add(RootSelector, next)
	f.doc.Navigate("https://example.com/b")
	h := f.mount(t)

	if old.Live() {
		t.Error("old handle still live after root change")
	}
	if !h.Live() || h.RootID() != next.ID() {
		t.Errorf("Mount() = %+v, want live handle for %s", h, next.ID())
	}
	if len(unmounted) != 1 || unmounted[0] != f.root.ID() {
		t.Errorf("unmounted = %v, want [%s]", unmounted, f.root.ID())
	}
	if got := f.root.ListenerCount(""); got != 0 {
		t.Errorf("old root listeners = %d, want 0", got)
	}
	if f.renderers[0].destroys != 1 {
		t.Errorf("old renderer destroys = %d, want 1", f.renderers[0].destroys)
	}
	if f.mgr.Live() != 1 {
		t.Errorf("Live() = %d, want 1", f.mgr.Live())
	}
}

func TestMountMissingRoot(t *testing.T) {
	f := newMountFixture(t, "https://example.com/")
	h := f.mount(t)

	f.doc.Remove(RootSelector)
	empty := f.mount(t)
	if empty != (Handle{}) {
		t.Errorf("Mount() without root = %+v, want zero Handle", empty)
	}
	if h.Live() || f.mgr.Live() != 0 {
		t.Errorf("previous mount live = %t, Live() = %d; want unmounted", h.Live(), f.mgr.Live())
	}
	empty.Destroy()
}

func TestMountRootWithoutCanvas(t *testing.T) {
	f := newMountFixture(t, "https://example.com/")
	bare := host.NewMemoryRoot()
	f.doc.Add(RootSelector, bare)
	h := f.mount(t)
	if h.Live() || f.mgr.Live() != 0 {
		t.Errorf("Mount() on a root without canvas = %+v, want nothing mounted", h)
	}
	if _, ok := bare.Dataset(keyStatus); ok {
		t.Error("status written on a root without canvas")
	}
}

func TestMountFactoryFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		factory Factory
		wantErr bool
	}{
		{"error", func(host.Root) (Disposer, error) { return nil, boom }, true},
		{"panic", func(host.Root) (Disposer, error) { panic("factory exploded") }, true},
		{"nothing to mount", func(host.Root) (Disposer, error) { return nil, nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMountFixture(t, "")
			h, err := f.mgr.Mount(f.doc, RootSelector, tt.factory)
			if (err != nil) != tt.wantErr {
				t.Errorf("Mount() error = %v, wantErr %t", err, tt.wantErr)
			}
			if h != (Handle{}) || f.mgr.Live() != 0 {
				t.Errorf("Mount() = %+v with Live() = %d, want nothing mounted", h, f.mgr.Live())
			}
		})
	}
}

func TestHandleDestroyIdempotent(t *testing.T) {
	f := newMountFixture(t, "")
	calls := 0
	h, err := f.mgr.Mount(f.doc, RootSelector, func(host.Root) (Disposer, error) {
		return func() { calls++ }, nil
	})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	h.Destroy()
	h.Destroy()
	f.mgr.Teardown()
	if calls != 1 {
		t.Errorf("disposer ran %d times, want 1", calls)
	}
	if h.Live() {
		t.Error("Live() = true after Destroy")
	}
}

func TestStaleHandleDoesNotUnmountRemount(t *testing.T) {
	f := newMountFixture(t, "")
	old := f.mount(t)
	old.Destroy()
	fresh := f.mount(t)
	old.Destroy()
	if !fresh.Live() {
		t.Error("stale handle unmounted the remounted controller")
	}
}

func TestTeardownDisposesEverything(t *testing.T) {
	f := newMountFixture(t, "")
	f.mount(t)
	f.m.Step(frameStep)
	f.mgr.Teardown()

	if f.mgr.Live() != 0 {
		t.Errorf("Live() = %d after Teardown, want 0", f.mgr.Live())
	}
	if f.renderers[0].destroys != 1 {
		t.Errorf("renderer destroys = %d, want 1", f.renderers[0].destroys)
	}
	if n := f.m.Pending(); n != 0 {
		t.Errorf("Pending() = %d after Teardown, want 0", n)
	}
}

func TestFactoryWithoutGPU(t *testing.T) {
	f := newMountFixture(t, "")
	h, err := f.mgr.Mount(f.doc, RootSelector, f.factory(caps.StaticEnv{DPR: 1}))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if h.Live() {
		t.Error("mounted without a GPU")
	}
	if v, _ := f.root.Dataset(keyCenter); v != "css" {
		t.Errorf("dataset center = %q, want css", v)
	}
	if v, _ := f.root.Dataset(keyStatus); v != "webgl-unavailable" {
		t.Errorf("dataset status = %q, want webgl-unavailable", v)
	}
	if len(f.renderers) != 0 {
		t.Errorf("renderers created = %d, want 0", len(f.renderers))
	}
}

func TestFactoryInitFailure(t *testing.T) {
	f := newMountFixture(t, "")
	failing := func(host.Canvas, caps.Snapshot) (render.Renderer, error) {
		return nil, errors.New("no shader compiler")
	}
	factory := NewFactory(f.doc, gpuEnv(), f.m, nil, WithRendererFactory(failing))
	h, err := f.mgr.Mount(f.doc, RootSelector, factory)

	var ie *InitError
	if !errors.As(err, &ie) || ie.Op != "renderer" {
		t.Errorf("Mount() error = %v, want renderer InitError", err)
	}
	if h.Live() {
		t.Error("mounted after init failure")
	}
	if v, _ := f.root.Dataset(keyStatus); v != "init-failed" {
		t.Errorf("dataset status = %q, want init-failed", v)
	}
	if got := f.root.ListenerCount(""); got != 0 {
		t.Errorf("ListenerCount() = %d after init failure, want 0", got)
	}
}

func TestControllerContextLostEvent(t *testing.T) {
	f := newMountFixture(t, "")
	f.mount(t)
	f.m.Step(frameStep)

	f.root.Dispatch(host.Event{Kind: host.EventContextLost})
	if v, _ := f.root.Dataset(keyStatus); v != "context-lost" {
		t.Errorf("dataset status = %q, want context-lost", v)
	}
	s := f.mounted[0].Stage()
	if !s.Destroyed() {
		t.Error("stage not destroyed after the context-loss microtask")
	}
	renders := f.renderers[0].renders
	f.m.Step(frameStep)
	if f.renderers[0].renders != renders {
		t.Error("stage rendered after context loss")
	}
}

func TestControllerRoutesEvents(t *testing.T) {
	f := newMountFixture(t, "")
	f.mount(t)
	s := f.mounted[0].Stage()

	f.root.Dispatch(host.Event{Kind: host.EventVisibility, Visible: false})
	f.m.Step(frameStep)
	if f.renderers[0].renders != 0 {
		t.Errorf("renders = %d while hidden, want 0", f.renderers[0].renders)
	}
	f.root.Dispatch(host.Event{Kind: host.EventVisibility, Visible: true})

	f.root.Dispatch(host.Event{Kind: host.EventScroll})
	f.root.SetGeometry(host.Geometry{ScrollY: 2200, RootHeight: 3000, ViewportHeight: 800, ViewportWidth: 400})
	f.m.Step(frameStep)
	if got := s.Progress(); got != 1 {
		t.Errorf("Progress() = %v, want 1", got)
	}

	f.root.Dispatch(host.Event{Kind: host.EventResize})
	if w, h := f.renderers[0].width, f.renderers[0].height; w != 800 || h != 600 {
		t.Errorf("renderer size after resize = %dx%d, want 800x600", w, h)
	}
	if f.renderers[0].resizes != 2 {
		t.Errorf("resizes = %d, want 2", f.renderers[0].resizes)
	}
}

func TestFactoryDebugAndScene(t *testing.T) {
	f := newMountFixture(t, "https://example.com/cars?ihDebug=1&scene=2")
	f.root.SetDataset(keyMode, "gallery")
	f.mount(t)

	if v, _ := f.root.Dataset(keyDebug); v != "1" {
		t.Errorf("dataset ihDebug = %q, want 1", v)
	}
	s := f.mounted[0].Stage()
	if !s.Debug() {
		t.Error("Debug() = false with ihDebug=1")
	}
	g := s.Gallery()
	if g == nil {
		t.Fatal("Gallery() = nil with ihMode=gallery")
	}
	if got := g.Index(); got != 2 {
		t.Errorf("Index() = %d, want 2", got)
	}
	// The initial scene is shown without a transition.
	if got, want := s.Chapter().ID, "night"; got != want {
		t.Errorf("Chapter().ID = %q, want %q", got, want)
	}
}

func TestFactoryDebugDefaultsOff(t *testing.T) {
	f := newMountFixture(t, "https://example.com/")
	f.mount(t)
	if f.mounted[0].Stage().Debug() {
		t.Error("Debug() = true without ihDebug")
	}
}

func TestMountPanicDisposesStage(t *testing.T) {
	f := newMountFixture(t, "https://example.com/")
	newRenderer := func(host.Canvas, caps.Snapshot) (render.Renderer, error) {
		r := &countingRenderer{}
		f.renderers = append(f.renderers, r)
		return r, nil
	}
	onMount := func(*Controller) { panic("onMount failed") }
	factory := NewFactory(f.doc, gpuEnv(), f.m, onMount, WithRendererFactory(newRenderer))

	h, err := f.mgr.Mount(f.doc, RootSelector, factory)
	if err == nil {
		t.Fatal("Mount() error = nil, want the panic as an error")
	}
	if h.Live() || f.mgr.Live() != 0 {
		t.Errorf("Live() = %d after a panicking mount, want 0", f.mgr.Live())
	}
	if got := f.root.ListenerCount(""); got != 0 {
		t.Errorf("ListenerCount() = %d, want 0", got)
	}
	if len(f.renderers) != 1 || f.renderers[0].destroys != 1 {
		t.Fatalf("renderer destroys = %v, want one renderer destroyed once", f.renderers)
	}
	if got := f.m.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want no frame left scheduled", got)
	}
	if got, _ := f.root.Dataset(keyStatus); got != string(StatusInitFailed) {
		t.Errorf("dataset status = %q, want %q", got, StatusInitFailed)
	}
	if got, _ := f.root.Dataset(keyDetail); !strings.Contains(got, "onMount failed") {
		t.Errorf("dataset detail = %q, want the panic value", got)
	}

	renders := f.renderers[0].renders
	f.m.Step(frameStep)
	if f.renderers[0].renders != renders {
		t.Error("stage rendered after the panicking mount")
	}
}

// pacedRenderer is a goroutine-safe renderer with slow frames. It counts
// frames rendered after Destroy and a Destroy that lands mid-frame.
type pacedRenderer struct {
	inRender  atomic.Bool
	destroyed atomic.Bool
	renders   atomic.Int32
	overlaps  atomic.Int32
}

func (r *pacedRenderer) Resize(int, int) error { return nil }

func (r *pacedRenderer) Render(*render.Frame) error {
	if r.destroyed.Load() {
		r.overlaps.Add(1)
	}
	r.inRender.Store(true)
	time.Sleep(2 * time.Millisecond)
	r.renders.Add(1)
	r.inRender.Store(false)
	return nil
}

func (r *pacedRenderer) Destroy() {
	if r.inRender.Load() {
		r.overlaps.Add(1)
	}
	r.destroyed.Store(true)
}

func TestDestroyOnRunningLoop(t *testing.T) {
	l := NewLoop(time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	doc := host.NewMemory("https://example.com/")
	root, _ := newTestRoot()
	doc.Add(RootSelector, root)
	mgr := NewManager()

	for round := range 5 {
		r := &pacedRenderer{}
		factory := NewFactory(doc, gpuEnv(), l, nil, WithRendererFactory(func(host.Canvas, caps.Snapshot) (render.Renderer, error) {
			return r, nil
		}))
		h, err := mgr.Mount(doc, RootSelector, factory)
		if err != nil {
			t.Fatalf("round %d: Mount() error = %v", round, err)
		}
		for r.renders.Load() < 3 {
			if ctx.Err() != nil {
				t.Fatalf("round %d: stage did not render", round)
			}
			time.Sleep(time.Millisecond)
		}

		h.Destroy()
		if !r.destroyed.Load() {
			t.Fatalf("round %d: renderer not destroyed", round)
		}
		after := r.renders.Load()
		time.Sleep(10 * time.Millisecond)
		if got := r.renders.Load(); got != after {
			t.Errorf("round %d: %d frames rendered after Destroy", round, got-after)
		}
		if got := r.overlaps.Load(); got != 0 {
			t.Errorf("round %d: Destroy overlapped a frame %d times", round, got)
		}
	}

	mgr.Teardown()
	cancel()
	<-errc
}
