package ihero

import (
	"testing"
	"time"

	"github.com/gogpu/ihero/caps"
	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/internal/loop"
	"github.com/gogpu/ihero/render"
)

const frameStep = 16 * time.Millisecond

// countingRenderer records every call the stage makes.
type countingRenderer struct {
	resizes  int
	renders  int
	destroys int
	width    int
	height   int
	last     render.Frame
	err      error
	panicMsg string
}

func (r *countingRenderer) Resize(w, h int) error {
	r.resizes++
	r.width, r.height = w, h
	return nil
}

func (r *countingRenderer) Render(f *render.Frame) error {
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	r.renders++
	r.last = *f
	r.last.Ripples = append([]render.Ripple(nil), f.Ripples...)
	return r.err
}

func (r *countingRenderer) Destroy() { r.destroys++ }

func (r *countingRenderer) Capabilities() render.Capabilities {
	return render.Capabilities{Name: "counting", IsGPU: true, DepthTexture: true}
}

// countingRoot counts property writes on top of a MemoryRoot.
type countingRoot struct {
	*host.MemoryRoot
	propWrites int
}

func (r *countingRoot) SetProperty(name, value string) {
	r.propWrites++
	r.MemoryRoot.SetProperty(name, value)
}

func gpuSnapshot() caps.Snapshot {
	return caps.Snapshot{
		DevicePixelRatio:   2,
		MaxDPR:             2,
		WebGL:              true,
		WebGL2:             true,
		MaxShaderPrecision: caps.PrecisionHigh,
	}
}

func gpuEnv() caps.StaticEnv {
	return caps.StaticEnv{
		DPR:  2,
		Info: caps.GPUInfo{Available: true, DepthTexture: true, Precision: caps.PrecisionHigh},
	}
}

func newTestRoot() (*host.MemoryRoot, *host.MemoryCanvas) {
	root := host.NewMemoryRoot()
	canvas := host.NewMemoryCanvas(400, 300)
	root.AddCanvas(CanvasSelector, canvas)
	root.SetGeometry(host.Geometry{RootHeight: 3000, ViewportHeight: 800, ViewportWidth: 400})
	return root, canvas
}

type testStage struct {
	*Stage
	r      *countingRenderer
	m      *loop.Manual
	root   *host.MemoryRoot
	canvas *host.MemoryCanvas
}

func newTestStage(t *testing.T, opts ...StageOption) testStage {
	t.Helper()
	root, canvas := newTestRoot()
	m := loop.NewManual()
	r := &countingRenderer{}
	all := append([]StageOption{WithScheduler(m), WithRenderer(r)}, opts...)
	s, err := NewStage(root, canvas, gpuSnapshot(), all...)
	if err != nil {
		t.Fatalf("NewStage() error = %v", err)
	}
	t.Cleanup(s.Destroy)
	return testStage{Stage: s, r: r, m: m, root: root, canvas: canvas}
}

// steps runs n frames.
func (ts testStage) steps(n int) {
	for range n {
		ts.m.Step(frameStep)
	}
}
