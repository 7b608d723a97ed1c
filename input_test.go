package ihero

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/ihero/host"
	"github.com/gogpu/ihero/render"
)

func TestDamp(t *testing.T) {
	if got := damp(0, 1, 6, 0); got != 0 {
		t.Errorf("damp(dt=0) = %v, want 0", got)
	}
	// Two half steps equal one full step.
	half := damp(damp(0, 1, 6, 0.01), 1, 6, 0.01)
	full := damp(0, 1, 6, 0.02)
	if math.Abs(half-full) > 1e-12 {
		t.Errorf("damp is frame-rate dependent: %v vs %v", half, full)
	}
}

func TestClampDt(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, minTickDt},
		{-1, minTickDt},
		{1.0 / 60, 1.0 / 60},
		{2, maxTickDt},
		{math.NaN(), minTickDt},
	}
	for _, tt := range tests {
		if got := clampDt(tt.in); got != tt.want {
			t.Errorf("clampDt(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPointerUV(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		w, h    int
		want    [2]float64
		wantErr bool
	}{
		{"center", 200, 150, 400, 300, [2]float64{0.5, 0.5}, false},
		{"clamped", -10, 900, 400, 300, [2]float64{0, 1}, false},
		{"zero canvas", 1, 1, 0, 300, [2]float64{}, true},
		{"nan", math.NaN(), 1, 400, 300, [2]float64{}, true},
		{"inf", 1, math.Inf(-1), 400, 300, [2]float64{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pointerUV(tt.x, tt.y, tt.w, tt.h)
			if tt.wantErr {
				if !errors.Is(err, ErrTransientInput) {
					t.Errorf("pointerUV() error = %v, want ErrTransientInput", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("pointerUV() = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestPinchStepClamps(t *testing.T) {
	got, err := pinchStep(0.9, 2)
	if err != nil || got != 1 {
		t.Errorf("pinchStep(0.9, 2) = %v, %v, want 1", got, err)
	}
	got, err = pinchStep(-0.9, 0.2)
	if err != nil || got != -1 {
		t.Errorf("pinchStep(-0.9, 0.2) = %v, %v, want -1", got, err)
	}
	if _, err := pinchStep(0, -1); !errors.Is(err, ErrTransientInput) {
		t.Errorf("pinchStep(0, -1) error = %v, want ErrTransientInput", err)
	}
}

func TestEnergyBounded(t *testing.T) {
	p := DefaultRipplePolicy()
	var e energy
	for range 10 {
		e.add(p.TapSoft, p.TapBurst)
	}
	if e.soft != 1 || e.burst != 1 {
		t.Errorf("energy = %+v, want both capped at 1", e)
	}
	e.add(-5, -5)
	if e.soft != 1 || e.burst != 1 {
		t.Errorf("negative impulse changed energy to %+v", e)
	}
	e.decay(p)
	if e.soft != p.SoftDecay || e.burst != p.BurstDecay {
		t.Errorf("decay = %+v, want (%v, %v)", e, p.SoftDecay, p.BurstDecay)
	}
}

func TestRippleRing(t *testing.T) {
	var r rippleRing
	for i := range 5 {
		r.push([2]float64{float64(i), 0}, float64(i), 1)
	}
	got := r.live(nil, 4, 10)
	if len(got) != render.MaxRipples {
		t.Fatalf("len(live) = %d, want %d", len(got), render.MaxRipples)
	}
	for i, rp := range got {
		want := float64(5 - render.MaxRipples + i)
		if rp.UV[0] != want {
			t.Errorf("live[%d].UV[0] = %v, want %v", i, rp.UV[0], want)
		}
		if rp.Age != 4-want {
			t.Errorf("live[%d].Age = %v, want %v", i, rp.Age, 4-want)
		}
	}

	// Expired ripples are dropped.
	if got := r.live(nil, 4, 0.5); len(got) != 1 {
		t.Errorf("len(live) with short lifetime = %d, want 1", len(got))
	}
}

func TestViewportStabilizer(t *testing.T) {
	g := func(w, vh, visual float64) host.Geometry {
		return host.Geometry{ViewportWidth: w, ViewportHeight: vh, VisualHeight: visual}
	}
	tests := []struct {
		name   string
		coarse bool
		seq    []host.Geometry
		want   []float64
	}{
		{"fine follows", false, []host.Geometry{g(400, 800, 0), g(400, 700, 0)}, []float64{800, 700}},
		{"visual preferred", false, []host.Geometry{g(400, 800, 760)}, []float64{760}},
		{"coarse grows only", true, []host.Geometry{g(400, 700, 0), g(400, 760, 0), g(400, 700, 0)}, []float64{700, 760, 760}},
		{"rotation resets", true, []host.Geometry{g(400, 800, 0), g(800, 400, 0)}, []float64{800, 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viewportStabilizer{coarse: tt.coarse}
			for i, geo := range tt.seq {
				got, err := v.stable(geo)
				if err != nil || got != tt.want[i] {
					t.Errorf("stable(#%d) = %v, %v, want %v", i, got, err, tt.want[i])
				}
			}
		})
	}

	v := viewportStabilizer{}
	if _, err := v.stable(g(400, 0, 0)); !errors.Is(err, ErrTransientInput) {
		t.Errorf("stable(zero height) error = %v, want ErrTransientInput", err)
	}
}

func TestScrollProgress(t *testing.T) {
	tests := []struct {
		name string
		geo  host.Geometry
		want float64
	}{
		{"top", host.Geometry{ScrollY: 0, RootHeight: 3000}, 0},
		{"middle", host.Geometry{ScrollY: 1100, RootHeight: 3000}, 0.5},
		{"offset root", host.Geometry{ScrollY: 1600, RootTop: 500, RootHeight: 3000}, 0.5},
		{"past end", host.Geometry{ScrollY: 9000, RootHeight: 3000}, 1},
		{"before start", host.Geometry{ScrollY: 100, RootTop: 500, RootHeight: 3000}, 0},
		{"short root", host.Geometry{ScrollY: 100, RootHeight: 600}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scrollProgress(tt.geo, 800)
			if err != nil || got != tt.want {
				t.Errorf("scrollProgress() = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestVarWriterSkipsUnchanged(t *testing.T) {
	root := &countingRoot{MemoryRoot: host.NewMemoryRoot()}
	w := newVarWriter(root)
	if !w.set(VarScroll, 0.12341) {
		t.Error("first set() reported no change")
	}
	if w.set(VarScroll, 0.12344) {
		t.Error("set() below display precision reported a change")
	}
	if root.propWrites != 1 {
		t.Errorf("property writes = %d, want 1", root.propWrites)
	}
	if v, _ := root.Property(VarScroll); v != "0.1234" {
		t.Errorf("%s = %q, want 0.1234", VarScroll, v)
	}
}
