package render

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/ihero/chapter"
)

func testFrame(w, h int) *Frame {
	return &Frame{
		Width: w, Height: h,
		Quality:      1,
		Chapter:      chapter.Hero()[0],
		Pointer:      [2]float64{0.5, 0.5},
		RippleParams: DefaultRippleParams(),
	}
}

func TestSoftwareRendererRender(t *testing.T) {
	r := NewSoftwareRenderer()
	defer r.Destroy()

	if r.Image() != nil {
		t.Fatal("Image() before first frame should be nil")
	}
	f := testFrame(32, 16)
	if err := r.Render(f); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	img := r.Image()
	if img == nil || img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Fatalf("Image() bounds = %v, want 32x16", img.Bounds())
	}
	if img.RGBAAt(0, 0).A != 0xff {
		t.Error("pixel alpha should be opaque")
	}
	if r.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", r.Frames())
	}
}

func TestSoftwareRendererResizeNoop(t *testing.T) {
	r := NewSoftwareRenderer()
	if err := r.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	first := r.Image()
	if err := r.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	if r.Image() != first {
		t.Error("Resize to same size reallocated the pixmap")
	}
	if err := r.Resize(0, 10); err == nil {
		t.Error("Resize(0, 10) error = nil")
	}
}

func TestSoftwareRendererDestroyIdempotent(t *testing.T) {
	r := NewSoftwareRenderer()
	r.Destroy()
	r.Destroy()
	if err := r.Render(testFrame(4, 4)); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Render after Destroy error = %v, want ErrRendererClosed", err)
	}
}

func TestCompositeChangesOutput(t *testing.T) {
	f := testFrame(8, 8)
	f.Pointer = [2]float64{0.4, 0.4}
	f.EnergySoft = 1
	r0, g0, b0 := Shade(f, 0.45, 0.42)
	f.Composite = true
	r1, g1, b1 := Shade(f, 0.45, 0.42)
	if r0 == r1 && g0 == g1 && b0 == b1 {
		t.Error("composite refraction did not displace the sample")
	}
}

func TestRippleHeight(t *testing.T) {
	p := DefaultRippleParams()
	if got := RippleHeight([2]float64{0.5, 0.5}, nil, p); got != 0 {
		t.Errorf("RippleHeight(no ripples) = %v, want 0", got)
	}
	expired := []Ripple{{UV: [2]float64{0.5, 0.5}, Age: p.Lifetime + 1, Amplitude: 1}}
	if got := RippleHeight([2]float64{0.5, 0.5}, expired, p); got != 0 {
		t.Errorf("RippleHeight(expired) = %v, want 0", got)
	}
	fresh := []Ripple{{UV: [2]float64{0.5, 0.5}, Age: 0.1, Amplitude: 1}}
	near := math.Abs(RippleHeight([2]float64{0.52, 0.5}, fresh, p))
	if near == 0 || near > 1 {
		t.Errorf("RippleHeight(fresh) = %v, want in (0, 1]", near)
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		r, g, b float64
	}{
		{0, 1, 0.5, 1, 0, 0},
		{120, 1, 0.5, 0, 1, 0},
		{240, 1, 0.5, 0, 0, 1},
		{360, 1, 0.5, 1, 0, 0},
		{-120, 1, 0.5, 0, 0, 1},
		{90, 0, 0.3, 0.3, 0.3, 0.3},
	}
	for _, tt := range tests {
		r, g, b := HSL(tt.h, tt.s, tt.l)
		if math.Abs(r-tt.r) > 1e-9 || math.Abs(g-tt.g) > 1e-9 || math.Abs(b-tt.b) > 1e-9 {
			t.Errorf("HSL(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)", tt.h, tt.s, tt.l, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
