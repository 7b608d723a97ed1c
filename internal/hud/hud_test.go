package hud

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestInfoLines(t *testing.T) {
	tests := []struct {
		name  string
		info  Info
		count int
		want  string
	}{
		{"no adapter", Info{Status: "webgl/ok", Chapter: "shield", Progress: 0.5}, 4, "chapter  shield  p=0.500"},
		{"adapter", Info{Status: "webgl/ok", Adapter: "Noop Adapter"}, 5, "adapter  Noop Adapter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := tt.info.Lines()
			if len(lines) != tt.count {
				t.Errorf("len(Lines()) = %d, want %d", len(lines), tt.count)
			}
			if !strings.Contains(strings.Join(lines, "\n"), tt.want) {
				t.Errorf("Lines() = %q, want a line %q", lines, tt.want)
			}
		})
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New(0) succeeded, want error")
	}
}

func TestOverlayDraw(t *testing.T) {
	o, err := New(DefaultSize)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer o.Close()

	lines := Info{Status: "css/context-lost", Chapter: "cloud"}.Lines()
	b := o.Bounds(lines)
	if b.Dx() <= 0 || b.Dy() < len(lines)*DefaultSize {
		t.Fatalf("Bounds() = %v, too small for %d lines", b, len(lines))
	}

	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))
	o.Draw(dst, lines)

	// The panel darkens the corner; the text adds bright pixels inside it.
	if got := dst.RGBAAt(1, 1); got.A == 0 {
		t.Errorf("panel pixel = %v, want painted", got)
	}
	bright := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if dst.RGBAAt(x, y).R > 0x80 {
				bright++
			}
		}
	}
	if bright == 0 {
		t.Error("no glyph pixels drawn")
	}
	if got := dst.RGBAAt(399, 199); got != (color.RGBA{}) {
		t.Errorf("pixel outside panel = %v, want untouched", got)
	}
}
