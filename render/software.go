// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/ihero/internal/parallel"
)

// ErrRendererClosed is returned by Render after Destroy.
var ErrRendererClosed = errors.New("render: renderer destroyed")

// SoftwareRenderer is a CPU rendition of the hero scene.
//
// It evaluates the same procedural field and portal refraction as the GPU
// shaders per pixel into an *image.RGBA, shading row bands in parallel. It
// is meant for previews, snapshots and tests, not for the live frame loop.
//
// Example:
//
//	r := render.NewSoftwareRenderer()
//	defer r.Destroy()
//	_ = r.Render(frame)
//	png.Encode(w, r.Image())
type SoftwareRenderer struct {
	img    *image.RGBA
	pool   *parallel.Pool
	closed bool
	frames int
}

// rowBands is the number of bands per worker a frame is split into.
const rowBands = 4

// NewSoftwareRenderer creates a CPU renderer. The pixmap is allocated on
// the first Resize or Render.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Resize reallocates the pixmap. Resizing to the current size is a no-op.
func (r *SoftwareRenderer) Resize(width, height int) error {
	if r.closed {
		return ErrRendererClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render: invalid size %dx%d", width, height)
	}
	if r.img != nil && r.img.Bounds().Dx() == width && r.img.Bounds().Dy() == height {
		return nil
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Render draws f into the pixmap, resizing first if the frame size changed.
func (r *SoftwareRenderer) Render(f *Frame) error {
	if r.closed {
		return ErrRendererClosed
	}
	if f == nil {
		return errors.New("render: nil frame")
	}
	if err := r.Resize(f.Width, f.Height); err != nil {
		return err
	}

	if r.pool == nil {
		r.pool = parallel.NewPool(0)
	}
	w, h := f.Width, f.Height
	r.pool.Rows(h, r.pool.Workers()*rowBands, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / float64(h)
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				cr, cg, cb := Shade(f, u, v)
				r.img.SetRGBA(x, y, color.RGBA{R: to8(cr), G: to8(cg), B: to8(cb), A: 0xff})
			}
		}
	})
	r.frames++
	return nil
}

// Image returns the last rendered pixmap, or nil before the first frame.
func (r *SoftwareRenderer) Image() *image.RGBA { return r.img }

// Frames returns the number of frames rendered.
func (r *SoftwareRenderer) Frames() int { return r.frames }

// Destroy drops the pixmap and stops the shading workers. It is idempotent.
func (r *SoftwareRenderer) Destroy() {
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	r.img = nil
	r.closed = true
}

// Capabilities reports a CPU renderer with depth emulation.
func (r *SoftwareRenderer) Capabilities() Capabilities {
	return Capabilities{Name: "software", DepthTexture: true}
}

// Shade evaluates the final color at uv for frame f. With Composite set the
// scene is sampled through the portal refraction field; otherwise directly.
func Shade(f *Frame, u, v float64) (r, g, b float64) {
	su, sv := u, v
	depth := sceneDepth(f, u, v)
	if f.Composite {
		du, dv := refraction(f, u, v, depth)
		su, sv = u+du, v+dv
	}
	r, g, b = sceneColor(f, su, sv)

	// Burst flash is additive over the whole frame.
	flash := 0.25 * f.EnergyBurst
	return r + flash, g + flash, b + flash
}

// sceneColor is the procedural scene: a two-hue gradient modulated by the
// chapter motifs, then fogged and exposed.
func sceneColor(f *Frame, u, v float64) (r, g, b float64) {
	c := &f.Chapter
	ar, ag, ab := HSL(c.PaletteHueA, 0.65, 0.52)
	br, bg, bb := HSL(c.PaletteHueB, 0.70, 0.32)
	r, g, b = mix(ar, br, v), mix(ag, bg, v), mix(ab, bb, v)

	t := f.Time
	swirl := math.Sin((u*6+math.Sin(v*4+t*0.6)*c.Motifs.Swirl*2)*math.Pi)*0.5 + 0.5
	rings := math.Sin(math.Hypot(u-0.5, v-0.5)*40*c.Motifs.Interference-t)*0.5 + 0.5
	sink := 1 - c.Motifs.Sink*math.Exp(-math.Pow(math.Hypot(u-0.5, v-0.6)*3, 2))
	detail := 1 + c.Motifs.Detail*0.15*swirl + c.Motifs.Interference*0.1*rings
	r, g, b = r*detail*sink, g*detail*sink, b*detail*sink

	fog := 1 - math.Exp(-c.FogDensity*c.CameraDistance*10*sceneDepth(f, u, v))
	r, g, b = mix(r, 0.02, fog), mix(g, 0.03, fog), mix(b, 0.06, fog)

	e := c.Exposure
	if e == 0 {
		e = 1
	}
	return r * e, g * e, b * e
}

// sceneDepth approximates normalized scene depth: nearer in the middle,
// pulled forward by pinch.
func sceneDepth(f *Frame, u, v float64) float64 {
	d := math.Hypot(u-0.5, v-0.5) * 1.4
	return clamp(d-f.Pinch*0.15, 0, 1)
}

// refraction returns the UV offset of the portal lens at (u,v).
func refraction(f *Frame, u, v, depth float64) (du, dv float64) {
	px, py := u-f.Pointer[0], v-f.Pointer[1]
	d := math.Hypot(px, py)
	strength := 0.04 * (0.5 + f.EnergySoft) * (1 + 0.5*f.Pinch) * math.Exp(-d*d*18)
	if f.Branches.DepthBias {
		strength *= 0.6 + 0.8*depth
	}
	if d > 1e-6 {
		du, dv = -px/d*strength, -py/d*strength
	}
	if f.Branches.Ripples && len(f.Ripples) > 0 {
		hgt := RippleHeight([2]float64{u, v}, f.Ripples, f.RippleParams) * 0.02
		du += hgt
		dv += hgt
	}
	return du, dv
}

func mix(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}
