package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ihero/render"
)

const (
	// sceneUniformSize is two mat4x4 plus five vec4.
	sceneUniformSize = 2*64 + 5*16

	// portalUniformSize is four vec4, three ripple vec4 and the resolution.
	portalUniformSize = 4*16 + render.MaxRipples*16 + 16

	// lensStrength is the base UV displacement of the portal lens.
	lensStrength = 0.04
)

type uniformWriter struct {
	buf []byte
	off int
}

func (w *uniformWriter) f32(v float64) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], math.Float32bits(float32(v)))
	w.off += 4
}

func (w *uniformWriter) vec4(x, y, z, a float64) {
	w.f32(x)
	w.f32(y)
	w.f32(z)
	w.f32(a)
}

// mat4 writes m in column-major order, which is both mgl32's and WGSL's.
func (w *uniformWriter) mat4(m mgl32.Mat4) {
	for _, v := range m {
		binary.LittleEndian.PutUint32(w.buf[w.off:], math.Float32bits(v))
		w.off += 4
	}
}

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// makeSceneUniform packs the scene pass uniforms for f.
func makeSceneUniform(f *render.Frame) []byte {
	w := &uniformWriter{buf: make([]byte, sceneUniformSize)}
	cam := cameraFor(f)
	w.mat4(cam.viewProj)
	w.mat4(cam.model)

	c := &f.Chapter
	ar, ag, ab := render.HSL(c.PaletteHueA, 0.65, 0.52)
	br, bg, bb := render.HSL(c.PaletteHueB, 0.70, 0.32)
	exposure := c.Exposure
	if exposure == 0 {
		exposure = 1
	}
	fr, fg, fb := fogColor(f)

	w.vec4(ar, ag, ab, exposure)
	w.vec4(br, bg, bb, c.FogDensity)
	w.vec4(fr, fg, fb, f.Time)
	w.vec4(c.Motifs.Swirl, c.Motifs.Sink, c.Motifs.Interference, c.Motifs.Detail)
	w.vec4(f.EnergySoft, f.EnergyBurst, f.Pinch, c.CameraDistance)
	return w.buf
}

// makePortalUniform packs the portal pass uniforms for f at the target size.
func makePortalUniform(f *render.Frame, width, height uint32) []byte {
	w := &uniformWriter{buf: make([]byte, portalUniformSize)}
	w.vec4(f.Pointer[0], f.Pointer[1], f.Pinch, lensStrength)
	w.vec4(f.EnergySoft, f.EnergyBurst, f.Time, 0)

	p := f.RippleParams
	w.vec4(p.Frequency, p.Speed, p.Decay, p.Falloff)

	n := 0
	for _, r := range f.Ripples {
		if n == render.MaxRipples {
			break
		}
		if r.Age < 0 || r.Age > p.Lifetime {
			continue
		}
		n++
	}
	w.vec4(bool01(f.Branches.Ripples), bool01(f.Branches.DepthBias), bool01(f.Branches.Grain), float64(n))

	written := 0
	for _, r := range f.Ripples {
		if written == n {
			break
		}
		if r.Age < 0 || r.Age > p.Lifetime {
			continue
		}
		w.vec4(r.UV[0], r.UV[1], r.Age, r.Amplitude)
		written++
	}
	for ; written < render.MaxRipples; written++ {
		w.vec4(0, 0, 0, 0)
	}

	w.vec4(float64(width), float64(height), 1/float64(width), 1/float64(height))
	return w.buf
}

// fogColor is the clear and fog color: a dark shade of palette B.
func fogColor(f *render.Frame) (r, g, b float64) {
	return render.HSL(f.Chapter.PaletteHueB, 0.45, 0.06)
}
