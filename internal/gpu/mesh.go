package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ihero/render"
)

// heroVertexStride is the byte stride per vertex in the scene pipeline.
// Layout per vertex:
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	normal   (vec3<f32>) = 12 bytes (location 1)
//	color    (vec4<f32>) = 16 bytes (location 2)
//	material (vec2<f32>) =  8 bytes (location 3)
//
// Total = 48 bytes per vertex.
const heroVertexStride = 48

// wheelSegments is the number of sides of a wheel cylinder.
const wheelSegments = 16

func heroVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: heroVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2}, // color
				{Format: gputypes.VertexFormatFloat32x2, Offset: 40, ShaderLocation: 3}, // material
			},
		},
	}
}

// meshPart is one named piece of the hero model.
type meshPart struct {
	name   string
	kind   string // "box" or "wheel"
	center mgl32.Vec3
	size   mgl32.Vec3
}

// heroParts is the procedural hero model. Names are classified into
// materials with render.ClassifyPart, the same way named parts of a loaded
// model would be.
var heroParts = []meshPart{
	{"body_shell", "box", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{3.2, 0.7, 1.4}},
	{"glass_cabin", "box", mgl32.Vec3{-0.2, 0.6, 0}, mgl32.Vec3{1.6, 0.5, 1.2}},
	{"interior_seats", "box", mgl32.Vec3{-0.3, 0.45, 0}, mgl32.Vec3{0.8, 0.3, 0.9}},
	{"wheel_fl", "wheel", mgl32.Vec3{1.0, -0.35, 0.7}, mgl32.Vec3{0.35, 0.35, 0.25}},
	{"wheel_fr", "wheel", mgl32.Vec3{1.0, -0.35, -0.7}, mgl32.Vec3{0.35, 0.35, 0.25}},
	{"wheel_rl", "wheel", mgl32.Vec3{-1.0, -0.35, 0.7}, mgl32.Vec3{0.35, 0.35, 0.25}},
	{"wheel_rr", "wheel", mgl32.Vec3{-1.0, -0.35, -0.7}, mgl32.Vec3{0.35, 0.35, 0.25}},
	{"headlight_l", "box", mgl32.Vec3{1.6, 0.05, 0.45}, mgl32.Vec3{0.05, 0.12, 0.3}},
	{"headlight_r", "box", mgl32.Vec3{1.6, 0.05, -0.45}, mgl32.Vec3{0.05, 0.12, 0.3}},
	{"trim_grille", "box", mgl32.Vec3{1.61, -0.15, 0}, mgl32.Vec3{0.04, 0.2, 0.7}},
}

type meshBuilder struct {
	buf   []byte
	count uint32
}

func (b *meshBuilder) vertex(p, n mgl32.Vec3, m render.Material) {
	var v [heroVertexStride]byte
	put := func(i int, f float32) {
		binary.LittleEndian.PutUint32(v[i*4:], math.Float32bits(f))
	}
	put(0, p[0])
	put(1, p[1])
	put(2, p[2])
	put(3, n[0])
	put(4, n[1])
	put(5, n[2])
	put(6, m.Color[0])
	put(7, m.Color[1])
	put(8, m.Color[2])
	put(9, m.Color[3])
	put(10, m.Emissive)
	put(11, m.Roughness)
	b.buf = append(b.buf, v[:]...)
	b.count++
}

// quad emits two triangles a-b-c, a-c-d with a shared normal.
func (b *meshBuilder) quad(a, bb, c, d, n mgl32.Vec3, m render.Material) {
	b.vertex(a, n, m)
	b.vertex(bb, n, m)
	b.vertex(c, n, m)
	b.vertex(a, n, m)
	b.vertex(c, n, m)
	b.vertex(d, n, m)
}

func (b *meshBuilder) box(center, size mgl32.Vec3, m render.Material) {
	h := size.Mul(0.5)
	corner := func(sx, sy, sz float32) mgl32.Vec3 {
		return center.Add(mgl32.Vec3{sx * h[0], sy * h[1], sz * h[2]})
	}
	b.quad(corner(1, -1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(1, -1, 1), mgl32.Vec3{1, 0, 0}, m)
	b.quad(corner(-1, -1, 1), corner(-1, 1, 1), corner(-1, 1, -1), corner(-1, -1, -1), mgl32.Vec3{-1, 0, 0}, m)
	b.quad(corner(-1, 1, -1), corner(-1, 1, 1), corner(1, 1, 1), corner(1, 1, -1), mgl32.Vec3{0, 1, 0}, m)
	b.quad(corner(-1, -1, 1), corner(-1, -1, -1), corner(1, -1, -1), corner(1, -1, 1), mgl32.Vec3{0, -1, 0}, m)
	b.quad(corner(-1, -1, 1), corner(1, -1, 1), corner(1, 1, 1), corner(-1, 1, 1), mgl32.Vec3{0, 0, 1}, m)
	b.quad(corner(1, -1, -1), corner(-1, -1, -1), corner(-1, 1, -1), corner(1, 1, -1), mgl32.Vec3{0, 0, -1}, m)
}

// wheel emits a cylinder along Z. size is (radius, radius, width).
func (b *meshBuilder) wheel(center, size mgl32.Vec3, m render.Material) {
	r, hw := size[0], size[2]*0.5
	front := center.Add(mgl32.Vec3{0, 0, hw})
	back := center.Sub(mgl32.Vec3{0, 0, hw})
	rim := func(i int) (float32, float32) {
		a := 2 * math.Pi * float64(i) / wheelSegments
		return float32(math.Cos(a)), float32(math.Sin(a))
	}
	for i := 0; i < wheelSegments; i++ {
		c0, s0 := rim(i)
		c1, s1 := rim(i + 1)
		p0 := mgl32.Vec3{c0 * r, s0 * r, 0}
		p1 := mgl32.Vec3{c1 * r, s1 * r, 0}

		// tread
		n := mgl32.Vec3{(c0 + c1) / 2, (s0 + s1) / 2, 0}.Normalize()
		b.quad(back.Add(p0), back.Add(p1), front.Add(p1), front.Add(p0), n, m)

		// caps
		b.vertex(front, mgl32.Vec3{0, 0, 1}, m)
		b.vertex(front.Add(p0), mgl32.Vec3{0, 0, 1}, m)
		b.vertex(front.Add(p1), mgl32.Vec3{0, 0, 1}, m)
		b.vertex(back, mgl32.Vec3{0, 0, -1}, m)
		b.vertex(back.Add(p1), mgl32.Vec3{0, 0, -1}, m)
		b.vertex(back.Add(p0), mgl32.Vec3{0, 0, -1}, m)
	}
}

// buildHeroMesh returns the interleaved vertex data and vertex count of the
// hero model, each part colored by its classified material.
func buildHeroMesh(parts []meshPart, materials map[render.Part]render.Material) ([]byte, uint32) {
	var b meshBuilder
	for _, p := range parts {
		m, ok := materials[render.ClassifyPart(p.name)]
		if !ok {
			m = render.DefaultMaterials[render.PartUnknown]
		}
		switch p.kind {
		case "wheel":
			b.wheel(p.center, p.size, m)
		default:
			b.box(p.center, p.size, m)
		}
	}
	return b.buf, b.count
}
