package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/ihero/chapter"
	"github.com/gogpu/ihero/render"
)

func TestBuildHeroMesh(t *testing.T) {
	data, count := buildHeroMesh(heroParts, render.DefaultMaterials)
	if count == 0 {
		t.Fatal("mesh has no vertices")
	}
	if count%3 != 0 {
		t.Errorf("vertex count %d is not a triangle list", count)
	}
	if len(data) != int(count)*heroVertexStride {
		t.Errorf("len(data) = %d, want %d", len(data), int(count)*heroVertexStride)
	}

	// The first part is the body; its first vertex carries the body color.
	body := render.DefaultMaterials[render.PartBody]
	red := math.Float32frombits(binary.LittleEndian.Uint32(data[24:]))
	if red != body.Color[0] {
		t.Errorf("first vertex red = %v, want body color %v", red, body.Color[0])
	}
}

func TestBuildHeroMeshMaterialOverride(t *testing.T) {
	glow := map[render.Part]render.Material{
		render.PartBody: {Color: [4]float32{1, 0, 0, 1}, Emissive: 2},
	}
	data, _ := buildHeroMesh(heroParts[:1], glow)
	emissive := math.Float32frombits(binary.LittleEndian.Uint32(data[40:]))
	if emissive != 2 {
		t.Errorf("emissive = %v, want 2", emissive)
	}
}

func TestUniformSizes(t *testing.T) {
	f := testFrame(320, 200, true)
	if got := len(makeSceneUniform(f)); got != sceneUniformSize {
		t.Errorf("scene uniform = %d bytes, want %d", got, sceneUniformSize)
	}
	if got := len(makePortalUniform(f, 320, 200)); got != portalUniformSize {
		t.Errorf("portal uniform = %d bytes, want %d", got, portalUniformSize)
	}
	// WGSL uniform structs are 16-byte aligned.
	if sceneUniformSize%16 != 0 || portalUniformSize%16 != 0 {
		t.Errorf("uniform sizes %d, %d not 16-byte aligned", sceneUniformSize, portalUniformSize)
	}
}

func TestPortalUniformRippleCount(t *testing.T) {
	f := testFrame(64, 64, true)
	p := render.DefaultRippleParams()
	f.Ripples = []render.Ripple{
		{Age: 0.1, Amplitude: 1},
		{Age: p.Lifetime + 1, Amplitude: 1}, // expired
		{Age: 0.2, Amplitude: 1},
		{Age: 0.3, Amplitude: 1},
		{Age: 0.4, Amplitude: 1},
	}
	buf := makePortalUniform(f, 64, 64)
	count := math.Float32frombits(binary.LittleEndian.Uint32(buf[3*16+12:]))
	if count != render.MaxRipples {
		t.Errorf("ripple count = %v, want %d", count, render.MaxRipples)
	}
}

func TestCameraPinchDolliesIn(t *testing.T) {
	f := testFrame(100, 100, false)
	f.Chapter = chapter.Hero()[0]
	far := cameraFor(f).eye.Len()
	f.Pinch = 1
	near := cameraFor(f).eye.Len()
	if near >= far {
		t.Errorf("eye distance with pinch = %v, want < %v", near, far)
	}
}
