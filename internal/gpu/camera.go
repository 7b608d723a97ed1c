package gpu

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ihero/render"
)

const (
	fovY    = 45
	zNear   = 0.1
	zFar    = 100
	eyeLift = 1.2
)

type camera struct {
	viewProj mgl32.Mat4
	model    mgl32.Mat4
	eye      mgl32.Vec3
}

// cameraFor orbits the eye around the origin. The orbit motif spins it
// over time, the pointer nudges it, and pinch dollies it in.
func cameraFor(f *render.Frame) camera {
	aspect := float32(1)
	if f.Width > 0 && f.Height > 0 {
		aspect = float32(f.Width) / float32(f.Height)
	}

	dist := f.Chapter.CameraDistance
	if dist <= 0 {
		dist = 6
	}
	dist *= 1 - 0.25*f.Pinch

	angle := f.Chapter.Motifs.Orbit*f.Time*0.2 + (f.Pointer[0]-0.5)*0.6
	lift := eyeLift - (f.Pointer[1]-0.5)*0.8
	eye := mgl32.Vec3{
		float32(math.Sin(angle) * dist),
		float32(lift),
		float32(math.Cos(angle) * dist),
	}

	proj := mgl32.Perspective(mgl32.DegToRad(fovY), aspect, zNear, zFar)
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	model := mgl32.HomogRotate3DY(float32(f.Chapter.Motifs.Curl * f.Time * 0.1))

	return camera{viewProj: proj.Mul4(view), model: model, eye: eye}
}
