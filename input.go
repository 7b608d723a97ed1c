package ihero

import (
	"fmt"
	"math"
)

// Damping rates, per second.
const (
	pointerLambda = 6.0
	pinchLambda   = 4.0
	galleryLambda = 5.0

	// pinchReleaseLambda pulls the pinch target back to neutral when no
	// touch is active.
	pinchReleaseLambda = 3.0
)

// Tick deltas are clamped to this range, in seconds.
const (
	minTickDt = 1.0 / 240
	maxTickDt = 1.0 / 30
)

// pinchGain maps a gesture zoom delta to pinch target units.
const pinchGain = 1.5

// InputState is the fused pointer and pinch input of a stage. Event
// handlers write the targets; the tick damps the current values toward
// them.
type InputState struct {
	// Pointer is the damped pointer in UV space, origin top-left.
	Pointer [2]float64

	// PointerTarget is the last raw pointer position.
	PointerTarget [2]float64

	// Pinch is the damped pinch in [-1,1].
	Pinch float64

	// PinchTarget accumulates gesture zoom, clamped to [-1,1].
	PinchTarget float64
}

func newInputState() InputState {
	c := [2]float64{0.5, 0.5}
	return InputState{Pointer: c, PointerTarget: c}
}

// advance damps the current values toward their targets over dt seconds.
// Without an active touch the pinch target itself relaxes toward zero.
func (s *InputState) advance(dt float64, touching bool) {
	if !touching {
		s.PinchTarget = damp(s.PinchTarget, 0, pinchReleaseLambda, dt)
	}
	s.Pointer[0] = damp(s.Pointer[0], s.PointerTarget[0], pointerLambda, dt)
	s.Pointer[1] = damp(s.Pointer[1], s.PointerTarget[1], pointerLambda, dt)
	s.Pinch = damp(s.Pinch, s.PinchTarget, pinchLambda, dt)
}

// damp moves current toward target by the frame-rate independent fraction
// 1 - e^(-lambda*dt).
func damp(current, target, lambda, dt float64) float64 {
	return current + (target-current)*(1-math.Exp(-lambda*dt))
}

// clampDt bounds a tick delta in seconds.
func clampDt(dt float64) float64 {
	if math.IsNaN(dt) {
		return minTickDt
	}
	return math.Max(minTickDt, math.Min(maxTickDt, dt))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// pointerUV converts a canvas-relative position to UV space, clamped to
// [0,1]².
func pointerUV(x, y float64, width, height int) ([2]float64, error) {
	if width <= 0 || height <= 0 {
		return [2]float64{}, fmt.Errorf("%w: canvas is %dx%d", ErrTransientInput, width, height)
	}
	if !finite(x, y) {
		return [2]float64{}, fmt.Errorf("%w: pointer at (%v, %v)", ErrTransientInput, x, y)
	}
	return [2]float64{
		clamp01(x / float64(width)),
		clamp01(y / float64(height)),
	}, nil
}

// pinchStep returns the pinch target after a zoom delta.
func pinchStep(target, zoomDelta float64) (float64, error) {
	if !finite(zoomDelta) || zoomDelta <= 0 {
		return target, fmt.Errorf("%w: zoom delta %v", ErrTransientInput, zoomDelta)
	}
	return math.Max(-1, math.Min(1, target+(zoomDelta-1)*pinchGain)), nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
