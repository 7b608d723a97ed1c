package ihero

import (
	"fmt"
	"math"

	"github.com/gogpu/gpucontext"
)

// Event handlers only write input targets and accumulators. They return
// ErrTransientInput for malformed events, which leave the state untouched,
// and ErrStageDestroyed after Destroy. Callers may ignore both.

// HandlePointer fuses a pointer event. Down events count as taps: they add
// energy and seed a ripple. Touch contacts keep the pinch target alive.
func (s *Stage) HandlePointer(ev gpucontext.PointerEvent) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	w, h := s.canvas.Size()
	uv, err := pointerUV(ev.X, ev.Y, w, h)
	if err != nil {
		return err
	}
	touch := ev.PointerType == gpucontext.PointerTypeTouch

	switch ev.Type {
	case gpucontext.PointerMove, gpucontext.PointerEnter:
		s.input.PointerTarget = uv
	case gpucontext.PointerDown:
		s.input.PointerTarget = uv
		if touch {
			s.touches++
		}
		s.tap(uv)
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		if touch && s.touches > 0 {
			s.touches--
		}
	case gpucontext.PointerLeave:
		s.input.PointerTarget = [2]float64{0.5, 0.5}
	}
	if s.gallery != nil {
		s.gallery.HandlePointer(ev)
	}
	return nil
}

func (s *Stage) tap(uv [2]float64) {
	p := s.ripplePol
	s.energy.add(p.TapSoft, p.TapBurst)
	s.ripples.push(uv, s.elapsed, p.TapAmplitude)
}

// HandleGesture folds a multi-touch zoom into the pinch target.
func (s *Stage) HandleGesture(ev gpucontext.GestureEvent) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	if ev.NumPointers < 2 {
		s.pinching = false
		return nil
	}
	target, err := pinchStep(s.input.PinchTarget, ev.ZoomDelta)
	if err != nil {
		return err
	}
	s.pinching = true
	s.input.PinchTarget = target
	return nil
}

// HandleScroll converts scroll velocity into soft energy.
func (s *Stage) HandleScroll(ev gpucontext.ScrollEvent) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	if !finite(ev.DeltaX, ev.DeltaY) {
		return fmt.Errorf("%w: scroll delta (%v, %v)", ErrTransientInput, ev.DeltaX, ev.DeltaY)
	}
	p := s.ripplePol
	dist := math.Hypot(ev.DeltaX, ev.DeltaY)
	s.energy.add(math.Min(dist*p.ScrollGain, p.ScrollMax), 0)
	return nil
}

// HandleKey steps the gallery. Space and Enter act as a tap at the
// pointer.
func (s *Stage) HandleKey(k gpucontext.Key) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	switch k {
	case gpucontext.KeySpace, gpucontext.KeyEnter:
		s.tap(s.input.Pointer)
		return nil
	}
	if s.gallery != nil {
		s.gallery.HandleKey(k)
	}
	return nil
}
