package rodhost

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ihero/host"
)

// payload is the JSON shape posted by jsInstall.
type payload struct {
	Root        string  `json:"root"`
	Kind        string  `json:"kind"`
	Type        string  `json:"type"`
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	PointerType string  `json:"pointerType"`
	Primary     bool    `json:"primary"`
	Pointers    int     `json:"pointers"`
	Zoom        float64 `json:"zoom"`
	DX          float64 `json:"dx"`
	DY          float64 `json:"dy"`
	Key         string  `json:"key"`
	Visible     bool    `json:"visible"`
}

var errUnknownEvent = errors.New("rodhost: unknown event")

var pointerTypes = map[string]gpucontext.PointerEventType{
	"pointerdown":   gpucontext.PointerDown,
	"pointerup":     gpucontext.PointerUp,
	"pointermove":   gpucontext.PointerMove,
	"pointerenter":  gpucontext.PointerEnter,
	"pointerleave":  gpucontext.PointerLeave,
	"pointercancel": gpucontext.PointerCancel,
}

var pointerDevices = map[string]gpucontext.PointerType{
	"mouse": gpucontext.PointerTypeMouse,
	"touch": gpucontext.PointerTypeTouch,
	"pen":   gpucontext.PointerTypePen,
}

// keys maps KeyboardEvent.key values to key codes.
var keys = map[string]gpucontext.Key{
	"Enter":      gpucontext.KeyEnter,
	" ":          gpucontext.KeySpace,
	"Escape":     gpucontext.KeyEscape,
	"Home":       gpucontext.KeyHome,
	"End":        gpucontext.KeyEnd,
	"PageUp":     gpucontext.KeyPageUp,
	"PageDown":   gpucontext.KeyPageDown,
	"ArrowLeft":  gpucontext.KeyLeft,
	"ArrowRight": gpucontext.KeyRight,
	"ArrowUp":    gpucontext.KeyUp,
	"ArrowDown":  gpucontext.KeyDown,
}

// decodeEvent parses a binding payload into the root id and host event.
func decodeEvent(data string) (string, host.Event, error) {
	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return "", host.Event{}, fmt.Errorf("rodhost: decode event: %w", err)
	}
	ev := host.Event{Kind: host.EventKind(p.Kind)}
	switch ev.Kind {
	case host.EventPointer:
		t, ok := pointerTypes[p.Type]
		if !ok {
			return "", host.Event{}, fmt.Errorf("%w: pointer type %q", errUnknownEvent, p.Type)
		}
		ev.Pointer = gpucontext.PointerEvent{
			Type:        t,
			PointerID:   p.ID,
			X:           p.X,
			Y:           p.Y,
			PointerType: pointerDevices[p.PointerType],
			IsPrimary:   p.Primary,
		}
	case host.EventGesture:
		ev.Gesture = gpucontext.GestureEvent{NumPointers: p.Pointers, ZoomDelta: p.Zoom}
	case host.EventScroll:
		ev.Scroll = gpucontext.ScrollEvent{DeltaX: p.DX, DeltaY: p.DY}
	case host.EventKey:
		ev.Key = keys[p.Key]
	case host.EventResize, host.EventContextLost:
	case host.EventVisibility, host.EventIntersection:
		ev.Visible = p.Visible
	default:
		return "", host.Event{}, fmt.Errorf("%w: kind %q", errUnknownEvent, p.Kind)
	}
	return p.Root, ev, nil
}
