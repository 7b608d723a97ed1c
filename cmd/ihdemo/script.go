package main

import (
	"sort"
	"strings"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ihero/host"
)

var keyNames = map[string]gpucontext.Key{
	"left":     gpucontext.KeyLeft,
	"right":    gpucontext.KeyRight,
	"home":     gpucontext.KeyHome,
	"end":      gpucontext.KeyEnd,
	"pageup":   gpucontext.KeyPageUp,
	"pagedown": gpucontext.KeyPageDown,
	"space":    gpucontext.KeySpace,
	"enter":    gpucontext.KeyEnter,
}

// player feeds scripted steps into a root as host events.
type player struct {
	root  *host.MemoryRoot
	steps []Step
	next  int

	// trackHeight is the scroll distance of the root.
	trackHeight float64
}

func newPlayer(root *host.MemoryRoot, steps []Step, trackHeight float64) *player {
	sorted := append([]Step(nil), steps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	return &player{root: root, steps: sorted, trackHeight: trackHeight}
}

// play applies every step scheduled at or before frame.
func (p *player) play(frame int) {
	for p.next < len(p.steps) && p.steps[p.next].Frame <= frame {
		p.apply(p.steps[p.next])
		p.next++
	}
}

func (p *player) apply(s Step) {
	switch {
	case s.Move != nil:
		p.pointer(gpucontext.PointerMove, *s.Move)
	case s.Tap != nil:
		p.pointer(gpucontext.PointerDown, *s.Tap)
		p.pointer(gpucontext.PointerUp, *s.Tap)
	case s.Scroll != 0:
		p.root.Dispatch(host.Event{Kind: host.EventScroll, Scroll: gpucontext.ScrollEvent{DeltaY: s.Scroll}})
	case s.ScrollTo != nil:
		g := p.root.Geometry()
		g.ScrollY = g.RootTop + *s.ScrollTo*p.trackHeight
		p.root.SetGeometry(g)
		p.root.Dispatch(host.Event{Kind: host.EventScroll})
	case s.Pinch != 0:
		p.root.Dispatch(host.Event{Kind: host.EventGesture, Gesture: gpucontext.GestureEvent{NumPointers: 2, ZoomDelta: s.Pinch}})
	case s.Key != "":
		p.root.Dispatch(host.Event{Kind: host.EventKey, Key: keyNames[strings.ToLower(s.Key)]})
	case s.Hidden != nil:
		p.root.Dispatch(host.Event{Kind: host.EventVisibility, Visible: !*s.Hidden})
	case s.Lose:
		p.root.Dispatch(host.Event{Kind: host.EventContextLost})
	}
}

func (p *player) pointer(t gpucontext.PointerEventType, at [2]float64) {
	p.root.Dispatch(host.Event{Kind: host.EventPointer, Pointer: gpucontext.PointerEvent{
		Type:        t,
		X:           at[0],
		Y:           at[1],
		PointerType: gpucontext.PointerTypeMouse,
		IsPrimary:   true,
	}})
}
