package ihero

import (
	"math"

	"github.com/gogpu/gpucontext"
)

// DefaultSwipeThreshold is the horizontal distance, in CSS pixels, a
// pointer must travel between down and up to count as a swipe.
const DefaultSwipeThreshold = 48

// Navigable is a progress target driven in discrete steps.
type Navigable interface {
	SetProgress(p float64)
	Progress() float64
}

// Gallery steps a Navigable through count scenes. Scene i sits at progress
// i/(count-1); smoothing between scenes is the target's job.
type Gallery struct {
	nav   Navigable
	count int

	// SwipeThreshold overrides DefaultSwipeThreshold when positive.
	SwipeThreshold float64

	down      bool
	pointerID int
	downX     float64
	downY     float64
}

// NewGallery creates a navigator over count scenes.
func NewGallery(nav Navigable, count int) *Gallery {
	return newGallery(nav, count)
}

func newGallery(nav Navigable, count int) *Gallery {
	return &Gallery{nav: nav, count: max(count, 1)}
}

// Count returns the number of scenes.
func (g *Gallery) Count() int { return g.count }

// Step returns the progress distance between adjacent scenes.
func (g *Gallery) Step() float64 {
	if g.count < 2 {
		return 0
	}
	return 1 / float64(g.count-1)
}

// Index returns the scene nearest the current progress target.
func (g *Gallery) Index() int {
	if g.count < 2 {
		return 0
	}
	i := int(math.Round(g.nav.Progress() * float64(g.count-1)))
	return min(max(i, 0), g.count-1)
}

// Go moves to scene i, clamped to the valid range.
func (g *Gallery) Go(i int) {
	i = min(max(i, 0), g.count-1)
	g.nav.SetProgress(float64(i) * g.Step())
}

// Next moves one scene forward. It stops at the last scene.
func (g *Gallery) Next() { g.Go(g.Index() + 1) }

// Prev moves one scene back. It stops at the first scene.
func (g *Gallery) Prev() { g.Go(g.Index() - 1) }

// HandleKey maps navigation keys to steps and reports whether k was used.
func (g *Gallery) HandleKey(k gpucontext.Key) bool {
	switch k {
	case gpucontext.KeyRight, gpucontext.KeyPageDown:
		g.Next()
	case gpucontext.KeyLeft, gpucontext.KeyPageUp:
		g.Prev()
	case gpucontext.KeyHome:
		g.Go(0)
	case gpucontext.KeyEnd:
		g.Go(g.count - 1)
	default:
		return false
	}
	return true
}

// HandlePointer tracks a down/up pair and steps on a mostly horizontal
// swipe: leftward for the next scene, rightward for the previous one.
// It reports whether the event completed a swipe.
func (g *Gallery) HandlePointer(ev gpucontext.PointerEvent) bool {
	switch ev.Type {
	case gpucontext.PointerDown:
		if !ev.IsPrimary && g.down {
			return false
		}
		g.down = true
		g.pointerID = ev.PointerID
		g.downX, g.downY = ev.X, ev.Y
	case gpucontext.PointerCancel:
		g.down = false
	case gpucontext.PointerUp:
		if !g.down || ev.PointerID != g.pointerID {
			return false
		}
		g.down = false
		dx, dy := ev.X-g.downX, ev.Y-g.downY
		threshold := g.SwipeThreshold
		if threshold <= 0 {
			threshold = DefaultSwipeThreshold
		}
		if math.Abs(dx) < threshold || math.Abs(dx) <= math.Abs(dy) {
			return false
		}
		if dx < 0 {
			g.Next()
		} else {
			g.Prev()
		}
		return true
	}
	return false
}
