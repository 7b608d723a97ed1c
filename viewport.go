package ihero

import (
	"fmt"
	"math"

	"github.com/gogpu/ihero/host"
)

// viewportStabilizer picks the viewport height used for scroll progress.
//
// Mobile browsers grow and shrink the visual viewport as the URL bar hides
// and shows, which would make progress jump while the user scrolls. On
// coarse pointers the height is only ever adopted when it grows. A width
// change (rotation) starts over.
type viewportStabilizer struct {
	coarse bool
	width  float64
	height float64
}

func (v *viewportStabilizer) stable(g host.Geometry) (float64, error) {
	h := g.ViewportHeight
	if g.VisualHeight > 0 {
		h = g.VisualHeight
	}
	if !finite(h, g.ViewportWidth) || h <= 0 {
		return 0, fmt.Errorf("%w: viewport height %v", ErrTransientInput, h)
	}
	if !v.coarse {
		return h, nil
	}
	if g.ViewportWidth != v.width {
		v.width = g.ViewportWidth
		v.height = 0
	}
	v.height = math.Max(v.height, h)
	return v.height, nil
}

// scrollProgress maps the root's position to [0,1]: 0 when its top reaches
// the top of the viewport, 1 when its bottom reaches the bottom.
func scrollProgress(g host.Geometry, viewportHeight float64) (float64, error) {
	if !finite(g.ScrollY, g.RootTop, g.RootHeight) {
		return 0, fmt.Errorf("%w: scroll geometry %+v", ErrTransientInput, g)
	}
	track := g.RootHeight - viewportHeight
	if track <= 0 {
		return 0, nil
	}
	return clamp01((g.ScrollY - g.RootTop) / track), nil
}
