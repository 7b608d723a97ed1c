package quality

import "math"

// Branches toggles optional shader work for a quality factor.
type Branches struct {
	Ripples   bool
	DepthBias bool
	Grain     bool
}

// BranchesFor returns the shader branches enabled at the given factor.
func BranchesFor(factor float64) Branches {
	return Branches{
		Ripples:   factor >= 0.7,
		DepthBias: factor >= 0.8,
		Grain:     factor >= 0.95,
	}
}

// minPixelRatio keeps the offscreen target from collapsing on tiny factors.
const minPixelRatio = 0.5

// PixelRatio returns the effective render pixel ratio: the device ratio
// capped at maxDPR, scaled by factor.
func PixelRatio(dpr, maxDPR, factor float64) float64 {
	if !(dpr > 0) {
		dpr = 1
	}
	if maxDPR > 0 {
		dpr = math.Min(dpr, maxDPR)
	}
	return math.Max(minPixelRatio, dpr*factor)
}

// Snap rounds ratio to the nearest multiple of step, never below step. A
// non-positive step returns ratio unchanged.
func Snap(ratio, step float64) float64 {
	if !(step > 0) {
		return ratio
	}
	return math.Max(step, math.Round(ratio/step)*step)
}

// TargetSize returns the pixel size of a render target for a CSS viewport
// at the given ratio. Both dimensions are at least 1.
func TargetSize(width, height int, ratio float64) (w, h int) {
	w = int(math.Round(float64(width) * ratio))
	h = int(math.Round(float64(height) * ratio))
	return max(w, 1), max(h, 1)
}
