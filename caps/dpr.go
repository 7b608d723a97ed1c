package caps

import "math"

// Pixel-ratio ceilings of the decision table.
const (
	IOSSafariTouchCeiling = 1.25
	IOSTouchCeiling       = 1.5
	MobileCeiling         = 1.75
	DesktopSafariCeiling  = 1.75
	DesktopCeiling        = 2.0
	ReducedMotionCeiling  = 1.5
)

// MaxDPRFor is the fixed pixel-ratio ceiling policy.
//
// Touch devices on iOS Safari get the lowest ceiling, other iOS browsers the
// next one, and every other coarse pointer the mobile ceiling. Desktop
// Safari is held below the desktop default.
//
// With reduced motion the ceiling is min(class ceiling, 1.5), where the class
// ceiling is the mobile or desktop one regardless of browser and OS. Frames
// are rare in that mode, so the browser-specific limits do not apply.
func MaxDPRFor(coarse, reducedMotion bool, browser BrowserFamily, os OSFamily) float64 {
	if reducedMotion {
		if coarse {
			return math.Min(MobileCeiling, ReducedMotionCeiling)
		}
		return math.Min(DesktopCeiling, ReducedMotionCeiling)
	}

	switch {
	case coarse && os == OSIOS && browser == BrowserSafari:
		return IOSSafariTouchCeiling
	case coarse && os == OSIOS:
		return IOSTouchCeiling
	case coarse:
		return MobileCeiling
	case browser == BrowserSafari:
		return DesktopSafariCeiling
	default:
		return DesktopCeiling
	}
}
