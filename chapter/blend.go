package chapter

import "math"

// Smoothstep eases t in [0,1] with zero slope at both ends.
// Values outside [0,1] are clamped first.
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// Resolve selects the current chapter, the next chapter and the local
// fraction for a table of n chapters.
//
// index = floor(progress*n) clamped to [0, n-1]. The next chapter is
// index+1, or index itself for the last chapter. At progress 1 the index is
// n-1 and the fraction is 0.
func Resolve(n int, progress float64) (cur, next int, localT float64) {
	if n <= 0 {
		return 0, 0, 0
	}
	p := clamp01(progress)
	scaled := p * float64(n)
	cur = int(math.Floor(scaled))
	if cur >= n {
		return n - 1, n - 1, 0
	}
	localT = clamp01(scaled - float64(cur))
	next = cur + 1
	if next > n-1 {
		next = n - 1
	}
	return cur, next, localT
}

// Blend returns the configuration for progress in [0,1]. An empty table
// yields the zero Config.
func Blend(t Table, progress float64) Config {
	if len(t) == 0 {
		return Config{}
	}
	cur, next, localT := Resolve(len(t), progress)
	return Mix(t[cur], t[next], Smoothstep(localT))
}

// sceneSnap absorbs the rounding of progress values built as i/(n-1).
const sceneSnap = 1e-9

// BlendScenes returns the configuration for progress in [0,1] when the
// table is navigated scene by scene: chapter i sits exactly at progress
// i/(n-1) and the span between two scenes blends them. An empty table
// yields the zero Config.
func BlendScenes(t Table, progress float64) Config {
	n := len(t)
	if n == 0 {
		return Config{}
	}
	x := clamp01(progress) * float64(n-1)
	cur := int(math.Floor(x + sceneSnap))
	if cur >= n-1 {
		return Mix(t[n-1], t[n-1], 0)
	}
	return Mix(t[cur], t[cur+1], Smoothstep(x-float64(cur)))
}

// Mix interpolates a toward b by s, where s is already eased.
// Discrete fields come from a.
func Mix(a, b Config, s float64) Config {
	s = clamp01(s)
	return Config{
		ID:             a.ID,
		Variant:        a.Variant,
		PaletteHueA:    lerp(a.PaletteHueA, b.PaletteHueA, s),
		PaletteHueB:    lerp(a.PaletteHueB, b.PaletteHueB, s),
		Exposure:       lerp(a.Exposure, b.Exposure, s),
		FogDensity:     lerp(a.FogDensity, b.FogDensity, s),
		CameraDistance: lerp(a.CameraDistance, b.CameraDistance, s),
		Motifs: Motifs{
			Swirl:        lerp(a.Motifs.Swirl, b.Motifs.Swirl, s),
			Sink:         lerp(a.Motifs.Sink, b.Motifs.Sink, s),
			Interference: lerp(a.Motifs.Interference, b.Motifs.Interference, s),
			Detail:       lerp(a.Motifs.Detail, b.Motifs.Detail, s),
			Curl:         lerp(a.Motifs.Curl, b.Motifs.Curl, s),
			Orbit:        lerp(a.Motifs.Orbit, b.Motifs.Orbit, s),
		},
		ParticleCount: lerpInt(a.ParticleCount, b.ParticleCount, s),
		LineCount:     lerpInt(a.LineCount, b.LineCount, s),
	}
}

func lerp(a, b, s float64) float64 {
	if s == 0 || a == b {
		return a
	}
	if s == 1 {
		return b
	}
	return a + (b-a)*s
}

func lerpInt(a, b int, s float64) int {
	return int(math.Round(lerp(float64(a), float64(b), s)))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
