package render

import "math"

// HSL converts hue (degrees), saturation and lightness in [0,1] to linear
// RGB in [0,1]. Hue wraps.
func HSL(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// RippleHeight evaluates the summed ripple displacement at uv.
// Both the software renderer and the portal shader use this shape.
func RippleHeight(uv [2]float64, ripples []Ripple, p RippleParams) float64 {
	var sum float64
	for _, rp := range ripples {
		if rp.Age < 0 || rp.Age > p.Lifetime {
			continue
		}
		dx, dy := uv[0]-rp.UV[0], uv[1]-rp.UV[1]
		d := math.Sqrt(dx*dx + dy*dy)
		wave := math.Sin(d*p.Frequency - rp.Age*p.Speed)
		sum += rp.Amplitude * wave * math.Exp(-rp.Age*p.Decay) * math.Exp(-d*p.Falloff)
	}
	return sum
}
