package ihero

import (
	"math"

	"github.com/gogpu/ihero/render"
)

// RipplePolicy holds the constants of the energy accumulators and the tap
// ripples. Like the quality thresholds they are tuned by eye.
type RipplePolicy struct {
	// Wave shapes each ripple in the portal pass.
	Wave render.RippleParams

	// TapAmplitude is the amplitude of a ripple seeded by a tap.
	TapAmplitude float64

	// SoftDecay and BurstDecay are the per-tick multipliers of the two
	// accumulators.
	SoftDecay  float64
	BurstDecay float64

	// TapSoft and TapBurst are added on every tap or click.
	TapSoft  float64
	TapBurst float64

	// ScrollGain converts scroll distance in pixels to soft energy, and
	// ScrollMax caps one scroll impulse.
	ScrollGain float64
	ScrollMax  float64
}

// DefaultRipplePolicy returns the stock energy and ripple constants.
func DefaultRipplePolicy() RipplePolicy {
	return RipplePolicy{
		Wave:         render.DefaultRippleParams(),
		TapAmplitude: 1,
		SoftDecay:    0.96,
		BurstDecay:   0.88,
		TapSoft:      0.18,
		TapBurst:     0.65,
		ScrollGain:   0.0015,
		ScrollMax:    0.12,
	}
}

// energy holds the two accumulators. Both stay in [0,1].
type energy struct {
	soft  float64
	burst float64
}

func (e *energy) decay(p RipplePolicy) {
	e.soft *= p.SoftDecay
	e.burst *= p.BurstDecay
}

func (e *energy) add(soft, burst float64) {
	e.soft = math.Min(1, e.soft+math.Max(0, soft))
	e.burst = math.Min(1, e.burst+math.Max(0, burst))
}

// ripple is one tap impulse. at is the stage time of the tap in seconds.
type ripple struct {
	uv  [2]float64
	at  float64
	amp float64
}

// rippleRing keeps the most recent render.MaxRipples taps. A new tap
// overwrites the oldest.
type rippleRing struct {
	buf  [render.MaxRipples]ripple
	n    int
	next int
}

func (r *rippleRing) push(uv [2]float64, at, amp float64) {
	r.buf[r.next] = ripple{uv: uv, at: at, amp: amp}
	r.next = (r.next + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

// live returns the ripples younger than lifetime at time now, oldest
// first, appended to dst.
func (r *rippleRing) live(dst []render.Ripple, now, lifetime float64) []render.Ripple {
	start := (r.next - r.n + len(r.buf)) % len(r.buf)
	for i := 0; i < r.n; i++ {
		rp := r.buf[(start+i)%len(r.buf)]
		age := now - rp.at
		if age < 0 || age > lifetime {
			continue
		}
		dst = append(dst, render.Ripple{UV: rp.uv, Age: age, Amplitude: rp.amp})
	}
	return dst
}
