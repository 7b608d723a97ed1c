package caps

import (
	"fmt"
	"math"
)

// GPUInfo is what an environment reports about its GPU.
type GPUInfo struct {
	// Available reports whether a rendering context can be created.
	Available bool

	// DepthTexture reports whether depth attachments can be sampled
	// in a later pass.
	DepthTexture bool

	// Precision is the highest fragment float precision.
	Precision Precision
}

// Env is the set of sub-probes a host exposes. Any method may panic; Probe
// recovers and substitutes the safe value.
type Env interface {
	UserAgent() string
	CoarsePointer() bool
	ReducedMotion() bool
	DevicePixelRatio() float64
	GPU() GPUInfo
}

// Probe computes the capability snapshot of env. It never panics. A nil
// env yields [Safe].
func Probe(env Env) Snapshot {
	if env == nil {
		return Safe()
	}

	coarse := guard("coarse-pointer", true, env.CoarsePointer)
	reduced := guard("reduced-motion", true, env.ReducedMotion)
	dpr := guard("device-pixel-ratio", 1.0, env.DevicePixelRatio)
	if math.IsNaN(dpr) || math.IsInf(dpr, 0) || dpr <= 0 {
		dpr = 1
	}
	gpu := guard("gpu", GPUInfo{}, env.GPU)
	ua := guard("user-agent", "", env.UserAgent)
	browser, os := ParseUserAgent(ua)

	snap := Snapshot{
		CoarsePointer:      coarse,
		ReducedMotion:      reduced,
		DevicePixelRatio:   dpr,
		MaxDPR:             MaxDPRFor(coarse, reduced, browser, os),
		WebGL:              gpu.Available,
		WebGL2:             gpu.Available && gpu.DepthTexture,
		MaxShaderPrecision: gpu.Precision,
		Browser:            browser,
		OS:                 os,
	}
	if !snap.WebGL {
		snap.MaxShaderPrecision = PrecisionLow
	}
	slogger().Debug("caps: probed", "snapshot", snap.String())
	return snap
}

// guard runs one sub-probe and returns safe if it panics.
func guard[T any](name string, safe T, fn func() T) (v T) {
	defer func() {
		if r := recover(); r != nil {
			slogger().Warn("caps: sub-probe failed, using safe value",
				"probe", name, "panic", fmt.Sprint(r))
			v = safe
		}
	}()
	return fn()
}

// StaticEnv is an Env with fixed answers.
type StaticEnv struct {
	UA      string
	Coarse  bool
	Reduced bool
	DPR     float64
	Info    GPUInfo
}

func (e StaticEnv) UserAgent() string         { return e.UA }
func (e StaticEnv) CoarsePointer() bool       { return e.Coarse }
func (e StaticEnv) ReducedMotion() bool       { return e.Reduced }
func (e StaticEnv) DevicePixelRatio() float64 { return e.DPR }
func (e StaticEnv) GPU() GPUInfo              { return e.Info }
