package rodhost

import (
	"github.com/go-rod/rod"

	"github.com/gogpu/ihero/caps"
)

// Env probes the capabilities of the browser behind a page. Each method
// evaluates one script and panics when evaluation fails; caps.Probe
// recovers and substitutes the safe value.
type Env struct {
	Page *rod.Page
}

var _ caps.Env = Env{}

func (e Env) UserAgent() string         { return e.Page.MustEval(jsUserAgent).Str() }
func (e Env) CoarsePointer() bool       { return e.Page.MustEval(jsCoarsePointer).Bool() }
func (e Env) ReducedMotion() bool       { return e.Page.MustEval(jsReducedMotion).Bool() }
func (e Env) DevicePixelRatio() float64 { return e.Page.MustEval(jsDPR).Num() }

// GPU creates a scratch WebGL context and releases it again.
func (e Env) GPU() caps.GPUInfo {
	v := e.Page.MustEval(jsGPU)
	return caps.GPUInfo{
		Available:    v.Get("available").Bool(),
		DepthTexture: v.Get("depth").Bool(),
		Precision:    caps.ParsePrecision(v.Get("precision").Str()),
	}
}
