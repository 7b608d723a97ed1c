package caps

import (
	"fmt"
	"runtime"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ihero/internal/gpu"
)

// HalEnv probes a native host. The GPU answer comes from the hal adapter
// the renderer would open; pointer and motion preferences come from the
// gpucontext providers of the host window. Nil providers answer with the
// desktop defaults.
type HalEnv struct {
	Window   gpucontext.WindowProvider
	Platform gpucontext.PlatformProvider

	// Touch marks the host as driven by a coarse pointer.
	Touch bool

	// Registry lists the backends to probe. Nil probes every backend
	// linked into the binary.
	Registry *gpucontext.Registry[hal.Backend]
}

// UserAgent returns "ihero/native (<os>)" so that ParseUserAgent reports
// BrowserNative and the host OS.
func (e HalEnv) UserAgent() string {
	return fmt.Sprintf("ihero/native (%s)", osToken(runtime.GOOS))
}

func (e HalEnv) CoarsePointer() bool { return e.Touch }

func (e HalEnv) ReducedMotion() bool {
	if e.Platform == nil {
		return false
	}
	return e.Platform.ReduceMotion()
}

func (e HalEnv) DevicePixelRatio() float64 {
	if e.Window == nil {
		return 1
	}
	return e.Window.ScaleFactor()
}

// GPU opens a throwaway instance and reports its best adapter.
func (e HalEnv) GPU() GPUInfo {
	report, err := gpu.ProbeAdapter(e.Registry)
	if err != nil {
		slogger().Info("caps: no gpu adapter", "err", err)
		return GPUInfo{}
	}
	return GPUInfo{
		Available:    true,
		DepthTexture: report.DepthSampling,
		Precision:    precisionFor(report.DeviceType),
	}
}

func precisionFor(t gputypes.DeviceType) Precision {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU:
		return PrecisionHigh
	case gputypes.DeviceTypeCPU:
		return PrecisionLow
	default:
		return PrecisionMedium
	}
}

// osToken maps GOOS to the token ParseUserAgent recognizes.
func osToken(goos string) string {
	switch goos {
	case "darwin":
		return "Macintosh"
	case "ios":
		return "iPhone"
	case "android":
		return "Android"
	case "windows":
		return "Windows"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "X11; Linux"
	default:
		return goos
	}
}
