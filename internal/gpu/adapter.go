package gpu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ihero/render"
)

// ErrNoAdapter is returned when no registered backend exposes an adapter.
var ErrNoAdapter = errors.New("gpu: no adapter available")

// backendPriority is the order backends are tried in. The empty backend
// (software or noop) is the last resort.
var backendPriority = []string{"vulkan", "metal", "dx12", "gl", "empty"}

// BackendName returns the registry key for a backend variant.
func BackendName(b gputypes.Backend) string { return strings.ToLower(b.String()) }

// NewBackendRegistry returns the hal backends linked into this binary,
// keyed by BackendName and ordered by platform preference.
func NewBackendRegistry() *gpucontext.Registry[hal.Backend] {
	reg := gpucontext.NewRegistry[hal.Backend](gpucontext.WithPriority(backendPriority...))
	for _, v := range hal.AvailableBackends() {
		b, ok := hal.GetBackend(v)
		if !ok {
			continue
		}
		reg.Register(BackendName(v), func() hal.Backend { return b })
	}
	return reg
}

// orderedBackends lists registered names: priority order first, then the
// rest alphabetically.
func orderedBackends(reg *gpucontext.Registry[hal.Backend]) []string {
	seen := make(map[string]bool)
	var names []string
	for _, n := range backendPriority {
		if reg.Has(n) {
			names = append(names, n)
			seen[n] = true
		}
	}
	rest := reg.Available()
	sort.Strings(rest)
	for _, n := range rest {
		if !seen[n] {
			names = append(names, n)
		}
	}
	return names
}

// AdapterReport summarizes the adapter a renderer would use.
type AdapterReport struct {
	Backend    gputypes.Backend
	Name       string
	Vendor     string
	DeviceType gputypes.DeviceType

	// DepthSampling reports that Depth32Float can be bound as a sampled
	// texture, which the depth-biased portal pass needs.
	DepthSampling bool

	MaxTextureSize uint32
}

// deviceRank orders adapter types, lower first.
func deviceRank(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeOther:
		return 3
	default:
		return 4
	}
}

// selectAdapter prefers discrete over integrated GPUs, and any GPU over a
// CPU rasterizer.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	var best *hal.ExposedAdapter
	for i := range adapters {
		a := &adapters[i]
		if best == nil || deviceRank(a.Info.DeviceType) < deviceRank(best.Info.DeviceType) {
			best = a
		}
	}
	return best
}

func depthSampling(a hal.Adapter) bool {
	caps := a.TextureFormatCapabilities(gputypes.TextureFormatDepth32Float)
	return caps.Flags&hal.TextureFormatCapabilitySampled != 0
}

func reportFor(a *hal.ExposedAdapter) AdapterReport {
	return AdapterReport{
		Backend:        a.Info.Backend,
		Name:           a.Info.Name,
		Vendor:         a.Info.Vendor,
		DeviceType:     a.Info.DeviceType,
		DepthSampling:  depthSampling(a.Adapter),
		MaxTextureSize: a.Capabilities.Limits.MaxTextureDimension2D,
	}
}

// ProbeAdapter reports the best adapter of the highest-priority backend
// that exposes one. Every instance it creates is destroyed before it
// returns.
func ProbeAdapter(reg *gpucontext.Registry[hal.Backend]) (AdapterReport, error) {
	if reg == nil {
		reg = NewBackendRegistry()
	}
	for _, name := range orderedBackends(reg) {
		backend := reg.Get(name)
		if backend == nil {
			continue
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
		if err != nil {
			slogger().Debug("gpu: backend unavailable", "backend", name, "err", err)
			continue
		}
		best := selectAdapter(instance.EnumerateAdapters(nil))
		if best == nil {
			instance.Destroy()
			continue
		}
		report := reportFor(best)
		instance.Destroy()
		return report, nil
	}
	return AdapterReport{}, ErrNoAdapter
}

// deviceLease is an open device and the objects that own it. A borrowed
// lease only holds the device and queue and releases nothing.
type deviceLease struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	report   AdapterReport
	owned    bool
}

// openDevice opens a device on the first backend that can provide one.
func openDevice(reg *gpucontext.Registry[hal.Backend]) (*deviceLease, error) {
	var lastErr error
	for _, name := range orderedBackends(reg) {
		backend := reg.Get(name)
		if backend == nil {
			continue
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
		if err != nil {
			lastErr = err
			continue
		}
		best := selectAdapter(instance.EnumerateAdapters(nil))
		if best == nil {
			instance.Destroy()
			continue
		}
		open, err := best.Adapter.Open(0, gputypes.DefaultLimits())
		if err != nil {
			instance.Destroy()
			lastErr = err
			continue
		}
		report := reportFor(best)
		slogger().Debug("gpu: device opened",
			"backend", name, "adapter", report.Name, "type", report.DeviceType)
		return &deviceLease{
			instance: instance,
			adapter:  best.Adapter,
			device:   open.Device,
			queue:    open.Queue,
			report:   report,
			owned:    true,
		}, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, lastErr)
	}
	return nil, ErrNoAdapter
}

// borrowDevice wraps a host-provided device.
func borrowDevice(h gpucontext.DeviceProvider) (*deviceLease, error) {
	device, ok := h.Device().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("gpu: %w: device is %T", render.ErrForeignDevice, h.Device())
	}
	queue, ok := h.Queue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("gpu: %w: queue is %T", render.ErrForeignDevice, h.Queue())
	}
	info := h.AdapterInfo()
	report := AdapterReport{Name: info.Name}
	if a, ok := h.Adapter().(hal.Adapter); ok && a != nil {
		report.DepthSampling = depthSampling(a)
	}
	return &deviceLease{device: device, queue: queue, report: report}, nil
}

// release destroys what the lease owns. The device must be idle.
func (l *deviceLease) release() {
	if !l.owned {
		return
	}
	safeRelease("device", l.device.Destroy)
	safeRelease("adapter", l.adapter.Destroy)
	safeRelease("instance", l.instance.Destroy)
}

// safeRelease runs one release step. A panic is logged and swallowed so
// the remaining steps still run.
func safeRelease(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slogger().Warn("gpu: release panicked", "resource", name, "panic", r)
		}
	}()
	fn()
}
