package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	colorFormat = gputypes.TextureFormatBGRA8Unorm
	depthFormat = gputypes.TextureFormatDepth32Float
)

// targetSet holds the size-dependent render targets:
//   - scene color: BGRA8Unorm, RenderAttachment | TextureBinding, sampled by
//     the portal pass
//   - scene depth: Depth32Float, RenderAttachment, plus TextureBinding when
//     the adapter can sample depth
//   - output: BGRA8Unorm, RenderAttachment | CopySrc, only when there is no
//     surface to present to
type targetSet struct {
	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
	outTex    hal.Texture
	outView   hal.TextureView

	width, height uint32
}

func (ts *targetSet) ready(w, h uint32) bool {
	return ts.colorTex != nil && ts.width == w && ts.height == h
}

// ensure creates or recreates the targets when the size changed. It is a
// no-op when the size matches and the targets exist. On error every target
// is released.
func (ts *targetSet) ensure(device hal.Device, w, h uint32, depthSampled, offscreenOut bool) error {
	if ts.ready(w, h) && (ts.outTex != nil) == offscreenOut {
		return nil
	}
	ts.destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	var err error
	ts.colorTex, ts.colorView, err = createTarget(device, "hero_scene_color", size, colorFormat,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding, gputypes.TextureAspectAll)
	if err != nil {
		ts.destroy(device)
		return err
	}

	depthUsage := gputypes.TextureUsageRenderAttachment
	if depthSampled {
		depthUsage |= gputypes.TextureUsageTextureBinding
	}
	ts.depthTex, ts.depthView, err = createTarget(device, "hero_scene_depth", size, depthFormat,
		depthUsage, gputypes.TextureAspectDepthOnly)
	if err != nil {
		ts.destroy(device)
		return err
	}

	if offscreenOut {
		ts.outTex, ts.outView, err = createTarget(device, "hero_output", size, colorFormat,
			gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc, gputypes.TextureAspectAll)
		if err != nil {
			ts.destroy(device)
			return err
		}
	}

	ts.width = w
	ts.height = h
	return nil
}

func createTarget(
	device hal.Device, label string, size hal.Extent3D,
	format gputypes.TextureFormat, usage gputypes.TextureUsage, aspect gputypes.TextureAspect,
) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     label + "_view",
		Format:    format,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    aspect,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// destroy releases every target and resets the size. Views go before
// their textures.
func (ts *targetSet) destroy(device hal.Device) {
	if ts.outView != nil {
		view := ts.outView
		safeRelease("output view", func() { device.DestroyTextureView(view) })
		ts.outView = nil
	}
	if ts.outTex != nil {
		tex := ts.outTex
		safeRelease("output texture", func() { device.DestroyTexture(tex) })
		ts.outTex = nil
	}
	if ts.depthView != nil {
		view := ts.depthView
		safeRelease("depth view", func() { device.DestroyTextureView(view) })
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		tex := ts.depthTex
		safeRelease("depth texture", func() { device.DestroyTexture(tex) })
		ts.depthTex = nil
	}
	if ts.colorView != nil {
		view := ts.colorView
		safeRelease("color view", func() { device.DestroyTextureView(view) })
		ts.colorView = nil
	}
	if ts.colorTex != nil {
		tex := ts.colorTex
		safeRelease("color texture", func() { device.DestroyTexture(tex) })
		ts.colorTex = nil
	}
	ts.width = 0
	ts.height = 0
}
