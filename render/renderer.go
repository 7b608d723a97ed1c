// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/ihero/chapter"
	"github.com/gogpu/ihero/quality"
)

// MaxRipples is the capacity of the ripple ring buffer.
const MaxRipples = 3

// Ripple is one tap-seeded wave. UV is in [0,1]² with the origin at the
// top-left; Age is seconds since the tap.
type Ripple struct {
	UV        [2]float64
	Age       float64
	Amplitude float64
}

// RippleParams shapes the ripple wave: a sinusoid in distance and time
// with exponential decay in both.
type RippleParams struct {
	Frequency float64 // spatial frequency, radians per UV unit
	Speed     float64 // phase speed, radians per second
	Decay     float64 // temporal decay, 1/s
	Falloff   float64 // spatial decay, 1/UV unit
	Lifetime  float64 // seconds after which a ripple is dropped
}

// DefaultRippleParams returns the stock ripple shape.
func DefaultRippleParams() RippleParams {
	return RippleParams{Frequency: 42, Speed: 9, Decay: 2.2, Falloff: 6, Lifetime: 2.5}
}

// Frame carries everything a renderer needs for one tick.
type Frame struct {
	// Time is seconds since the stage started.
	Time float64

	// Width and Height are the drawing-buffer size in device pixels.
	Width, Height int

	// PixelRatio is the effective ratio used for the offscreen target
	// (device ratio capped by MaxDPR, scaled by Quality).
	PixelRatio float64

	Quality  float64
	Progress float64
	Chapter  chapter.Config

	// Pointer is the damped pointer in UV space.
	Pointer [2]float64

	// Pinch is the damped pinch in [-1,1].
	Pinch float64

	EnergySoft  float64
	EnergyBurst float64

	Ripples      []Ripple
	RippleParams RippleParams

	// Composite selects the two-pass portal path. When false the scene is
	// drawn straight to the output.
	Composite bool

	Branches quality.Branches
}

// Renderer draws frames. Implementations are not safe for concurrent use;
// the frame loop is their only caller.
type Renderer interface {
	// Resize reallocates size-dependent resources. Resizing to the current
	// size is a no-op.
	Resize(width, height int) error

	// Render draws one frame.
	Render(f *Frame) error

	// Destroy releases every resource. It is idempotent.
	Destroy()
}

// Capabilities describes what a renderer can do.
type Capabilities struct {
	// Name identifies the backend or adapter.
	Name string

	// IsGPU reports a GPU-backed renderer.
	IsGPU bool

	// DepthTexture reports that the portal pass can sample scene depth.
	DepthTexture bool

	// MaxTextureSize is the maximum target dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can report
// their capabilities.
type CapableRenderer interface {
	Renderer
	Capabilities() Capabilities
}
