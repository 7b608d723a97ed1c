// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package quality adapts rendering fidelity to measured frame time.
//
// A [Controller] keeps an exponential moving average of frame deltas, maps
// it to a tier target through a step function and damps the published
// factor toward that target so degradation is gradual:
//
//	qc := quality.New(quality.DefaultPolicy(), snap.CoarsePointer)
//	factor := qc.Update(deltaMs)
//	dpr := quality.PixelRatio(snap.DevicePixelRatio, snap.MaxDPR, factor)
//
// The factor scales the pixel ratio and gates expensive shader branches.
package quality

import "math"

// Policy holds the tuning constants of the controller. The values are
// empirically tuned policy, not correctness requirements.
type Policy struct {
	// Smoothing is the EMA coefficient applied to each new frame delta.
	Smoothing float64

	// FastMs and MediumMs are the tier thresholds in milliseconds.
	FastMs   float64
	MediumMs float64

	// High, Medium and Low are the tier targets.
	High   float64
	Medium float64
	Low    float64

	// CoarseMultiplier scales the target on coarse-pointer devices.
	CoarseMultiplier float64

	// Damping is the fraction of the remaining distance to the target
	// covered per update.
	Damping float64

	// Min and Max bound the published factor.
	Min float64
	Max float64

	// CompositeThreshold is the lowest factor that still runs the two-pass
	// portal composite.
	CompositeThreshold float64

	// MaxDeltaMs rejects deltas above it (tab switches, debugger pauses).
	MaxDeltaMs float64

	// RatioStep is the granularity of the render pixel ratio; see Snap.
	// Zero disables snapping.
	RatioStep float64
}

// DefaultPolicy returns the stock thresholds: 18ms and 24ms tiers mapping to
// 1.0, 0.86 and 0.70, a 0.72 coarse-pointer multiplier and a [0.65, 1] range.
func DefaultPolicy() Policy {
	return Policy{
		Smoothing:          0.1,
		FastMs:             18,
		MediumMs:           24,
		High:               1.0,
		Medium:             0.86,
		Low:                0.70,
		CoarseMultiplier:   0.72,
		Damping:            0.05,
		Min:                0.65,
		Max:                1.0,
		CompositeThreshold: 0.7,
		MaxDeltaMs:         1000,
		RatioStep:          0.05,
	}
}

// State is the observable controller state.
type State struct {
	RollingFrameMs float64
	Factor         float64
}

// Controller tracks frame time and derives the quality factor.
// It is not safe for concurrent use; the frame loop is its only caller.
type Controller struct {
	policy Policy
	coarse bool
	state  State
}

// New creates a controller. The rolling average starts at one 60 Hz frame
// and the factor starts at the top tier for the device class.
func New(p Policy, coarse bool) *Controller {
	c := &Controller{policy: p, coarse: coarse}
	c.state.RollingFrameMs = 1000.0 / 60.0
	c.state.Factor = c.clamp(c.target(c.state.RollingFrameMs))
	return c
}

// Update folds one frame delta into the rolling average and returns the
// damped factor. Non-finite, non-positive and oversized deltas are ignored.
func (c *Controller) Update(frameDeltaMs float64) float64 {
	if math.IsNaN(frameDeltaMs) || frameDeltaMs <= 0 || frameDeltaMs > c.policy.MaxDeltaMs {
		return c.state.Factor
	}
	c.state.RollingFrameMs += (frameDeltaMs - c.state.RollingFrameMs) * c.policy.Smoothing

	target := c.clamp(c.target(c.state.RollingFrameMs))
	c.state.Factor = c.clamp(c.state.Factor + (target-c.state.Factor)*c.policy.Damping)
	return c.state.Factor
}

// Factor returns the current quality factor.
func (c *Controller) Factor() float64 { return c.state.Factor }

// State returns a copy of the controller state.
func (c *Controller) State() State { return c.state }

// Policy returns the policy in use.
func (c *Controller) Policy() Policy { return c.policy }

// Composite reports whether the current factor allows the portal composite.
func (c *Controller) Composite() bool {
	return c.state.Factor >= c.policy.CompositeThreshold
}

// Tier returns the undamped step-function target for a rolling frame time,
// before the device-class multiplier.
func (p Policy) Tier(frameMs float64) float64 {
	switch {
	case frameMs < p.FastMs:
		return p.High
	case frameMs < p.MediumMs:
		return p.Medium
	default:
		return p.Low
	}
}

func (c *Controller) target(frameMs float64) float64 {
	t := c.policy.Tier(frameMs)
	if c.coarse {
		t *= c.policy.CoarseMultiplier
	}
	return t
}

func (c *Controller) clamp(v float64) float64 {
	return math.Max(c.policy.Min, math.Min(c.policy.Max, v))
}
