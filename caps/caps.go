// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package caps detects the rendering capability of the host device.
//
// [Probe] is a single synchronous call that never panics. Each sub-probe
// runs behind a recover guard and degrades to its safest value on failure.
// The result is an immutable [Snapshot] computed once per mount.
//
// Environments:
//   - [StaticEnv]: fixed values, for tests and headless demos
//   - [HalEnv]: native hosts, backed by wgpu hal adapters and gpucontext
//     window/platform providers
//   - rodhost.Env: a live browser page driven through go-rod
package caps

import "fmt"

// Precision is the highest float precision the fragment stage supports.
type Precision uint8

const (
	PrecisionLow Precision = iota
	PrecisionMedium
	PrecisionHigh
)

// String returns the GLSL-style precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionHigh:
		return "high"
	case PrecisionMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParsePrecision maps "highp"/"high", "mediump"/"medium" and anything
// else to a Precision. Unknown values fall back to PrecisionLow.
func ParsePrecision(s string) Precision {
	switch s {
	case "high", "highp":
		return PrecisionHigh
	case "medium", "mediump":
		return PrecisionMedium
	default:
		return PrecisionLow
	}
}

// BrowserFamily groups user agents by rendering engine behaviour.
type BrowserFamily uint8

const (
	BrowserOther BrowserFamily = iota
	BrowserSafari
	BrowserChrome
	BrowserFirefox
	BrowserEdge
	BrowserSamsung
	BrowserNative
)

func (b BrowserFamily) String() string {
	switch b {
	case BrowserSafari:
		return "safari"
	case BrowserChrome:
		return "chrome"
	case BrowserFirefox:
		return "firefox"
	case BrowserEdge:
		return "edge"
	case BrowserSamsung:
		return "samsung"
	case BrowserNative:
		return "native"
	default:
		return "other"
	}
}

// OSFamily groups operating systems.
type OSFamily uint8

const (
	OSOther OSFamily = iota
	OSIOS
	OSAndroid
	OSMacOS
	OSWindows
	OSLinux
)

func (o OSFamily) String() string {
	switch o {
	case OSIOS:
		return "ios"
	case OSAndroid:
		return "android"
	case OSMacOS:
		return "macos"
	case OSWindows:
		return "windows"
	case OSLinux:
		return "linux"
	default:
		return "other"
	}
}

// Snapshot is the immutable capability record of one mount.
type Snapshot struct {
	CoarsePointer      bool
	ReducedMotion      bool
	DevicePixelRatio   float64
	MaxDPR             float64
	WebGL              bool
	WebGL2             bool
	MaxShaderPrecision Precision
	Browser            BrowserFamily
	OS                 OSFamily
}

// String formats the snapshot for logs and the probe CLI.
func (s Snapshot) String() string {
	return fmt.Sprintf("coarse=%t reduced=%t dpr=%.2f maxDpr=%.2f webgl=%t webgl2=%t precision=%s browser=%s os=%s",
		s.CoarsePointer, s.ReducedMotion, s.DevicePixelRatio, s.MaxDPR,
		s.WebGL, s.WebGL2, s.MaxShaderPrecision, s.Browser, s.OS)
}

// Safe is the snapshot used when nothing can be probed.
func Safe() Snapshot {
	return Snapshot{
		CoarsePointer:      true,
		ReducedMotion:      true,
		DevicePixelRatio:   1,
		MaxDPR:             MaxDPRFor(true, true, BrowserOther, OSOther),
		MaxShaderPrecision: PrecisionLow,
	}
}
