// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the frame contract between the hero stage and the
// renderers that draw it.
//
// The stage computes every derived value once per tick (damped input,
// progress, blended chapter, quality factor, energy, ripples) and hands a
// [Frame] to a [Renderer]. Renderers own their GPU or CPU resources
// exclusively and never read stage state directly.
//
// # Renderer Implementations
//
//   - internal/gpu.Renderer: wgpu hal, two-pass portal composite
//   - [SoftwareRenderer]: CPU preview into an *image.RGBA, used by the
//     headless demo and tests
//
// # Device Injection
//
// A host that already owns a GPU device passes it as a [DeviceHandle]
// (an alias of gpucontext.DeviceProvider). The renderer then borrows the
// device and never destroys it. Without a handle the renderer opens and
// owns its own device.
package render
