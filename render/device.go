// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// DeviceHandle provides GPU device access from the host application.
//
// A host that already renders with wgpu passes its device so the hero shares
// it instead of opening a second one. The renderer borrows the device: it
// releases the resources it created but never destroys the device itself.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// ErrForeignDevice is returned when a DeviceHandle does not carry a wgpu
// hal device and queue.
var ErrForeignDevice = errors.New("render: device handle does not expose a hal device")
