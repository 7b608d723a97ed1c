// Package gpu renders the hero scene through the wgpu hal layer.
//
// A frame is two render passes. The scene pass draws the procedural hero
// model into an offscreen color target with a depth attachment. The portal
// pass draws a fullscreen triangle that samples the scene through a radial
// lens and up to three ripples. When the adapter can sample depth, the
// portal variant also reads the depth target so near geometry bends more.
// Frames that disable the composite skip the portal pass and draw the scene
// straight to the output.
//
// The renderer either opens a device on the best registered backend or
// borrows one from the host through [render.DeviceHandle]. A borrowed
// device is never destroyed.
package gpu
