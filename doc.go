// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ihero is a capability-aware, lifecycle-safe real-time hero
// renderer.
//
// A hero is mounted into a host page element (see package host) and draws
// a procedural scene whose look follows a progress scalar, derived from
// scroll position or set by gallery navigation. The scene is rendered to an
// offscreen target and composited through a refractive "portal" pass that
// bends around the pointer and ripples on taps.
//
// # Overview
//
// The pieces, leaves first:
//
//   - caps: one synchronous, panic-free capability probe per mount
//   - chapter: progress to blended visual configuration
//   - quality: frame time to quality factor
//   - [Stage]: owns the renderer and runs the per-tick update
//   - [Manager]: at most one live controller per root
//   - the supervisor inside Stage: context loss and repeated failure switch
//     the root to its CSS presentation for good
//
// # Quick Start
//
//	l := ihero.NewLoop(0)
//	go l.Run(ctx)
//
//	m := ihero.NewManager()
//	factory := ihero.NewFactory(doc, caps.HalEnv{}, l, nil)
//	h, err := m.Mount(doc, ihero.RootSelector, factory)
//	if err != nil {
//	    // the root already shows the CSS fallback
//	}
//	defer h.Destroy()
//
// Destroy, Unmount and Teardown reach the stage through Scheduler.Call, so
// they may run on any goroutine except the loop's own.
//
// # Host Channel
//
// The engine talks to the page only through the root element. It writes
// the dataset keys center, status, detail, chapter and quality, and the
// CSS custom properties --ih-scroll, --ih-energy-soft, --ih-energy-burst,
// --ih-hue, --ih-pinch and --ih-quality. It reads ihMode, ihScenes, ihDebug
// and ihComposite from the dataset and the scene and ihDebug query
// parameters from the page location.
//
// # Failure
//
// Nothing in the public API panics. A stage that cannot be built returns an
// [*InitError] and the root shows the CSS fallback. A lost GPU device sets
// the status to css/context-lost at once and destroys the stage one
// microtask later. Rendering is never restored on that root until it is
// mounted again.
package ihero
