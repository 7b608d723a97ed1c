// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hud draws the debug overlay onto preview frames: stage status,
// chapter, progress and the adaptive quality state.
package hud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the overlay font size in pixels.
const DefaultSize = 13

// Info is one frame's worth of diagnostics.
type Info struct {
	Status   string
	Chapter  string
	Progress float64
	Quality  float64
	FrameMs  float64
	Adapter  string
	Frame    int
}

// Lines formats info for the overlay, one fact per line.
func (i Info) Lines() []string {
	lines := []string{
		fmt.Sprintf("status   %s", i.Status),
		fmt.Sprintf("chapter  %s  p=%.3f", i.Chapter, i.Progress),
		fmt.Sprintf("quality  %.2f  %.1fms", i.Quality, i.FrameMs),
	}
	if i.Adapter != "" {
		lines = append(lines, "adapter  "+i.Adapter)
	}
	return append(lines, fmt.Sprintf("frame    %d", i.Frame))
}

// Overlay renders text lines in a translucent panel.
type Overlay struct {
	face       font.Face
	lineHeight int
	ascent     int
	padding    int

	Foreground color.Color
	Background color.Color
}

var (
	monoOnce sync.Once
	monoFont *opentype.Font
	monoErr  error
)

func parsedMono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

// New creates an overlay using Go Mono at size pixels.
func New(size float64) (*Overlay, error) {
	if size <= 0 {
		return nil, errors.New("hud: font size must be positive")
	}
	f, err := parsedMono()
	if err != nil {
		return nil, fmt.Errorf("hud: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("hud: new face: %w", err)
	}
	m := face.Metrics()
	return &Overlay{
		face:       face,
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
		padding:    int(size / 2),
		Foreground: color.RGBA{R: 0xe8, G: 0xf0, B: 0xff, A: 0xff},
		Background: color.RGBA{A: 0xa0},
	}, nil
}

// Bounds returns the panel rectangle for lines, anchored at the top-left
// corner of dst.
func (o *Overlay) Bounds(lines []string) image.Rectangle {
	w := 0
	for _, l := range lines {
		w = max(w, font.MeasureString(o.face, l).Ceil())
	}
	return image.Rect(0, 0, w+2*o.padding, len(lines)*o.lineHeight+2*o.padding)
}

// Draw paints the panel and lines onto dst. Lines that do not fit are
// clipped by dst's bounds.
func (o *Overlay) Draw(dst draw.Image, lines []string) {
	if len(lines) == 0 {
		return
	}
	panel := o.Bounds(lines).Add(dst.Bounds().Min)
	draw.Draw(dst, panel, image.NewUniform(o.Background), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(o.Foreground),
		Face: o.face,
	}
	x := panel.Min.X + o.padding
	y := panel.Min.Y + o.padding + o.ascent
	for _, l := range lines {
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
		y += o.lineHeight
	}
}

// Close releases the font face.
func (o *Overlay) Close() error {
	return o.face.Close()
}
