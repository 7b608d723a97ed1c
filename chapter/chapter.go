// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package chapter maps a normalized progress value onto an interpolated
// visual configuration between two adjacent named chapters.
//
// A [Table] is authored as static data (see [Hero] and [Gallery]) or loaded
// from YAML with [LoadFile]. At runtime only two entries and a blend factor
// are live:
//
//	cfg := chapter.Blend(chapter.Hero(), progress)
//	renderer.SetHue(cfg.PaletteHueA)
//
// Blending is affine over a smoothstep-eased factor. Integer fields round
// the interpolated value and discrete fields take the lower chapter's value.
package chapter

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyTable is returned by [Table.Validate] for a table with no chapters.
var ErrEmptyTable = errors.New("chapter: empty table")

// Motifs holds the geometry motif weights of a chapter. Each weight is in [0,1].
type Motifs struct {
	Swirl        float64 `yaml:"swirl"`
	Sink         float64 `yaml:"sink"`
	Interference float64 `yaml:"interference"`
	Detail       float64 `yaml:"detail"`
	Curl         float64 `yaml:"curl"`
	Orbit        float64 `yaml:"orbit"`
}

// Config is one fully specified visual configuration.
type Config struct {
	// ID names the chapter. It is exported to the host dataset.
	ID string `yaml:"id"`

	// Variant selects a discrete scene variant (e.g. a mesh set).
	Variant string `yaml:"variant"`

	PaletteHueA    float64 `yaml:"hue_a"`
	PaletteHueB    float64 `yaml:"hue_b"`
	Exposure       float64 `yaml:"exposure"`
	FogDensity     float64 `yaml:"fog_density"`
	CameraDistance float64 `yaml:"camera_distance"`
	Motifs         Motifs  `yaml:"motifs"`

	ParticleCount int `yaml:"particle_count"`
	LineCount     int `yaml:"line_count"`
}

// Table is an ordered list of chapters spanning progress [0,1].
type Table []Config

// Validate reports whether the table can be blended.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, c := range t {
		nums := []float64{c.PaletteHueA, c.PaletteHueB, c.Exposure, c.FogDensity, c.CameraDistance}
		for _, v := range nums {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("chapter: %q (index %d): non-finite value", c.ID, i)
			}
		}
		for _, w := range c.Motifs.weights() {
			if !(w >= 0 && w <= 1) {
				return fmt.Errorf("chapter: %q (index %d): motif weight %v outside [0,1]", c.ID, i, w)
			}
		}
		if c.ParticleCount < 0 || c.LineCount < 0 {
			return fmt.Errorf("chapter: %q (index %d): negative count", c.ID, i)
		}
	}
	return nil
}

// Index returns the position of the chapter with the given id, or -1.
func (t Table) Index(id string) int {
	for i := range t {
		if t[i].ID == id {
			return i
		}
	}
	return -1
}

func (m Motifs) weights() [6]float64 {
	return [6]float64{m.Swirl, m.Sink, m.Interference, m.Detail, m.Curl, m.Orbit}
}
