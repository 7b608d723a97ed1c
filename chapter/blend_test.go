package chapter

import (
	"math"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		progress float64
		cur      int
		next     int
		localT   float64
	}{
		{"start", 4, 0, 0, 1, 0},
		{"quarter boundary", 4, 0.25, 1, 2, 0},
		{"mid first", 4, 0.125, 0, 1, 0.5},
		{"end", 4, 1, 3, 3, 0},
		{"above one", 4, 1.7, 3, 3, 0},
		{"negative", 4, -0.3, 0, 1, 0},
		{"NaN", 4, math.NaN(), 0, 1, 0},
		{"two chapters half", 2, 0.5, 1, 1, 0},
		{"single chapter", 1, 0.6, 0, 0, 0.6},
		{"empty", 0, 0.5, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, next, localT := Resolve(tt.n, tt.progress)
			if cur != tt.cur || next != tt.next {
				t.Errorf("Resolve(%d, %v) = (%d, %d), want (%d, %d)", tt.n, tt.progress, cur, next, tt.cur, tt.next)
			}
			if math.Abs(localT-tt.localT) > 1e-12 {
				t.Errorf("Resolve(%d, %v) localT = %v, want %v", tt.n, tt.progress, localT, tt.localT)
			}
		})
	}
}

func TestBlendTwoChapterHalfway(t *testing.T) {
	table := Table{{ID: "a", PaletteHueA: 200}, {ID: "b", PaletteHueA: 260}}

	got := Blend(table, 0.5)
	if got.PaletteHueA != 260 {
		t.Errorf("Blend(2 chapters, 0.5).PaletteHueA = %v, want 260", got.PaletteHueA)
	}
	if got.ID != "b" {
		t.Errorf("Blend(2 chapters, 0.5).ID = %q, want %q", got.ID, "b")
	}
}

func TestBlendBoundaries(t *testing.T) {
	for _, table := range []Table{Hero(), Gallery()} {
		if got := Blend(table, 0); got != table[0] {
			t.Errorf("Blend(table, 0) = %+v, want %+v", got, table[0])
		}
		last := table[len(table)-1]
		if got := Blend(table, 1); got != last {
			t.Errorf("Blend(table, 1) = %+v, want %+v", got, last)
		}
	}
}

func TestBlendNoOvershoot(t *testing.T) {
	table := Hero()
	const eps = 1e-9
	within := func(v, a, b float64) bool {
		lo, hi := math.Min(a, b), math.Max(a, b)
		return v >= lo-eps && v <= hi+eps
	}

	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		cur, next, _ := Resolve(len(table), p)
		a, b := table[cur], table[next]
		got := Blend(table, p)

		fields := []struct {
			name    string
			v, a, b float64
		}{
			{"PaletteHueA", got.PaletteHueA, a.PaletteHueA, b.PaletteHueA},
			{"PaletteHueB", got.PaletteHueB, a.PaletteHueB, b.PaletteHueB},
			{"Exposure", got.Exposure, a.Exposure, b.Exposure},
			{"FogDensity", got.FogDensity, a.FogDensity, b.FogDensity},
			{"CameraDistance", got.CameraDistance, a.CameraDistance, b.CameraDistance},
			{"Swirl", got.Motifs.Swirl, a.Motifs.Swirl, b.Motifs.Swirl},
			{"Sink", got.Motifs.Sink, a.Motifs.Sink, b.Motifs.Sink},
			{"Interference", got.Motifs.Interference, a.Motifs.Interference, b.Motifs.Interference},
			{"Detail", got.Motifs.Detail, a.Motifs.Detail, b.Motifs.Detail},
			{"Curl", got.Motifs.Curl, a.Motifs.Curl, b.Motifs.Curl},
			{"Orbit", got.Motifs.Orbit, a.Motifs.Orbit, b.Motifs.Orbit},
			{"ParticleCount", float64(got.ParticleCount), float64(a.ParticleCount), float64(b.ParticleCount)},
			{"LineCount", float64(got.LineCount), float64(a.LineCount), float64(b.LineCount)},
		}
		for _, f := range fields {
			if !within(f.v, f.a, f.b) {
				t.Fatalf("Blend(%v).%s = %v, outside [%v, %v]", p, f.name, f.v, f.a, f.b)
			}
		}
	}
}

func TestBlendIntegerRounding(t *testing.T) {
	table := Table{{ParticleCount: 0, LineCount: 10}, {ParticleCount: 3, LineCount: 11}}
	// progress 0.25 puts localT at 0.5 of the first segment; smoothstep(0.5) = 0.5.
	got := Blend(table, 0.25)
	if got.ParticleCount != 2 {
		t.Errorf("ParticleCount = %d, want 2 (round of 1.5)", got.ParticleCount)
	}
	if got.LineCount != 11 {
		t.Errorf("LineCount = %d, want 11 (round of 10.5)", got.LineCount)
	}
}

func TestBlendDiscreteNearestLower(t *testing.T) {
	table := Table{{ID: "a", Variant: "x"}, {ID: "b", Variant: "y"}, {ID: "c", Variant: "z"}}
	got := Blend(table, 0.3) // index 0, localT 0.9
	if got.Variant != "x" || got.ID != "a" {
		t.Errorf("Blend(0.3) = (%q, %q), want (a, x)", got.ID, got.Variant)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {2, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(tt.in); got != tt.want {
			t.Errorf("Smoothstep(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := Smoothstep(float64(i) / 100)
		if v < prev {
			t.Fatalf("Smoothstep not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestBlendEmpty(t *testing.T) {
	if got := Blend(nil, 0.5); got != (Config{}) {
		t.Errorf("Blend(nil) = %+v, want zero", got)
	}
}

func TestBlendScenesLandsOnEveryChapter(t *testing.T) {
	table := Gallery()
	n := len(table)
	step := 1.0 / float64(n-1)
	for i, want := range table {
		for _, p := range []float64{float64(i) * step, float64(i) / float64(n-1)} {
			if got := BlendScenes(table, p); got != want {
				t.Errorf("BlendScenes(%v) = %s hue %v, want %s hue %v", p, got.ID, got.PaletteHueA, want.ID, want.PaletteHueA)
			}
		}
	}
}

func TestBlendScenesBetweenScenes(t *testing.T) {
	table := Gallery()
	step := 1.0 / float64(len(table)-1)

	got := BlendScenes(table, 1.5*step)
	if got.ID != "coast" {
		t.Errorf("BlendScenes(1.5 scenes).ID = %q, want coast", got.ID)
	}
	if want := (186.0 + 250.0) / 2; math.Abs(got.PaletteHueA-want) > 1e-9 {
		t.Errorf("BlendScenes(1.5 scenes).PaletteHueA = %v, want %v", got.PaletteHueA, want)
	}
}

func TestBlendScenesEdges(t *testing.T) {
	if got := BlendScenes(nil, 0.5); got != (Config{}) {
		t.Errorf("BlendScenes(nil) = %+v, want zero", got)
	}
	one := Table{{ID: "solo", PaletteHueA: 40}}
	for _, p := range []float64{0, 0.5, 1} {
		if got := BlendScenes(one, p); got != one[0] {
			t.Errorf("BlendScenes(single, %v) = %+v, want %+v", p, got, one[0])
		}
	}
	table := Gallery()
	if got := BlendScenes(table, 2); got != table[len(table)-1] {
		t.Errorf("BlendScenes(2).ID = %q, want %q", got.ID, table[len(table)-1].ID)
	}
}
