package chapter

// Hero returns the built-in scroll-driven chapter table.
// The returned slice is a fresh copy.
func Hero() Table {
	return Table{
		{
			ID: "signal", Variant: "field",
			PaletteHueA: 200, PaletteHueB: 228, Exposure: 1.0, FogDensity: 0.035, CameraDistance: 6.0,
			Motifs:        Motifs{Swirl: 0.55, Sink: 0.10, Interference: 0.20, Detail: 0.35, Curl: 0.15, Orbit: 0.25},
			ParticleCount: 900, LineCount: 24,
		},
		{
			ID: "network", Variant: "lattice",
			PaletteHueA: 214, PaletteHueB: 262, Exposure: 1.05, FogDensity: 0.045, CameraDistance: 5.2,
			Motifs:        Motifs{Swirl: 0.30, Sink: 0.25, Interference: 0.55, Detail: 0.50, Curl: 0.20, Orbit: 0.40},
			ParticleCount: 1400, LineCount: 48,
		},
		{
			ID: "shield", Variant: "shell",
			PaletteHueA: 168, PaletteHueB: 196, Exposure: 0.95, FogDensity: 0.060, CameraDistance: 4.6,
			Motifs:        Motifs{Swirl: 0.15, Sink: 0.60, Interference: 0.30, Detail: 0.70, Curl: 0.35, Orbit: 0.10},
			ParticleCount: 1100, LineCount: 36,
		},
		{
			ID: "cloud", Variant: "field",
			PaletteHueA: 236, PaletteHueB: 290, Exposure: 1.10, FogDensity: 0.030, CameraDistance: 5.8,
			Motifs:        Motifs{Swirl: 0.70, Sink: 0.05, Interference: 0.40, Detail: 0.45, Curl: 0.60, Orbit: 0.55},
			ParticleCount: 1600, LineCount: 30,
		},
		{
			ID: "launch", Variant: "ring",
			PaletteHueA: 262, PaletteHueB: 320, Exposure: 1.20, FogDensity: 0.020, CameraDistance: 7.0,
			Motifs:        Motifs{Swirl: 0.40, Sink: 0.00, Interference: 0.15, Detail: 0.25, Curl: 0.80, Orbit: 0.90},
			ParticleCount: 2000, LineCount: 60,
		},
	}
}

// Gallery returns the built-in table for discrete gallery navigation.
func Gallery() Table {
	return Table{
		{
			ID: "studio", Variant: "coupe",
			PaletteHueA: 210, PaletteHueB: 240, Exposure: 1.0, FogDensity: 0.02, CameraDistance: 5.5,
			Motifs:        Motifs{Swirl: 0.2, Detail: 0.6, Orbit: 0.3},
			ParticleCount: 400, LineCount: 12,
		},
		{
			ID: "coast", Variant: "coupe",
			PaletteHueA: 186, PaletteHueB: 204, Exposure: 1.15, FogDensity: 0.04, CameraDistance: 6.2,
			Motifs:        Motifs{Swirl: 0.45, Sink: 0.1, Interference: 0.2, Detail: 0.4, Curl: 0.2, Orbit: 0.5},
			ParticleCount: 700, LineCount: 18,
		},
		{
			ID: "night", Variant: "roadster",
			PaletteHueA: 250, PaletteHueB: 300, Exposure: 0.85, FogDensity: 0.07, CameraDistance: 4.8,
			Motifs:        Motifs{Swirl: 0.1, Sink: 0.4, Interference: 0.6, Detail: 0.8, Curl: 0.3, Orbit: 0.2},
			ParticleCount: 1200, LineCount: 30,
		},
		{
			ID: "track", Variant: "roadster",
			PaletteHueA: 12, PaletteHueB: 40, Exposure: 1.25, FogDensity: 0.03, CameraDistance: 6.8,
			Motifs:        Motifs{Swirl: 0.6, Interference: 0.3, Detail: 0.5, Curl: 0.7, Orbit: 0.8},
			ParticleCount: 900, LineCount: 42,
		},
	}
}
