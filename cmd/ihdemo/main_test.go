package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "run.yaml", "frames: 10\nmode: gallery\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Frames != 10 || cfg.Mode != "gallery" {
		t.Errorf("LoadConfig() = %+v, want 10 gallery frames", cfg)
	}
	if cfg.Width != 480 || cfg.Height != 270 || cfg.Renderer != "software" || cfg.FPS != 60 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "frames: [", "parse"},
		{"bad mode", "mode: carousel\n", "unknown mode"},
		{"bad renderer", "renderer: raytracer\n", "unknown renderer"},
		{"step out of range", "frames: 5\nscript:\n  - frame: 9\n    scroll: 10\n", "outside"},
		{"bad key", "script:\n  - frame: 1\n    key: tab\n", "unknown key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "run.yaml", tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.want)
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file succeeded")
	}
}

func smallConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 96, 54
	cfg.Frames = 60
	cfg.Output = t.TempDir()
	cfg.HUD = true
	return cfg
}

func TestRunWritesSnapshots(t *testing.T) {
	cfg := smallConfig(t)
	half := 0.5
	cfg.Script = []Step{
		{Frame: 20, Tap: &[2]float64{48, 27}},
		{Frame: 0, ScrollTo: &half},
		{Frame: 30, Pinch: 1.2},
	}

	res, err := run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if res.frames != 60 || res.snapshots != 2 {
		t.Errorf("run() = %+v, want 60 frames and 2 snapshots", res)
	}
	if res.status != "webgl/ok" {
		t.Errorf("status = %q, want webgl/ok", res.status)
	}
	for _, name := range []string{"frame-0030.png", "frame-0060.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Output, name)); err != nil {
			t.Errorf("snapshot %s: %v", name, err)
		}
	}
}

func TestRunContextLoss(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Script = []Step{{Frame: 5, Lose: true}}

	res, err := run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(res.status, "css/context-lost") {
		t.Errorf("status = %q, want css/context-lost", res.status)
	}
	if res.snapshots != 0 {
		t.Errorf("snapshots = %d after context loss, want 0", res.snapshots)
	}
}

func TestRunGalleryChapters(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Mode = "gallery"
	cfg.Query = "scene=1"
	cfg.Chapters = writeFile(t, "chapters.yaml", "chapters:\n  - id: one\n  - id: two\n  - id: three\n")
	cfg.Script = []Step{{Frame: 10, Key: "Right"}}

	res, err := run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if res.status != "webgl/ok" {
		t.Errorf("status = %q, want webgl/ok", res.status)
	}
}

func TestPlayerOrdersSteps(t *testing.T) {
	p := newPlayer(nil, []Step{{Frame: 9}, {Frame: 2}, {Frame: 5}}, 100)
	for i, want := range []int{2, 5, 9} {
		if p.steps[i].Frame != want {
			t.Errorf("steps[%d].Frame = %d, want %d", i, p.steps[i].Frame, want)
		}
	}
}
