package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the ihdemo run description.
type Config struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	DPR      float64 `yaml:"dpr"`
	Frames   int     `yaml:"frames"`
	FPS      int     `yaml:"fps"`
	Mode     string  `yaml:"mode"`     // hero | gallery
	Renderer string  `yaml:"renderer"` // software | gpu
	Scenes   int     `yaml:"scenes"`
	Query    string  `yaml:"query"` // page query string, e.g. "scene=2&ihDebug=1"
	Chapters string  `yaml:"chapters"`

	Output        string `yaml:"output"`
	SnapshotEvery int    `yaml:"snapshot_every"`
	HUD           bool   `yaml:"hud"`

	Script []Step `yaml:"script"`
}

// Step is one scripted host event, applied before frame Frame renders.
// Exactly one action field should be set.
type Step struct {
	Frame int `yaml:"frame"`

	Move     *[2]float64 `yaml:"move,omitempty"`
	Tap      *[2]float64 `yaml:"tap,omitempty"`
	Scroll   float64     `yaml:"scroll,omitempty"`
	ScrollTo *float64    `yaml:"scroll_to,omitempty"` // fraction of the scroll track
	Pinch    float64     `yaml:"pinch,omitempty"`     // zoom delta, 1 is neutral
	Key      string      `yaml:"key,omitempty"`
	Hidden   *bool       `yaml:"hidden,omitempty"`
	Lose     bool        `yaml:"lose_context,omitempty"`
}

// LoadConfig reads a YAML run description and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ihdemo: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, cfg.validate()
}

// DefaultConfig is the run used without a config file.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 480
	}
	if c.Height <= 0 {
		c.Height = 270
	}
	if c.DPR <= 0 {
		c.DPR = 1
	}
	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Mode == "" {
		c.Mode = "hero"
	}
	if c.Renderer == "" {
		c.Renderer = "software"
	}
	if c.Output == "" {
		c.Output = "ihdemo-out"
	}
	if c.SnapshotEvery <= 0 {
		c.SnapshotEvery = 30
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case "hero", "gallery":
	default:
		return fmt.Errorf("ihdemo: unknown mode %q", c.Mode)
	}
	switch c.Renderer {
	case "software", "gpu":
	default:
		return fmt.Errorf("ihdemo: unknown renderer %q", c.Renderer)
	}
	for i, s := range c.Script {
		if s.Frame < 0 || s.Frame >= c.Frames {
			return fmt.Errorf("ihdemo: script step %d: frame %d outside [0,%d)", i, s.Frame, c.Frames)
		}
		if s.Key != "" {
			if _, ok := keyNames[strings.ToLower(s.Key)]; !ok {
				return fmt.Errorf("ihdemo: script step %d: unknown key %q", i, s.Key)
			}
		}
	}
	return nil
}
