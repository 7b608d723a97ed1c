package ihero

import (
	"strconv"
	"strings"
)

// Mode selects how progress is driven.
type Mode uint8

const (
	// ModeHero derives progress from the root's scroll geometry.
	ModeHero Mode = iota

	// ModeGallery takes progress from discrete navigation.
	ModeGallery
)

func (m Mode) String() string {
	if m == ModeGallery {
		return "gallery"
	}
	return "hero"
}

// Dataset keys read from the root element.
const (
	keyMode      = "ihMode"
	keyScenes    = "ihScenes"
	keyDebug     = "ihDebug"
	keyComposite = "ihComposite"
)

// maxScenes bounds the ihScenes dataset value.
const maxScenes = 64

// Config is the typed form of the root dataset.
type Config struct {
	Mode Mode

	// Scenes limits the number of gallery scenes. Zero uses the whole
	// chapter table.
	Scenes int

	Debug bool

	// Composite enables the two-pass portal path. Quality may still
	// disable it per frame.
	Composite bool
}

// DefaultConfig is the configuration of a root with no ih* dataset keys.
func DefaultConfig() Config {
	return Config{Mode: ModeHero, Composite: true}
}

// Dataset is the read side of a root's data attributes.
type Dataset interface {
	Dataset(key string) (string, bool)
}

// ParseConfig reads the configuration from ds. Each field is parsed on its
// own: malformed values fall back to the default and numbers are clamped.
func ParseConfig(ds Dataset) Config {
	cfg := DefaultConfig()
	if v, ok := ds.Dataset(keyMode); ok {
		cfg.Mode = parseMode(v, cfg.Mode)
	}
	if v, ok := ds.Dataset(keyScenes); ok {
		cfg.Scenes = parseScenes(v, cfg.Scenes)
	}
	if v, ok := ds.Dataset(keyDebug); ok {
		cfg.Debug = parseFlag(v, cfg.Debug)
	}
	if v, ok := ds.Dataset(keyComposite); ok {
		cfg.Composite = parseFlag(v, cfg.Composite)
	}
	return cfg
}

func parseMode(s string, fallback Mode) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hero":
		return ModeHero
	case "gallery":
		return ModeGallery
	default:
		slogger().Debug("ihero: unknown mode, using default", "value", s, "default", fallback)
		return fallback
	}
}

func parseScenes(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return min(max(n, 0), maxScenes)
}

// parseFlag accepts the usual boolean spellings. An empty attribute, as
// written by <div data-ih-debug>, means true.
func parseFlag(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
