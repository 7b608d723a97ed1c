package chapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of a chapter table.
//
//	chapters:
//	  - id: signal
//	    hue_a: 200
//	    hue_b: 228
//	    motifs: {swirl: 0.5}
type file struct {
	Chapters Table `yaml:"chapters"`
}

// LoadFile reads a YAML chapter table and validates it.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML chapter table. Missing exposure and camera distance
// take neutral defaults. The result is validated.
func Parse(data []byte) (Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("chapter: parse: %w", err)
	}
	f.applyDefaults()
	if err := f.Chapters.Validate(); err != nil {
		return nil, err
	}
	return f.Chapters, nil
}

func (f *file) applyDefaults() {
	for i := range f.Chapters {
		c := &f.Chapters[i]
		if c.ID == "" {
			c.ID = fmt.Sprintf("chapter-%d", i)
		}
		if c.Exposure == 0 {
			c.Exposure = 1
		}
		if c.CameraDistance == 0 {
			c.CameraDistance = 6
		}
	}
}
