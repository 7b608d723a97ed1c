package render

import "strings"

// Part is the material class of a named scene mesh part.
type Part uint8

const (
	PartUnknown Part = iota
	PartBody
	PartGlass
	PartWheel
	PartTrim
	PartLight
	PartInterior
)

var partNames = [...]string{"unknown", "body", "glass", "wheel", "trim", "light", "interior"}

func (p Part) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return "unknown"
}

// Material is the flat shading description of a part.
type Material struct {
	// Color is linear RGBA.
	Color [4]float32

	// Metalness and Roughness feed the scene shader's specular term.
	Metalness float32
	Roughness float32

	// Emissive adds to the lit color; lights use it.
	Emissive float32
}

// DefaultMaterials maps every part to its material. PartUnknown maps to a
// neutral grey so unclassified parts stay visible.
var DefaultMaterials = map[Part]Material{
	PartUnknown:  {Color: [4]float32{0.5, 0.5, 0.5, 1}, Roughness: 0.8},
	PartBody:     {Color: [4]float32{0.62, 0.64, 0.70, 1}, Metalness: 0.9, Roughness: 0.25},
	PartGlass:    {Color: [4]float32{0.10, 0.14, 0.18, 0.35}, Metalness: 0.1, Roughness: 0.05},
	PartWheel:    {Color: [4]float32{0.08, 0.08, 0.09, 1}, Metalness: 0.2, Roughness: 0.7},
	PartTrim:     {Color: [4]float32{0.80, 0.80, 0.82, 1}, Metalness: 1, Roughness: 0.15},
	PartLight:    {Color: [4]float32{1, 0.95, 0.85, 1}, Roughness: 0.3, Emissive: 1.5},
	PartInterior: {Color: [4]float32{0.18, 0.15, 0.13, 1}, Roughness: 0.9},
}

// partKeywords is checked in order; the first match wins. "light" is tested
// before "body" so a "body_light" part is a light.
var partKeywords = []struct {
	part  Part
	words []string
}{
	{PartLight, []string{"light", "lamp", "led", "headlight", "taillight"}},
	{PartGlass, []string{"glass", "window", "windshield", "windscreen"}},
	{PartWheel, []string{"wheel", "tire", "tyre", "rim"}},
	{PartInterior, []string{"interior", "seat", "dash", "steering", "cabin"}},
	{PartTrim, []string{"trim", "chrome", "grille", "mirror", "badge"}},
	{PartBody, []string{"body", "paint", "hood", "door", "panel", "shell"}},
}

// ClassifyPart maps a mesh part name to its material class by keyword,
// ignoring case. Names that match nothing are PartUnknown.
func ClassifyPart(name string) Part {
	n := strings.ToLower(name)
	for _, k := range partKeywords {
		for _, w := range k.words {
			if strings.Contains(n, w) {
				return k.part
			}
		}
	}
	return PartUnknown
}

// MaterialFor returns the default material for a part name.
func MaterialFor(name string) Material {
	return DefaultMaterials[ClassifyPart(name)]
}
