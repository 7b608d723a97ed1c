package ihero

import (
	"strconv"

	"github.com/gogpu/ihero/host"
)

// CSS custom properties exported on the root.
const (
	VarScroll      = "--ih-scroll"
	VarEnergySoft  = "--ih-energy-soft"
	VarEnergyBurst = "--ih-energy-burst"
	VarHue         = "--ih-hue"
	VarPinch       = "--ih-pinch"
	VarQuality     = "--ih-quality"
)

// varWriter writes root properties and dataset keys, skipping writes of
// unchanged values. Numbers are formatted with four decimals so that
// sub-visible jitter does not cause a style recalculation.
type varWriter struct {
	root  host.Root
	props map[string]string
	data  map[string]string
}

func newVarWriter(root host.Root) *varWriter {
	return &varWriter{
		root:  root,
		props: make(map[string]string),
		data:  make(map[string]string),
	}
}

func formatVar(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// set writes a numeric property and reports whether it changed.
func (w *varWriter) set(name string, v float64) bool {
	s := formatVar(v)
	if prev, ok := w.props[name]; ok && prev == s {
		return false
	}
	w.props[name] = s
	w.root.SetProperty(name, s)
	return true
}

// dataset writes a dataset key and reports whether it changed.
func (w *varWriter) dataset(key, v string) bool {
	if prev, ok := w.data[key]; ok && prev == v {
		return false
	}
	w.data[key] = v
	w.root.SetDataset(key, v)
	return true
}

// qualityTier names a quality factor for the dataset.
func qualityTier(factor, compositeThreshold float64) string {
	switch {
	case factor >= 0.95:
		return "high"
	case factor >= compositeThreshold:
		return "medium"
	default:
		return "low"
	}
}
