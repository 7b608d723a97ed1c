// Package host abstracts the page the hero engine is mounted into.
//
// The engine's only public surface on the page is the root element: it
// reads and writes string dataset entries, writes CSS custom properties,
// reads scroll geometry and listens for events. It never touches any other
// page structure. [Memory] implements the interfaces in memory; package
// rodhost implements them against a live browser page.
package host

import "github.com/gogpu/gpucontext"

// Document is the page a root is looked up in.
type Document interface {
	// Query returns the first root matching selector.
	Query(selector string) (Root, bool)

	// Location returns the page URL, used for query-parameter flags.
	Location() string
}

// Root is a mount point element.
type Root interface {
	// ID is a stable identity for the element, used as a registry key.
	ID() string

	// Dataset reads a data-* attribute by its camelCase key.
	Dataset(key string) (string, bool)

	// SetDataset writes a data-* attribute.
	SetDataset(key, value string)

	// SetProperty writes a CSS custom property such as "--ih-scroll".
	SetProperty(name, value string)

	// Canvas returns the canvas child matching selector.
	Canvas(selector string) (Canvas, bool)

	// Geometry returns the current scroll and viewport geometry.
	Geometry() Geometry

	// Listen attaches fn for events of kind and returns its remover.
	Listen(kind EventKind, fn func(Event)) (remove func())
}

// Canvas is the drawing surface inside a root.
type Canvas interface {
	// Size returns the CSS size in pixels.
	Size() (width, height int)

	// SetDrawingBufferSize sets the backing store size in device pixels.
	SetDrawingBufferSize(width, height int)
}

// Geometry is the scroll geometry needed to derive progress.
type Geometry struct {
	// ScrollY is the document scroll offset.
	ScrollY float64

	// RootTop is the root's top edge in document coordinates.
	RootTop float64

	// RootHeight is the root's height, which spans the scroll track.
	RootHeight float64

	// ViewportHeight is the layout viewport height.
	ViewportHeight float64

	// VisualHeight is the visual viewport height, or 0 when unknown.
	VisualHeight float64

	// ViewportWidth is the layout viewport width.
	ViewportWidth float64
}

// EventKind names an event stream.
type EventKind string

const (
	EventPointer      EventKind = "pointer"
	EventGesture      EventKind = "gesture"
	EventScroll       EventKind = "scroll"
	EventKey          EventKind = "key"
	EventResize       EventKind = "resize"
	EventVisibility   EventKind = "visibility"
	EventIntersection EventKind = "intersection"
	EventContextLost  EventKind = "contextlost"
)

// Event is one host event. Only the field matching Kind is meaningful.
type Event struct {
	Kind    EventKind
	Pointer gpucontext.PointerEvent
	Gesture gpucontext.GestureEvent
	Scroll  gpucontext.ScrollEvent
	Key     gpucontext.Key

	// Visible carries visibility and intersection state.
	Visible bool
}
