package host

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

var rootSeq atomic.Uint64

// Memory is an in-memory Document.
type Memory struct {
	mu    sync.Mutex
	url   string
	roots map[string]*MemoryRoot
}

// NewMemory creates an empty document at url.
func NewMemory(url string) *Memory {
	return &Memory{url: url, roots: make(map[string]*MemoryRoot)}
}

// Query returns the root registered for selector.
func (d *Memory) Query(selector string) (Root, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.roots[selector]
	if !ok {
		return nil, false
	}
	return r, true
}

// Location returns the document URL.
func (d *Memory) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// Navigate changes the URL, as a client-side page transition would.
func (d *Memory) Navigate(url string) {
	d.mu.Lock()
	d.url = url
	d.mu.Unlock()
}

// Add registers root under selector, replacing any previous root.
func (d *Memory) Add(selector string, root *MemoryRoot) {
	d.mu.Lock()
	d.roots[selector] = root
	d.mu.Unlock()
}

// Remove unregisters the root under selector.
func (d *Memory) Remove(selector string) {
	d.mu.Lock()
	delete(d.roots, selector)
	d.mu.Unlock()
}

// MemoryRoot is an in-memory Root. It is safe for concurrent use.
type MemoryRoot struct {
	id string

	mu        sync.Mutex
	dataset   map[string]string
	props     map[string]string
	canvases  map[string]*MemoryCanvas
	geometry  Geometry
	listeners map[EventKind]map[uint64]func(Event)
	nextLID   uint64
}

// NewMemoryRoot creates a root with a unique id.
func NewMemoryRoot() *MemoryRoot {
	return &MemoryRoot{
		id:        fmt.Sprintf("root-%d", rootSeq.Add(1)),
		dataset:   make(map[string]string),
		props:     make(map[string]string),
		canvases:  make(map[string]*MemoryCanvas),
		listeners: make(map[EventKind]map[uint64]func(Event)),
	}
}

func (r *MemoryRoot) ID() string { return r.id }

func (r *MemoryRoot) Dataset(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.dataset[key]
	return v, ok
}

func (r *MemoryRoot) SetDataset(key, value string) {
	r.mu.Lock()
	r.dataset[key] = value
	r.mu.Unlock()
}

// Property returns a CSS custom property written by the engine.
func (r *MemoryRoot) Property(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.props[name]
	return v, ok
}

func (r *MemoryRoot) SetProperty(name, value string) {
	r.mu.Lock()
	r.props[name] = value
	r.mu.Unlock()
}

// AddCanvas attaches a canvas child under selector.
func (r *MemoryRoot) AddCanvas(selector string, c *MemoryCanvas) {
	r.mu.Lock()
	r.canvases[selector] = c
	r.mu.Unlock()
}

func (r *MemoryRoot) Canvas(selector string) (Canvas, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvases[selector]
	if !ok {
		return nil, false
	}
	return c, true
}

func (r *MemoryRoot) Geometry() Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geometry
}

// SetGeometry replaces the scroll geometry.
func (r *MemoryRoot) SetGeometry(g Geometry) {
	r.mu.Lock()
	r.geometry = g
	r.mu.Unlock()
}

func (r *MemoryRoot) Listen(kind EventKind, fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLID++
	id := r.nextLID
	if r.listeners[kind] == nil {
		r.listeners[kind] = make(map[uint64]func(Event))
	}
	r.listeners[kind][id] = fn
	return func() {
		r.mu.Lock()
		delete(r.listeners[kind], id)
		r.mu.Unlock()
	}
}

// ListenerCount returns the number of attached listeners for kind, or for
// every kind when kind is empty.
func (r *MemoryRoot) ListenerCount(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind != "" {
		return len(r.listeners[kind])
	}
	n := 0
	for _, m := range r.listeners {
		n += len(m)
	}
	return n
}

// Dispatch delivers ev to its listeners synchronously, in attach order.
func (r *MemoryRoot) Dispatch(ev Event) {
	r.mu.Lock()
	m := r.listeners[ev.Kind]
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m[id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// MemoryCanvas is an in-memory Canvas.
type MemoryCanvas struct {
	mu         sync.Mutex
	w, h       int
	bufW, bufH int
}

// NewMemoryCanvas creates a canvas with the given CSS size.
func NewMemoryCanvas(width, height int) *MemoryCanvas {
	return &MemoryCanvas{w: width, h: height}
}

func (c *MemoryCanvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// SetSize changes the CSS size, as a layout change would.
func (c *MemoryCanvas) SetSize(width, height int) {
	c.mu.Lock()
	c.w, c.h = width, height
	c.mu.Unlock()
}

func (c *MemoryCanvas) SetDrawingBufferSize(width, height int) {
	c.mu.Lock()
	c.bufW, c.bufH = width, height
	c.mu.Unlock()
}

// DrawingBufferSize returns the last size set by the engine.
func (c *MemoryCanvas) DrawingBufferSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bufW, c.bufH
}
