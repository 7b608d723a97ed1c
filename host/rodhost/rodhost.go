// Package rodhost implements the host interfaces against a live browser
// page driven by go-rod.
//
// Element reads and writes go through Runtime.callFunctionOn. Events come
// back through a CDP runtime binding: the page posts JSON payloads which a
// goroutine decodes and dispatches to the listeners of the matching root.
// Listeners run on that goroutine; hosts that drive a stage must forward
// them to the stage's scheduler.
package rodhost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/gogpu/ihero"
	"github.com/gogpu/ihero/host"
)

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger for evaluation failures and dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.log = l
		}
	}
}

// Page is a host.Document backed by a rod page.
type Page struct {
	page *rod.Page
	log  *slog.Logger

	mu        sync.Mutex
	listeners map[string]map[host.EventKind]map[uint64]func(host.Event)
	nextID    uint64

	cancel context.CancelFunc
	done   chan struct{}
}

var _ host.Document = (*Page)(nil)

// New binds to page and starts the event goroutine. It stops when ctx is
// done or Close is called.
func New(ctx context.Context, page *rod.Page, opts ...Option) (*Page, error) {
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(page); err != nil {
		return nil, fmt.Errorf("rodhost: add binding: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Page{
		page:      page,
		log:       slog.New(slog.DiscardHandler),
		listeners: make(map[string]map[host.EventKind]map[uint64]func(host.Event)),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	wait := page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name == bindingName {
			p.deliver(e.Payload)
		}
	})
	go func() {
		defer close(p.done)
		wait()
	}()
	return p, nil
}

// Close stops the event goroutine and drops every listener.
func (p *Page) Close() {
	p.cancel()
	<-p.done
	p.mu.Lock()
	clear(p.listeners)
	p.mu.Unlock()
}

// Query returns the first element matching selector.
func (p *Page) Query(selector string) (host.Root, bool) {
	has, el, err := p.page.Has(selector)
	if err != nil {
		p.log.Debug("rodhost: query failed", "selector", selector, "err", err)
		return nil, false
	}
	if !has {
		return nil, false
	}
	res, err := el.Eval(jsRootID)
	if err != nil {
		p.log.Debug("rodhost: root id failed", "selector", selector, "err", err)
		return nil, false
	}
	return &Root{page: p, el: el, id: res.Value.Str()}, true
}

// Location returns the page URL.
func (p *Page) Location() string {
	info, err := p.page.Info()
	if err != nil {
		p.log.Debug("rodhost: page info failed", "err", err)
		return ""
	}
	return info.URL
}

func (p *Page) listen(root string, kind host.EventKind, fn func(host.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	kinds := p.listeners[root]
	if kinds == nil {
		kinds = make(map[host.EventKind]map[uint64]func(host.Event))
		p.listeners[root] = kinds
	}
	if kinds[kind] == nil {
		kinds[kind] = make(map[uint64]func(host.Event))
	}
	kinds[kind][id] = fn
	return func() {
		p.mu.Lock()
		delete(p.listeners[root][kind], id)
		p.mu.Unlock()
	}
}

func (p *Page) deliver(data string) {
	root, ev, err := decodeEvent(data)
	if err != nil {
		p.log.Debug("rodhost: event dropped", "err", err)
		return
	}
	p.mu.Lock()
	fns := make([]func(host.Event), 0, len(p.listeners[root][ev.Kind]))
	for _, fn := range p.listeners[root][ev.Kind] {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Root is a host.Root backed by a page element.
type Root struct {
	page *Page
	el   *rod.Element
	id   string

	installOnce sync.Once
}

var _ host.Root = (*Root)(nil)

func (r *Root) ID() string { return r.id }

func (r *Root) Dataset(key string) (string, bool) {
	res, err := r.el.Eval(jsGetDataset, key)
	if err != nil {
		r.page.log.Debug("rodhost: dataset read failed", "key", key, "err", err)
		return "", false
	}
	if res.Value.Nil() {
		return "", false
	}
	return res.Value.Str(), true
}

func (r *Root) SetDataset(key, value string) {
	if _, err := r.el.Eval(jsSetDataset, key, value); err != nil {
		r.page.log.Debug("rodhost: dataset write failed", "key", key, "err", err)
	}
}

func (r *Root) SetProperty(name, value string) {
	if _, err := r.el.Eval(jsSetProperty, name, value); err != nil {
		r.page.log.Debug("rodhost: property write failed", "name", name, "err", err)
	}
}

func (r *Root) Canvas(selector string) (host.Canvas, bool) {
	has, el, err := r.el.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return &Canvas{el: el, log: r.page.log}, true
}

func (r *Root) Geometry() host.Geometry {
	res, err := r.el.Eval(jsGeometry)
	if err != nil {
		r.page.log.Debug("rodhost: geometry failed", "err", err)
		return host.Geometry{}
	}
	v := res.Value
	return host.Geometry{
		ScrollY:        v.Get("scrollY").Num(),
		RootTop:        v.Get("rootTop").Num(),
		RootHeight:     v.Get("rootHeight").Num(),
		ViewportHeight: v.Get("viewportHeight").Num(),
		VisualHeight:   v.Get("visualHeight").Num(),
		ViewportWidth:  v.Get("viewportWidth").Num(),
	}
}

// Listen installs the page-side event streams on first use.
func (r *Root) Listen(kind host.EventKind, fn func(host.Event)) func() {
	r.installOnce.Do(func() {
		if _, err := r.el.Eval(jsInstall, r.id, ihero.CanvasSelector); err != nil {
			r.page.log.Warn("rodhost: event install failed", "root", r.id, "err", err)
		}
	})
	return r.page.listen(r.id, kind, fn)
}

// Canvas is a host.Canvas backed by a canvas element.
type Canvas struct {
	el  *rod.Element
	log *slog.Logger
}

var _ host.Canvas = (*Canvas)(nil)

func (c *Canvas) Size() (int, int) {
	res, err := c.el.Eval(jsCanvasSize)
	if err != nil {
		c.log.Debug("rodhost: canvas size failed", "err", err)
		return 0, 0
	}
	arr := res.Value.Arr()
	if len(arr) != 2 {
		return 0, 0
	}
	return arr[0].Int(), arr[1].Int()
}

func (c *Canvas) SetDrawingBufferSize(width, height int) {
	if _, err := c.el.Eval(jsSetBufferSize, width, height); err != nil {
		c.log.Debug("rodhost: buffer resize failed", "err", err)
	}
}
