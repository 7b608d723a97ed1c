package ihero

import (
	"fmt"
	"sync"

	"github.com/gogpu/ihero/host"
)

// Disposer tears down a mounted controller. The manager calls it at most
// once.
type Disposer func()

// Factory builds the controller of a root. A nil Disposer with a nil error
// means there is nothing to mount, as when the root opts out or the CSS
// fallback was chosen up front.
type Factory func(root host.Root) (Disposer, error)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithUnmountHook registers fn to run after each disposer, with the id of
// the root that was unmounted.
func WithUnmountHook(fn func(rootID string)) ManagerOption {
	return func(m *Manager) { m.onUnmount = fn }
}

// Manager keeps at most one live controller per root across page
// navigations. It replaces page-global "already mounted" flags with an
// explicit registry keyed by root identity.
//
// Factories and disposers run with the manager locked; they must not call
// back into it.
type Manager struct {
	mu         sync.Mutex
	entries    map[string]*mountEntry
	bySelector map[string]string
	gen        uint64
	onUnmount  func(rootID string)
}

type mountEntry struct {
	root    host.Root
	gen     uint64
	once    sync.Once
	dispose Disposer
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		entries:    make(map[string]*mountEntry),
		bySelector: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle refers to one mount. The zero Handle refers to nothing.
type Handle struct {
	m   *Manager
	id  string
	gen uint64
}

// Destroy unmounts the controller this handle refers to. It is idempotent
// and does nothing once the root was remounted.
func (h Handle) Destroy() {
	if h.m == nil {
		return
	}
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if e, ok := h.m.entries[h.id]; ok && e.gen == h.gen {
		h.m.unmountLocked(h.id)
	}
}

// Live reports whether the mount is still active.
func (h Handle) Live() bool {
	if h.m == nil {
		return false
	}
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	e, ok := h.m.entries[h.id]
	return ok && e.gen == h.gen
}

// RootID returns the id of the mounted root, or "" for the zero Handle.
func (h Handle) RootID() string { return h.id }

// Mount attaches a controller built by factory to the root matching
// selector in doc.
//
// A missing root is not an error: the zero Handle is returned. If the
// selector previously matched a different root, that root is unmounted
// first. Mounting a root that already has a live controller is a no-op
// that returns the existing handle. A factory error or panic is logged and
// returned; the root stays unmounted.
func (m *Manager) Mount(doc host.Document, selector string, factory Factory) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	root, ok := doc.Query(selector)
	prev, had := m.bySelector[selector]
	if !ok {
		if had {
			m.unmountLocked(prev)
			delete(m.bySelector, selector)
		}
		slogger().Debug("ihero: no root, mount skipped", "selector", selector)
		return Handle{}, nil
	}

	id := root.ID()
	if had && prev != id {
		slogger().Info("ihero: root changed, remounting", "selector", selector, "old", prev, "new", id)
		m.unmountLocked(prev)
	}
	m.bySelector[selector] = id

	if e, ok := m.entries[id]; ok {
		return Handle{m: m, id: id, gen: e.gen}, nil
	}

	dispose, err := runFactory(factory, root)
	if err != nil {
		slogger().Warn("ihero: mount failed", "root", id, "err", err)
		return Handle{}, err
	}
	if dispose == nil {
		slogger().Info("ihero: nothing to mount", "root", id)
		return Handle{}, nil
	}

	m.gen++
	m.entries[id] = &mountEntry{root: root, gen: m.gen, dispose: dispose}
	slogger().Info("ihero: mounted", "root", id, "selector", selector)
	return Handle{m: m, id: id, gen: m.gen}, nil
}

// runFactory calls factory, converting a panic into an error.
func runFactory(factory Factory, root host.Root) (d Disposer, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("ihero: factory panicked: %v", r)
		}
	}()
	return factory(root)
}

// Unmount tears down the controller of root, if any.
func (m *Manager) Unmount(root host.Root) {
	if root == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmountLocked(root.ID())
}

// Teardown unmounts every root. Hosts call it on page navigation.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.entries {
		m.unmountLocked(id)
	}
	clear(m.bySelector)
}

// Live returns the number of live controllers.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) unmountLocked(id string) {
	e, ok := m.entries[id]
	if !ok {
		return
	}
	delete(m.entries, id)
	e.once.Do(func() {
		safeRelease("controller", e.dispose)
	})
	slogger().Info("ihero: unmounted", "root", id)
	if m.onUnmount != nil {
		m.onUnmount(id)
	}
}
