package ihero

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/gogpu/ihero/chapter"
)

// ErrStaleLoad is returned by Loader.Load when a newer load or a Cancel
// superseded it. The stale result has already been closed.
var ErrStaleLoad = errors.New("ihero: load superseded")

// Loader runs asynchronous asset loads where only the latest one may
// commit. Each Load takes a generation number; a result whose generation
// is no longer current is closed instead of committed.
type Loader[T io.Closer] struct {
	mu      sync.Mutex
	gen     uint64
	key     string
	current T
	has     bool
}

// Load runs fn and commits its result as the current asset if no other
// Load or Cancel started meanwhile. The previously committed asset is
// closed on commit.
func (l *Loader[T]) Load(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	gen := l.begin(key)

	v, err := fn(ctx)
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		closeQuietly(v)
		return zero, err
	}

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		closeQuietly(v)
		slogger().Debug("ihero: stale load discarded", "key", key)
		return zero, ErrStaleLoad
	}
	prev, had := l.current, l.has
	l.current, l.has = v, true
	l.mu.Unlock()

	if had {
		closeQuietly(prev)
	}
	return v, nil
}

func (l *Loader[T]) begin(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.key = key
	return l.gen
}

// Cancel supersedes any load in flight. The committed asset stays.
func (l *Loader[T]) Cancel() {
	l.mu.Lock()
	l.gen++
	l.mu.Unlock()
}

// Generation returns the current generation.
func (l *Loader[T]) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Current returns the committed asset and the key of the latest load.
func (l *Loader[T]) Current() (T, string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.key, l.has
}

// Close cancels loads in flight and closes the committed asset.
func (l *Loader[T]) Close() error {
	l.mu.Lock()
	l.gen++
	v, had := l.current, l.has
	var zero T
	l.current, l.has = zero, false
	l.mu.Unlock()
	if had {
		return v.Close()
	}
	return nil
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		slogger().Warn("ihero: close failed", "err", err)
	}
}

// ChapterAsset is a chapter table loaded at runtime.
type ChapterAsset struct {
	Table  chapter.Table
	closed bool
}

// Close marks the asset released. The table must not be used afterwards.
func (a *ChapterAsset) Close() error {
	a.closed = true
	a.Table = nil
	return nil
}

// Closed reports whether Close ran.
func (a *ChapterAsset) Closed() bool { return a.closed }

// LoadChapterFile returns a load function for Loader that reads a YAML
// chapter table from path.
func LoadChapterFile(path string) func(context.Context) (*ChapterAsset, error) {
	return func(context.Context) (*ChapterAsset, error) {
		t, err := chapter.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return &ChapterAsset{Table: t}, nil
	}
}

// SetChapters swaps the chapter table at the next tick. Tables that fail
// validation are rejected.
func (s *Stage) SetChapters(t chapter.Table) error {
	if s.destroyed {
		return ErrStageDestroyed
	}
	if err := t.Validate(); err != nil {
		return err
	}
	s.chapters = t
	if s.gallery != nil {
		s.gallery.count = len(t)
	}
	return nil
}
