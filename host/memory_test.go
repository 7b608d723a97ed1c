package host

import "testing"

func TestMemoryDocumentQuery(t *testing.T) {
	doc := NewMemory("https://example.test/?ihDebug=1")
	if _, ok := doc.Query("[data-ih-root]"); ok {
		t.Fatal("Query on empty document returned a root")
	}
	root := NewMemoryRoot()
	doc.Add("[data-ih-root]", root)

	got, ok := doc.Query("[data-ih-root]")
	if !ok || got.ID() != root.ID() {
		t.Errorf("Query() = %v, %v, want root %s", got, ok, root.ID())
	}
	doc.Remove("[data-ih-root]")
	if _, ok := doc.Query("[data-ih-root]"); ok {
		t.Error("Query after Remove returned a root")
	}
	if doc.Location() != "https://example.test/?ihDebug=1" {
		t.Errorf("Location() = %q", doc.Location())
	}
}

func TestMemoryRootIDsAreUnique(t *testing.T) {
	a, b := NewMemoryRoot(), NewMemoryRoot()
	if a.ID() == b.ID() {
		t.Errorf("two roots share id %q", a.ID())
	}
}

func TestMemoryRootListeners(t *testing.T) {
	root := NewMemoryRoot()
	var calls []int
	remove1 := root.Listen(EventKey, func(Event) { calls = append(calls, 1) })
	root.Listen(EventKey, func(Event) { calls = append(calls, 2) })
	root.Listen(EventScroll, func(Event) {})

	if got := root.ListenerCount(EventKey); got != 2 {
		t.Errorf("ListenerCount(key) = %d, want 2", got)
	}
	if got := root.ListenerCount(""); got != 3 {
		t.Errorf("ListenerCount(all) = %d, want 3", got)
	}

	root.Dispatch(Event{Kind: EventKey})
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("dispatch order = %v, want [1 2]", calls)
	}

	remove1()
	remove1()
	if got := root.ListenerCount(EventKey); got != 1 {
		t.Errorf("ListenerCount(key) after remove = %d, want 1", got)
	}
}

func TestMemoryRootDatasetAndProperties(t *testing.T) {
	root := NewMemoryRoot()
	root.SetDataset("status", "ok")
	root.SetProperty("--ih-scroll", "0.5000")

	if v, ok := root.Dataset("status"); !ok || v != "ok" {
		t.Errorf("Dataset(status) = %q, %v", v, ok)
	}
	if v, ok := root.Property("--ih-scroll"); !ok || v != "0.5000" {
		t.Errorf("Property(--ih-scroll) = %q, %v", v, ok)
	}
	if _, ok := root.Dataset("missing"); ok {
		t.Error("Dataset(missing) reported present")
	}
}

func TestMemoryCanvas(t *testing.T) {
	root := NewMemoryRoot()
	c := NewMemoryCanvas(300, 150)
	root.AddCanvas("canvas", c)

	got, ok := root.Canvas("canvas")
	if !ok {
		t.Fatal("Canvas() not found")
	}
	if w, h := got.Size(); w != 300 || h != 150 {
		t.Errorf("Size() = %dx%d, want 300x150", w, h)
	}
	got.SetDrawingBufferSize(600, 300)
	if w, h := c.DrawingBufferSize(); w != 600 || h != 300 {
		t.Errorf("DrawingBufferSize() = %dx%d, want 600x300", w, h)
	}
}
