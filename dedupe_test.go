package terminol

import "testing"

func cellsOf(s string) []Cell {
	var cells []Cell
	for _, r := range s {
		cells = append(cells, UTF8Cell(NewSeq(r), DefaultStyle()))
	}
	return cells
}

func TestDeduperStoreLookup(t *testing.T) {
	d := NewDeduper()
	tag := d.Store(cellsOf("hello"))

	got := d.Lookup(tag)
	if paraText(got) != "hello" {
		t.Errorf("expected %q, got %q", "hello", paraText(got))
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", d.Len())
	}
}

func TestDeduperDeduplicates(t *testing.T) {
	d := NewDeduper()
	a := d.Store(cellsOf("same"))
	b := d.Store(cellsOf("same"))

	if a != b {
		t.Errorf("equal paragraphs got distinct tags: %v, %v", a, b)
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 unique entry, got %d", d.Len())
	}
	if d.Refs(a) != 2 {
		t.Errorf("expected refcount 2, got %d", d.Refs(a))
	}
}

func TestDeduperStyleDistinguishes(t *testing.T) {
	d := NewDeduper()
	bold := DefaultStyle()
	bold.Attrs.Set(AttrBold)

	a := d.Store(cellsOf("text"))
	b := d.Store([]Cell{AsciiCell('t', bold), AsciiCell('e', bold), AsciiCell('x', bold), AsciiCell('t', bold)})

	if a == b {
		t.Error("differently styled paragraphs must not dedupe together")
	}
}

func TestDeduperRelease(t *testing.T) {
	d := NewDeduper()
	tag := d.Store(cellsOf("x"))
	d.Store(cellsOf("x"))

	d.Release(tag)
	if d.Refs(tag) != 1 {
		t.Errorf("expected refcount 1 after release, got %d", d.Refs(tag))
	}

	d.Release(tag)
	if d.Refs(tag) != 0 {
		t.Errorf("expected eviction at refcount 0, got %d", d.Refs(tag))
	}
	if d.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", d.Len())
	}
}

func TestDeduperRefAfterStore(t *testing.T) {
	d := NewDeduper()
	tag := d.Store(cellsOf("para"))
	d.Ref(tag)

	if d.Refs(tag) != 2 {
		t.Errorf("expected refcount 2, got %d", d.Refs(tag))
	}
}

func TestDeduperEmptyParagraph(t *testing.T) {
	d := NewDeduper()
	a := d.Store(nil)
	b := d.Store([]Cell{})

	if a != b {
		t.Error("empty paragraphs should share one entry")
	}
	if len(d.Lookup(a)) != 0 {
		t.Error("empty paragraph should look up empty")
	}
}
