package terminol

import (
	"encoding/binary"
	"hash/fnv"
)

// Tag is an opaque handle to an interned paragraph. Tags remain valid until
// the last reference is released; they carry no meaning beyond identity.
type Tag uint64

// Deduper is a content-addressed store for historical paragraphs. Equal
// paragraphs are stored once and reference counted, which is what makes
// large scroll-back histories of repetitive output cheap. One deduper is
// shared by the primary and alternate buffers; it is only ever touched from
// the owner goroutine.
type Deduper struct {
	entries   map[Tag]*dedupeEntry
	totalRefs int
	uniqueLen int
}

type dedupeEntry struct {
	cells []Cell
	refs  uint32
}

// NewDeduper creates an empty store.
func NewDeduper() *Deduper {
	return &Deduper{entries: make(map[Tag]*dedupeEntry)}
}

// Store interns a paragraph and returns its tag. If an equal paragraph is
// already present its reference count is incremented and the existing tag
// returned. The cells are copied; the caller keeps ownership of the slice.
func (d *Deduper) Store(cells []Cell) Tag {
	tag := contentHash(cells)
	for {
		entry, ok := d.entries[tag]
		if !ok {
			stored := make([]Cell, len(cells))
			copy(stored, cells)
			d.entries[tag] = &dedupeEntry{cells: stored, refs: 1}
			d.totalRefs++
			d.uniqueLen += len(cells)
			return tag
		}
		if cellsEqual(entry.cells, cells) {
			entry.refs++
			d.totalRefs++
			return tag
		}
		// Hash collision with different content: probe the next slot.
		tag++
	}
}

// Lookup returns the paragraph for a live tag. The returned slice is the
// stored one; callers must not mutate it.
func (d *Deduper) Lookup(tag Tag) []Cell {
	entry, ok := d.entries[tag]
	if !ok {
		panic("terminol: lookup of dead tag")
	}
	return entry.cells
}

// Ref increments the reference count of a live tag.
func (d *Deduper) Ref(tag Tag) {
	entry, ok := d.entries[tag]
	if !ok {
		panic("terminol: ref of dead tag")
	}
	entry.refs++
	d.totalRefs++
}

// Release decrements the reference count, evicting the entry when it
// reaches zero.
func (d *Deduper) Release(tag Tag) {
	entry, ok := d.entries[tag]
	if !ok {
		panic("terminol: release of dead tag")
	}
	entry.refs--
	d.totalRefs--
	if entry.refs == 0 {
		d.uniqueLen -= len(entry.cells)
		delete(d.entries, tag)
	}
}

// Refs returns the reference count of a tag, or 0 if the tag is dead.
func (d *Deduper) Refs(tag Tag) int {
	if entry, ok := d.entries[tag]; ok {
		return int(entry.refs)
	}
	return 0
}

// Len returns the number of unique paragraphs stored.
func (d *Deduper) Len() int {
	return len(d.entries)
}

// contentHash hashes a paragraph's cells: sequence bytes plus the full
// style, so visually distinct paragraphs never dedupe together.
func contentHash(cells []Cell) Tag {
	h := fnv.New64a()
	var buf [16]byte
	for _, c := range cells {
		copy(buf[0:4], c.Seq[:])
		buf[4] = byte(c.Style.Fg.Kind)
		buf[5] = c.Style.Fg.Index
		buf[6], buf[7], buf[8] = c.Style.Fg.Value.R, c.Style.Fg.Value.G, c.Style.Fg.Value.B
		buf[9] = byte(c.Style.Bg.Kind)
		buf[10] = c.Style.Bg.Index
		buf[11], buf[12], buf[13] = c.Style.Bg.Value.R, c.Style.Bg.Value.G, c.Style.Bg.Value.B
		binary.LittleEndian.PutUint16(buf[14:16], uint16(c.Style.Attrs))
		h.Write(buf[:])
	}
	return Tag(h.Sum64())
}

func cellsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
