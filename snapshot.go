package terminol

import (
	"fmt"
	"strings"
)

// SnapshotDetail selects how much state a snapshot includes.
type SnapshotDetail string

const (
	// SnapshotScreen dumps only the visible viewport text.
	SnapshotScreen SnapshotDetail = "screen"
	// SnapshotFull adds history, tags, cursor, modes and selection.
	SnapshotFull SnapshotDetail = "full"
)

// Snapshot renders terminal state as text, for debugging and golden
// tests. Shift+F9 routes a full snapshot to the Logger.
func (t *Terminal) Snapshot(detail SnapshotDetail) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(detail)
}

func (t *Terminal) snapshotLocked(detail SnapshotDetail) string {
	var sb strings.Builder
	b := t.buffer

	fmt.Fprintf(&sb, "geometry: %dx%d", t.rows, t.cols)
	if b == t.alt {
		sb.WriteString(" (alt)")
	}
	sb.WriteByte('\n')

	if detail == SnapshotFull {
		pos := b.CursorPos()
		fmt.Fprintf(&sb, "cursor: %d,%d wrapNext=%v charset=G%d\n",
			pos.Row, pos.Col, b.Cursor().WrapNext, b.Cursor().CharSet)
		fmt.Fprintf(&sb, "margins: [%d,%d) offset=%d history=%d tags=%d lost=%d\n",
			b.MarginBegin(), b.MarginEnd(), b.ScrollOffset(),
			len(b.history), len(b.tags), b.lostTags)

		for i, tag := range b.tags {
			para := b.dedupe.Lookup(tag)
			fmt.Fprintf(&sb, "tag %d (refs=%d): %q\n",
				b.lostTags+uint32(i), b.dedupe.Refs(tag), paraText(para))
		}
		if begin, end, ok := b.normalizedSelection(); ok {
			fmt.Fprintf(&sb, "selection: %d,%d .. %d,%d\n",
				begin.Row, begin.Col, end.Row, end.Col)
		}
	}

	for v := 0; v < b.Rows(); v++ {
		cells, cont, wrap := b.viewportLine(v)
		mark := byte('|')
		if cont {
			mark = '+'
		}
		var line strings.Builder
		for c := 0; c < len(cells) && c < wrap; c++ {
			if cells[c].IsWideSpacer() {
				continue
			}
			line.Write(cells[c].Seq.Bytes())
		}
		fmt.Fprintf(&sb, "%c%s\n", mark, line.String())
	}

	return sb.String()
}

func paraText(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.IsWideSpacer() {
			continue
		}
		sb.Write(c.Seq.Bytes())
	}
	return sb.String()
}
