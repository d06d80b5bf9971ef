package terminol

// ResizeReflow changes the buffer geometry, re-wrapping all content at the
// new width. Paragraphs in the deduper are untouched; only the hline
// segmentation is rebuilt. The cursor tracks its character within its
// paragraph across the resize.
func (b *Buffer) ResizeReflow(rows, cols int) {
	if rows < 1 || cols < 1 {
		panic("terminol: resize to zero")
	}

	b.ClearSelection()
	b.EndSearch()

	// Remember where the cursor is as (paragraph, character offset). The
	// paragraph index is counted among the tags that will exist once the
	// active region has been pushed.
	cursorRow := clamp(b.cursor.Pos.Row, 0, len(b.active)-1)
	cursorPara := -1
	cursorOffset := 0

	// Push the entire active region into paragraph form. Blank lines below
	// the cursor are dropped; everything else, including blank lines above
	// it, keeps its place in history.
	last := len(b.active) - 1
	for last > cursorRow && b.active[last].isBlank() && !b.active[last-1].cont {
		last--
	}
	for r := 0; r <= last; r++ {
		line := b.active[r]
		if r == cursorRow {
			cursorPara = len(b.tags)
			cursorOffset = len(b.pending) + clamp(b.cursor.Pos.Col, 0, line.wrap)
		}
		b.pushLine(line)
	}
	if len(b.pending) > 0 {
		// A trailing continued line: force the paragraph closed.
		tail := &aline{cells: nil, cont: false, wrap: 0}
		b.pushLine(tail)
	}

	// Rebuild the segmentation at the new width.
	b.cols = cols
	b.history = b.history[:0]
	segBefore := make([]int, len(b.tags))
	total := 0
	for i, tag := range b.tags {
		segBefore[i] = total
		para := b.dedupe.Lookup(tag)
		n := paragraphSegments(len(para), cols)
		index := b.lostTags + uint32(i)
		for s := 0; s < n; s++ {
			b.history = append(b.history, hline{index: index, seqnum: s})
		}
		total += n
	}

	// Re-materialize the tail of history as the new active region.
	b.active = make([]*aline, 0, rows)
	for len(b.active) < rows && len(b.history) > 0 {
		hl := b.history[len(b.history)-1]
		b.history = b.history[:len(b.history)-1]
		b.active = append([]*aline{b.materialize(hl)}, b.active...)
		if hl.seqnum == 0 {
			// The whole paragraph is active again; drop its tag.
			b.dedupe.Release(b.tags[len(b.tags)-1])
			b.tags = b.tags[:len(b.tags)-1]
		} else if len(b.active) == rows {
			// The paragraph straddles the history/active boundary. Its
			// historical part goes back to pending, as if those rows had
			// just scrolled off, so the rows now active are not stored
			// twice and the paragraph stays whole.
			para := b.dedupe.Lookup(b.tags[len(b.tags)-1])
			b.pending = append(b.pending, para[:hl.seqnum*cols]...)
			b.dedupe.Release(b.tags[len(b.tags)-1])
			b.tags = b.tags[:len(b.tags)-1]
			b.history = b.history[:len(b.history)-hl.seqnum]
		}
	}
	materialized := len(b.active)
	for len(b.active) < rows {
		b.active = append(b.active, newALine(cols, DefaultStyle()))
	}

	// Translate the cursor back. total rows before the paragraph plus the
	// segment within it give an absolute row; the active region is the
	// last len(active) of the total.
	activeStart := total - materialized
	if cursorPara >= 0 {
		absRow := segBefore[min(cursorPara, len(segBefore)-1)] + cursorOffset/cols
		b.cursor.Pos.Row = clamp(absRow-activeStart, 0, rows-1)
		b.cursor.Pos.Col = clamp(cursorOffset%cols, 0, cols-1)
	} else {
		b.cursor.Pos.Row = clamp(b.cursor.Pos.Row, 0, rows-1)
		b.cursor.Pos.Col = clamp(b.cursor.Pos.Col, 0, cols-1)
	}
	if b.cursor.Pos.Col != cols-1 {
		b.cursor.WrapNext = false
	}

	b.savedCursor.Cursor.Pos.Row = clamp(b.savedCursor.Cursor.Pos.Row, 0, rows-1)
	b.savedCursor.Cursor.Pos.Col = clamp(b.savedCursor.Cursor.Pos.Col, 0, cols-1)

	b.damages = make([]damage, rows)
	b.marginBegin = 0
	b.marginEnd = rows
	b.scrollOffset = min(b.scrollOffset, len(b.history))
	b.enforceHistoryLimit()
	b.DamageViewport(true)
}

// materialize turns a history segment back into a mutable active line.
func (b *Buffer) materialize(hl hline) *aline {
	para := b.dedupe.Lookup(b.tags[hl.index-b.lostTags])
	start := hl.seqnum * b.cols
	end := min(start+b.cols, len(para))
	if start > end {
		start = end
	}
	line := newALine(b.cols, DefaultStyle())
	copy(line.cells, para[start:end])
	line.wrap = end - start
	line.cont = end < len(para)
	return line
}

// ResizeClip changes the geometry without reflow: rows are truncated or
// blank-extended at the bottom, columns at the right. Used by the
// alternate screen, which has no history to reflow into.
func (b *Buffer) ResizeClip(rows, cols int) {
	if rows < 1 || cols < 1 {
		panic("terminol: resize to zero")
	}

	b.ClearSelection()
	b.EndSearch()

	for r := range b.active {
		line := b.active[r]
		if cols < len(line.cells) {
			line.cells = line.cells[:cols]
		} else {
			for len(line.cells) < cols {
				line.cells = append(line.cells, BlankCell(DefaultStyle()))
			}
		}
		line.cont = false
		line.wrap = min(line.wrap, cols)
	}
	b.cols = cols

	if rows < len(b.active) {
		b.active = b.active[:rows]
	}
	for len(b.active) < rows {
		b.active = append(b.active, newALine(cols, DefaultStyle()))
	}

	b.cursor.Pos.Row = clamp(b.cursor.Pos.Row, 0, rows-1)
	b.cursor.Pos.Col = clamp(b.cursor.Pos.Col, 0, cols-1)
	if b.cursor.Pos.Col != cols-1 {
		b.cursor.WrapNext = false
	}
	b.savedCursor.Cursor.Pos.Row = clamp(b.savedCursor.Cursor.Pos.Row, 0, rows-1)
	b.savedCursor.Cursor.Pos.Col = clamp(b.savedCursor.Cursor.Pos.Col, 0, cols-1)

	b.damages = make([]damage, rows)
	b.marginBegin = 0
	b.marginEnd = rows
	b.DamageViewport(true)
}
