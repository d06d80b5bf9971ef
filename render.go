package terminol

// Renderer receives drawing primitives for one frame. Calls are bracketed
// by FixDamageBegin/FixDamageEnd; a false return from FixDamageBegin skips
// the frame while damage state is preserved.
type Renderer interface {
	// FixDamageBegin opens a frame. Returning false means the renderer is
	// not ready; no other call is made for this frame.
	FixDamageBegin() bool
	// DrawBg fills count cells starting at pos with a background color.
	DrawBg(pos Pos, count int, bg Color)
	// DrawFg draws the text of count cells sharing one foreground, with
	// their UTF-8 bytes concatenated.
	DrawFg(pos Pos, count int, fg Color, attrs AttrSet, text []byte)
	// DrawCursor draws the cursor cell. wrapNext indicates the pending
	// wrap state, focused whether the terminal window has focus.
	DrawCursor(pos Pos, fg, bg Color, attrs AttrSet, text []byte, wrapNext, focused bool)
	// DrawSelection highlights the selected region. topless/bottomless
	// mean the selection continues off-screen.
	DrawSelection(begin, end Pos, topless, bottomless bool)
	// DrawScrollbar positions the scrollbar thumb.
	DrawScrollbar(totalRows, historyOffset, visibleRows int)
	// FixDamageEnd closes the frame with the accumulated damage region
	// and whether the scrollbar was redrawn.
	FixDamageEnd(damaged Region, scrollbar bool)
}

// NoopRenderer discards all drawing.
type NoopRenderer struct{}

func (NoopRenderer) FixDamageBegin() bool                                      { return true }
func (NoopRenderer) DrawBg(Pos, int, Color)                                    {}
func (NoopRenderer) DrawFg(Pos, int, Color, AttrSet, []byte)                   {}
func (NoopRenderer) DrawCursor(Pos, Color, Color, AttrSet, []byte, bool, bool) {}
func (NoopRenderer) DrawSelection(Pos, Pos, bool, bool)                        {}
func (NoopRenderer) DrawScrollbar(int, int, int)                               {}
func (NoopRenderer) FixDamageEnd(Region, bool)                                 {}

var _ Renderer = NoopRenderer{}

// dispatchOptions carries the controller state a frame depends on.
type dispatchOptions struct {
	reverse    bool // swap fg/bg at emit time (DECSCNM)
	showCursor bool
	focused    bool
	full       bool // ignore accumulated damage, redraw everything
	scrollbar  bool
}

// dispatch walks the damaged viewport rows and emits draw calls: first
// background runs, then foreground runs, then cursor and selection.
// Storage is never altered; REVERSE only swaps colors on the way out.
func (b *Buffer) dispatch(r Renderer, opts dispatchOptions) Region {
	var damaged Region

	for v := 0; v < len(b.active); v++ {
		begin, end := b.DamageAt(v)
		if opts.full {
			begin, end = 0, b.cols
		}
		if begin == end {
			continue
		}
		damaged.Accumulate(v, begin, end)
		b.dispatchBgRow(r, v, begin, end, opts)
		b.dispatchFgRow(r, v, begin, end, opts)
	}

	if opts.showCursor {
		damaged = b.dispatchCursor(r, damaged, opts)
	}

	if begin, end, topless, bottomless, ok := b.SelectedArea(); ok {
		r.DrawSelection(begin, end, topless, bottomless)
	}

	if opts.scrollbar {
		r.DrawScrollbar(b.TotalRows(), b.HistoryOffset(), len(b.active))
	}

	return damaged
}

// rowCell returns the draw-ready cell at a viewport position: blank
// padding for short historical segments.
func (b *Buffer) rowCell(cells []Cell, col int) Cell {
	if col < len(cells) {
		return cells[col]
	}
	return BlankCell(DefaultStyle())
}

func (b *Buffer) dispatchBgRow(r Renderer, v, begin, end int, opts dispatchOptions) {
	cells, _, _ := b.viewportLine(v)
	runBegin := begin
	runBg := b.emitColors(b.rowCell(cells, begin).Style, opts).Bg
	for c := begin + 1; c <= end; c++ {
		if c < end {
			bg := b.emitColors(b.rowCell(cells, c).Style, opts).Bg
			if bg == runBg {
				continue
			}
			r.DrawBg(Pos{v, runBegin}, c-runBegin, runBg)
			runBegin, runBg = c, bg
		} else {
			r.DrawBg(Pos{v, runBegin}, c-runBegin, runBg)
		}
	}
}

func (b *Buffer) dispatchFgRow(r Renderer, v, begin, end int, opts dispatchOptions) {
	cells, _, _ := b.viewportLine(v)
	// Damage landing on the second column of a wide character pulls the
	// run back to the character itself.
	if begin > 0 && b.rowCell(cells, begin).IsWideSpacer() {
		begin--
	}
	run := make([]byte, 0, (end-begin)*4)
	runBegin := begin
	runStyle := b.emitColors(b.rowCell(cells, begin).Style, opts)
	for c := begin; c < end; c++ {
		cell := b.rowCell(cells, c)
		style := b.emitColors(cell.Style, opts)
		if style != runStyle {
			r.DrawFg(Pos{v, runBegin}, c-runBegin, runStyle.Fg, runStyle.Attrs, run)
			run = run[:0]
			runBegin, runStyle = c, style
		}
		// Spacers count toward the run width but contribute no text.
		if !cell.IsWideSpacer() {
			run = append(run, cell.Seq.Bytes()...)
		}
	}
	if len(run) > 0 {
		r.DrawFg(Pos{v, runBegin}, end-runBegin, runStyle.Fg, runStyle.Attrs, run)
	}
}

func (b *Buffer) dispatchCursor(r Renderer, damaged Region, opts dispatchOptions) Region {
	v := b.cursor.Pos.Row + b.scrollOffset
	if v < 0 || v >= len(b.active) {
		return damaged // cursor scrolled out of the viewport
	}
	pos := Pos{v, b.cursor.Pos.Col}
	cell := b.active[b.cursor.Pos.Row].cells[pos.Col]
	style := b.emitColors(cell.Style, opts)
	damaged.Accumulate(pos.Row, pos.Col, pos.Col+1)
	r.DrawCursor(pos, style.Fg, style.Bg, style.Attrs, cell.Seq.Bytes(), b.cursor.WrapNext, opts.focused)
	return damaged
}

// emitColors applies REVERSE at emit time only.
func (b *Buffer) emitColors(style Style, opts dispatchOptions) Style {
	if opts.reverse {
		style.Fg, style.Bg = style.Bg, style.Fg
	}
	return style
}
