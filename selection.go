package terminol

import "strings"

// DefaultCutChars are the characters that delimit a word for double-click
// selection. Anything else, including all non-ASCII, is a word character.
const DefaultCutChars = " \t\"&'()*,;<=>?@[]^`{|}"

type selectState int

const (
	selectNone selectState = iota
	selectActive
	selectEstablished
)

// Selection expansion levels.
const (
	ExpandChar = 1
	ExpandWord = 2
	ExpandLine = 3
)

// SetCutChars replaces the word-delimiter set used by word expansion.
func (b *Buffer) SetCutChars(chars string) {
	b.cutChars = chars
}

// apos converts a viewport position into an absolute position.
func (b *Buffer) apos(pos Pos) APos {
	return APos{Row: pos.Row - b.scrollOffset, Col: pos.Col}
}

// vpos converts an absolute position back into viewport coordinates. The
// result can lie outside [0, rows).
func (b *Buffer) vpos(pos APos) Pos {
	return Pos{Row: pos.Row + b.scrollOffset, Col: pos.Col}
}

// MarkSelection starts a selection at a viewport position.
func (b *Buffer) MarkSelection(pos Pos) {
	b.damageSelection()
	b.selectState = selectActive
	b.selectMark = b.apos(pos)
	b.selectDelim = b.selectMark
}

// DelimitSelection extends the selection to a viewport position. initial
// establishes the selection (first motion after the press).
func (b *Buffer) DelimitSelection(pos Pos, initial bool) {
	if b.selectState == selectNone {
		return
	}
	if initial {
		b.selectState = selectEstablished
	}
	b.damageSelection()
	b.selectDelim = b.apos(pos)
	b.damageSelection()
}

// ExpandSelection snaps the selection around a viewport position: level 1
// selects the character, level 2 the word, level 3 the whole (unwrapped)
// line.
func (b *Buffer) ExpandSelection(pos Pos, level int) {
	b.damageSelection()
	ap := b.apos(pos)
	b.selectState = selectEstablished

	switch level {
	case ExpandWord:
		b.selectMark = b.wordBoundary(ap, false)
		b.selectDelim = b.wordBoundary(ap, true)
	case ExpandLine:
		b.selectMark = b.paraBoundary(ap, false)
		b.selectDelim = b.paraBoundary(ap, true)
	default:
		b.selectMark = ap
		b.selectDelim = ap
	}
	b.damageSelection()
}

// AdjustSelection moves one endpoint to a viewport position (right-click
// adjust): the start when the position lies before the selection,
// otherwise the end.
func (b *Buffer) AdjustSelection(pos Pos) {
	if b.selectState == selectNone {
		return
	}
	b.damageSelection()
	ap := b.apos(pos)
	begin, end, ok := b.normalizedSelection()
	if !ok {
		b.selectMark = ap
		b.selectDelim = ap
	} else if ap.Before(begin) {
		b.selectMark = end
		b.selectDelim = ap
	} else {
		b.selectMark = begin
		b.selectDelim = ap
	}
	b.selectState = selectEstablished
	b.damageSelection()
}

// ClearSelection removes any selection.
func (b *Buffer) ClearSelection() {
	if b.selectState == selectNone {
		return
	}
	b.damageSelection()
	b.selectState = selectNone
}

// HasSelection reports whether a non-empty selection exists.
func (b *Buffer) HasSelection() bool {
	_, _, ok := b.normalizedSelection()
	return ok
}

// SelectedArea returns the normalized selection endpoints in viewport
// coordinates, with topless/bottomless indicating that an endpoint lies
// off-screen.
func (b *Buffer) SelectedArea() (begin, end Pos, topless, bottomless, ok bool) {
	ab, ae, ok := b.normalizedSelection()
	if !ok {
		return Pos{}, Pos{}, false, false, false
	}
	vb, ve := b.vpos(ab), b.vpos(ae)
	rows := len(b.active)
	if vb.Row < 0 {
		topless = true
		vb = Pos{0, 0}
	}
	if ve.Row >= rows {
		bottomless = true
		ve = Pos{rows - 1, b.cols - 1}
	}
	return vb, ve, topless, bottomless, true
}

// normalizedSelection orders the endpoints. ok is false when there is no
// selection or it is empty.
func (b *Buffer) normalizedSelection() (begin, end APos, ok bool) {
	if b.selectState == selectNone {
		return APos{}, APos{}, false
	}
	begin, end = b.selectMark, b.selectDelim
	if end.Before(begin) {
		begin, end = end, begin
	}
	if begin == end && b.selectState != selectEstablished {
		return APos{}, APos{}, false
	}
	if begin.Row < -len(b.history) {
		begin = APos{Row: -len(b.history), Col: 0}
	}
	return begin, end, true
}

// GetSelectedText returns the selected text. Rows that are continuations
// join without a separator; rows that end a paragraph contribute a newline
// and lose their trailing blanks.
func (b *Buffer) GetSelectedText() (string, bool) {
	begin, end, ok := b.normalizedSelection()
	if !ok {
		return "", false
	}

	var sb strings.Builder
	for row := begin.Row; row <= end.Row && row < len(b.active); row++ {
		cells, cont, wrap := b.lineAtAbs(row)

		first := 0
		if row == begin.Row {
			first = begin.Col
		}
		last := len(cells)
		if !cont {
			last = min(last, wrap)
		}
		if row == end.Row {
			last = min(last, end.Col+1)
		}

		for c := first; c < last && c < len(cells); c++ {
			if cells[c].IsWideSpacer() {
				continue
			}
			sb.Write(cells[c].Seq.Bytes())
		}
		if !cont && row != end.Row {
			sb.WriteByte('\n')
		}
	}

	text := sb.String()
	return text, len(text) > 0
}

// damageSelection damages the viewport rows the selection currently
// touches.
func (b *Buffer) damageSelection() {
	begin, end, ok := b.normalizedSelection()
	if !ok {
		return
	}
	vb, ve := b.vpos(begin), b.vpos(end)
	for v := max(0, vb.Row); v <= ve.Row && v < len(b.damages); v++ {
		b.damages[v].add(0, b.cols)
	}
}

// isCut reports whether a cell delimits words.
func (b *Buffer) isCut(cell Cell) bool {
	if cell.Seq.Len() != 1 {
		return false
	}
	return strings.IndexByte(b.cutChars, cell.Seq[0]) >= 0
}

// wordBoundary walks from pos to the edge of the word containing it.
func (b *Buffer) wordBoundary(pos APos, forward bool) APos {
	if b.isCut(b.cellAtAbs(pos)) {
		return pos
	}
	for {
		next, ok := b.stepPara(pos, forward)
		if !ok || b.isCut(b.cellAtAbs(next)) {
			return pos
		}
		pos = next
	}
}

// paraBoundary walks to the start or end of the paragraph containing pos.
func (b *Buffer) paraBoundary(pos APos, forward bool) APos {
	if forward {
		for {
			_, cont, wrap := b.lineAtAbs(pos.Row)
			if !cont || pos.Row == len(b.active)-1 {
				return APos{Row: pos.Row, Col: max(0, wrap-1)}
			}
			pos.Row++
		}
	}
	for pos.Row > -len(b.history) {
		_, cont, _ := b.lineAtAbs(pos.Row - 1)
		if !cont {
			break
		}
		pos.Row--
	}
	return APos{Row: pos.Row, Col: 0}
}

// stepPara steps one cell forward or backward within the paragraph
// containing pos, crossing continued row boundaries.
func (b *Buffer) stepPara(pos APos, forward bool) (APos, bool) {
	cells, cont, wrap := b.lineAtAbs(pos.Row)
	limit := len(cells)
	if !cont {
		limit = min(limit, wrap)
	}
	if forward {
		if pos.Col+1 < limit {
			return APos{pos.Row, pos.Col + 1}, true
		}
		if cont && pos.Row+1 < len(b.active) {
			return APos{pos.Row + 1, 0}, true
		}
		return pos, false
	}
	if pos.Col > 0 {
		return APos{pos.Row, pos.Col - 1}, true
	}
	if pos.Row > -len(b.history) {
		prevCells, prevCont, _ := b.lineAtAbs(pos.Row - 1)
		if prevCont {
			return APos{pos.Row - 1, len(prevCells) - 1}, true
		}
	}
	return pos, false
}
