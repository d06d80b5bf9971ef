package terminol

// Pos identifies a cell location in the grid (0-based, row then column).
type Pos struct {
	Row int
	Col int
}

// Down returns the position moved down by n rows.
func (p Pos) Down(n int) Pos { return Pos{p.Row + n, p.Col} }

// Up returns the position moved up by n rows.
func (p Pos) Up(n int) Pos { return Pos{p.Row - n, p.Col} }

// Left returns the position moved left by n columns.
func (p Pos) Left(n int) Pos { return Pos{p.Row, p.Col - n} }

// Right returns the position moved right by n columns.
func (p Pos) Right(n int) Pos { return Pos{p.Row, p.Col + n} }

// AtCol returns the position with the column replaced.
func (p Pos) AtCol(col int) Pos { return Pos{p.Row, col} }

// AtRow returns the position with the row replaced.
func (p Pos) AtRow(row int) Pos { return Pos{row, p.Col} }

// APos is an absolute position able to refer to historical and active
// lines: row >= 0 indexes the active region top-down, row < 0 indexes
// history bottom-up (-1 is the last historical row). Ordering is
// lexicographic on (row, col).
type APos struct {
	Row int
	Col int
}

// Before reports whether a orders strictly before other.
func (a APos) Before(other APos) bool {
	return a.Row < other.Row || (a.Row == other.Row && a.Col < other.Col)
}

// Region is a rectangle of viewport positions, begin inclusive, end
// exclusive.
type Region struct {
	Begin Pos
	End   Pos
}

// Empty reports whether the region covers nothing.
func (r Region) Empty() bool {
	return r.Begin.Row == r.End.Row || r.Begin.Col == r.End.Col
}

// Accumulate grows the region to include rows [row, row+1) x cols
// [begin, end).
func (r *Region) Accumulate(row, begin, end int) {
	if begin == end {
		return
	}
	if r.Begin.Col == r.End.Col {
		r.Begin.Col, r.End.Col = begin, end
	} else {
		r.Begin.Col = min(r.Begin.Col, begin)
		r.End.Col = max(r.End.Col, end)
	}
	if r.Begin.Row == r.End.Row {
		r.Begin.Row = row
	}
	r.Begin.Row = min(r.Begin.Row, row)
	r.End.Row = max(r.End.Row, row+1)
}

// hline references one wrapped segment of an interned paragraph. index is
// the position in the tag deque, stored unadjusted; subtract lostTags to
// get the live index.
type hline struct {
	index  uint32
	seqnum int
}

// aline is a mutable active row: exactly cols cells, a continuation flag
// and the wrap anchor (first column after the last written cell).
type aline struct {
	cells []Cell
	cont  bool
	wrap  int
}

func newALine(cols int, style Style) *aline {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = BlankCell(style)
	}
	return &aline{cells: cells}
}

func (l *aline) clear(style Style) {
	for i := range l.cells {
		l.cells[i] = BlankCell(style)
	}
	l.cont = false
	l.wrap = 0
}

func (l *aline) isBlank() bool {
	blank := BlankCell(DefaultStyle())
	for _, c := range l.cells {
		if c != blank {
			return false
		}
	}
	return true
}

// damage is a half-open dirty column range for one viewport row.
type damage struct {
	begin int
	end   int
}

func (d *damage) add(begin, end int) {
	if begin == end {
		return
	}
	if d.begin == d.end {
		d.begin, d.end = begin, end
		return
	}
	d.begin = min(d.begin, begin)
	d.end = max(d.end, end)
}

// Cursor is the state associated with a VT cursor.
type Cursor struct {
	Pos      Pos
	Style    Style
	WrapNext bool
	CharSet  CharSet
}

// SavedCursor remembers a cursor together with its charset assignments.
type SavedCursor struct {
	Cursor Cursor
	G0     CharSub
	G1     CharSub
}

// Buffer is the in-memory representation of on-screen terminal data: a
// mutable active grid plus an immutable scroll-back history. Historical
// content is stored as paragraphs in a shared Deduper; hlines map the
// paragraphs back into rows at the current width, and are rebuilt on a
// reflowing resize while the paragraphs themselves never change.
type Buffer struct {
	dedupe       *Deduper
	tags         []Tag   // the paragraph history, oldest first
	lostTags     uint32  // count of tags dropped off the front
	pending      []Cell  // paragraph being assembled from evicted lines
	history      []hline // historical segments, indexable by row
	active       []*aline
	damages      []damage
	scrollOffset int // 0 means the viewport is anchored at the bottom
	historyLimit int
	cols         int
	marginBegin  int
	marginEnd    int
	barDamage    bool

	cursor      Cursor
	savedCursor SavedCursor
	g0, g1      CharSub

	selectState selectState
	selectMark  APos
	selectDelim APos
	cutChars    string

	search *searchState
}

// NewBuffer creates a buffer of the given geometry. historyLimit is the
// maximum number of historical rows retained; 0 disables history (the
// alternate screen). The deduper may be shared between buffers.
func NewBuffer(rows, cols, historyLimit int, dedupe *Deduper) *Buffer {
	if rows < 1 || cols < 1 {
		panic("terminol: buffer geometry must be at least 1x1")
	}
	b := &Buffer{
		dedupe:       dedupe,
		historyLimit: historyLimit,
		cols:         cols,
		marginBegin:  0,
		marginEnd:    rows,
		cutChars:     DefaultCutChars,
		g0:           CharSubUS,
		g1:           CharSubUS,
	}
	b.active = make([]*aline, rows)
	for i := range b.active {
		b.active[i] = newALine(cols, DefaultStyle())
	}
	b.damages = make([]damage, rows)
	b.cursor.Style = DefaultStyle()
	b.savedCursor = SavedCursor{Cursor: Cursor{Style: DefaultStyle()}, G0: CharSubUS, G1: CharSubUS}
	return b
}

// Rows returns the height of the active region.
func (b *Buffer) Rows() int { return len(b.active) }

// Cols returns the width of the buffer.
func (b *Buffer) Cols() int { return b.cols }

// HistoricalRows returns the number of wrapped rows in scroll-back.
func (b *Buffer) HistoricalRows() int { return len(b.history) }

// TotalRows returns historical plus active rows.
func (b *Buffer) TotalRows() int { return len(b.history) + len(b.active) }

// ScrollOffset returns how many rows the viewport is offset back from the
// bottom of history.
func (b *Buffer) ScrollOffset() int { return b.scrollOffset }

// HistoryOffset returns how many rows the viewport is offset from the
// start of history.
func (b *Buffer) HistoryOffset() int { return len(b.history) - b.scrollOffset }

// BarDamage reports whether the scrollbar needs redrawing.
func (b *Buffer) BarDamage() bool { return b.barDamage }

// MarginBegin returns the first row of the scrolling margin.
func (b *Buffer) MarginBegin() int { return b.marginBegin }

// MarginEnd returns one past the last row of the scrolling margin.
func (b *Buffer) MarginEnd() int { return b.marginEnd }

// CursorPos returns the cursor position.
func (b *Buffer) CursorPos() Pos { return b.cursor.Pos }

// Cursor returns the full cursor state.
func (b *Buffer) Cursor() Cursor { return b.cursor }

// Cell returns the cell at an active position. Out-of-bounds positions
// return a blank.
func (b *Buffer) Cell(pos Pos) Cell {
	if pos.Row < 0 || pos.Row >= len(b.active) || pos.Col < 0 || pos.Col >= b.cols {
		return BlankCell(DefaultStyle())
	}
	return b.active[pos.Row].cells[pos.Col]
}

// SetCell stores a cell at an active position, bypassing cursor logic.
func (b *Buffer) SetCell(pos Pos, cell Cell) {
	if pos.Row < 0 || pos.Row >= len(b.active) || pos.Col < 0 || pos.Col >= b.cols {
		return
	}
	line := b.active[pos.Row]
	line.cells[pos.Col] = cell
	line.wrap = max(line.wrap, pos.Col+1)
	b.damageColumns(pos.Row, pos.Col, pos.Col+1)
}

// --- Style and charset state carried by the cursor ---

// ResetStyle returns the pen to the default style.
func (b *Buffer) ResetStyle() { b.cursor.Style = DefaultStyle() }

// Style returns the current pen.
func (b *Buffer) Style() Style { return b.cursor.Style }

// SetAttr enables a pen attribute.
func (b *Buffer) SetAttr(a Attr) { b.cursor.Style.Attrs.Set(a) }

// UnsetAttr disables a pen attribute.
func (b *Buffer) UnsetAttr(a Attr) { b.cursor.Style.Attrs.Unset(a) }

// SetFg sets the pen foreground.
func (b *Buffer) SetFg(c Color) { b.cursor.Style.Fg = c }

// SetBg sets the pen background.
func (b *Buffer) SetBg(c Color) { b.cursor.Style.Bg = c }

// UseCharSet selects the active charset slot (SO selects G1, SI G0).
func (b *Buffer) UseCharSet(cs CharSet) { b.cursor.CharSet = cs }

// SetCharSub assigns a substitution table to a charset slot.
func (b *Buffer) SetCharSub(cs CharSet, sub CharSub) {
	if cs == CharSetG0 {
		b.g0 = sub
	} else {
		b.g1 = sub
	}
}

func (b *Buffer) charSub() CharSub {
	if b.cursor.CharSet == CharSetG1 {
		return b.g1
	}
	return b.g0
}

// --- Cursor movement ---

// MoveCursor places the cursor, clamping to the screen, or to the margins
// when marginRelative (origin mode) is set. wrapNext is cleared.
func (b *Buffer) MoveCursor(pos Pos, marginRelative bool) {
	b.damageCell(b.cursor.Pos)

	if marginRelative {
		pos.Row += b.marginBegin
		pos.Row = clamp(pos.Row, b.marginBegin, b.marginEnd-1)
	} else {
		pos.Row = clamp(pos.Row, 0, len(b.active)-1)
	}
	pos.Col = clamp(pos.Col, 0, b.cols-1)

	b.cursor.Pos = pos
	b.cursor.WrapNext = false
	b.damageCell(pos)
}

// SaveCursor records the cursor and charset assignments.
func (b *Buffer) SaveCursor() {
	b.savedCursor = SavedCursor{Cursor: b.cursor, G0: b.g0, G1: b.g1}
}

// RestoreCursor restores the state recorded by SaveCursor.
func (b *Buffer) RestoreCursor() {
	b.damageCell(b.cursor.Pos)
	b.cursor = b.savedCursor.Cursor
	if b.savedCursor.G0 != nil {
		b.g0 = b.savedCursor.G0
		b.g1 = b.savedCursor.G1
	}
	b.cursor.Pos.Row = clamp(b.cursor.Pos.Row, 0, len(b.active)-1)
	b.cursor.Pos.Col = clamp(b.cursor.Pos.Col, 0, b.cols-1)
	b.damageCell(b.cursor.Pos)
}

// ResetCursor homes the cursor, clears wrapNext, selects G0 and resets the
// pen.
func (b *Buffer) ResetCursor() {
	b.damageCell(b.cursor.Pos)
	b.cursor = Cursor{Style: DefaultStyle()}
	b.damageCell(b.cursor.Pos)
}

// --- Writing ---

// Write stores one printable sequence at the cursor. If a wrap is pending
// and autoWrap is set, the cursor first moves to the start of the next
// line (scrolling if needed) and the current line is marked as continued.
// In insert mode trailing cells shift right. Wide characters occupy two
// columns, the second holding a spacer cell; zero-width marks are not
// given cells of their own.
func (b *Buffer) Write(seq Seq, autoWrap, insert bool) {
	if seq.Len() == 1 {
		seq = b.charSub().Translate(seq)
	}

	width := 1
	if seq.Len() > 1 {
		width = runeWidth(seq.Rune())
		if width == 0 {
			return
		}
		if width > 2 {
			width = 2
		}
	}

	if b.cursor.WrapNext && autoWrap {
		line := b.active[b.cursor.Pos.Row]
		line.cont = true
		line.wrap = b.cols
		b.damageCell(b.cursor.Pos)
		b.cursor.Pos.Col = 0
		b.cursor.WrapNext = false
		if b.cursor.Pos.Row == b.marginEnd-1 {
			b.addLine()
		} else if b.cursor.Pos.Row < len(b.active)-1 {
			b.cursor.Pos.Row++
		}
	}

	if insert {
		b.InsertCells(width)
	}

	line := b.active[b.cursor.Pos.Row]
	col := b.cursor.Pos.Col
	line.cells[col] = UTF8Cell(seq, b.cursor.Style)
	// The spacer only fits when a second column remains; a wide character
	// jammed against the right edge keeps just its first column.
	spacer := width == 2 && col+1 < b.cols
	if spacer {
		line.cells[col+1] = WideSpacerCell(b.cursor.Style)
	}
	end := col + 1
	if spacer {
		end = col + 2
	}
	line.wrap = max(line.wrap, end)
	b.damageColumns(b.cursor.Pos.Row, col, end)

	if end >= b.cols {
		b.cursor.Pos.Col = b.cols - 1
		b.cursor.WrapNext = true
	} else {
		b.cursor.Pos.Col = end
	}
}

// Backspace moves the cursor one cell left. A pending wrap is cancelled
// instead; at column 0 with autoWrap the cursor moves to the end of the
// previous row, but never above the top margin.
func (b *Buffer) Backspace(autoWrap bool) {
	if b.cursor.WrapNext {
		b.cursor.WrapNext = false
		return
	}
	pos := b.cursor.Pos
	if pos.Col == 0 {
		if autoWrap && pos.Row > b.marginBegin {
			b.MoveCursor(Pos{pos.Row - 1, b.cols - 1}, false)
		}
	} else {
		b.MoveCursor(pos.Left(1), false)
	}
}

// ForwardIndex is LF/IND: move down within the margins, scrolling at the
// bottom margin. resetCol additionally performs a carriage return (NEL).
func (b *Buffer) ForwardIndex(resetCol bool) {
	b.damageCell(b.cursor.Pos)
	if resetCol {
		b.cursor.Pos.Col = 0
	}
	b.cursor.WrapNext = false
	if b.cursor.Pos.Row == b.marginEnd-1 {
		b.addLine()
	} else if b.cursor.Pos.Row < len(b.active)-1 {
		b.cursor.Pos.Row++
	}
	b.damageCell(b.cursor.Pos)
}

// ReverseIndex is RI: move up within the margins, scrolling down at the
// top margin.
func (b *Buffer) ReverseIndex() {
	b.damageCell(b.cursor.Pos)
	b.cursor.WrapNext = false
	if b.cursor.Pos.Row == b.marginBegin {
		b.insertLinesAt(b.marginBegin, 1)
	} else if b.cursor.Pos.Row > 0 {
		b.cursor.Pos.Row--
	}
	b.damageCell(b.cursor.Pos)
}

// --- Row-local edits ---

// InsertCells shifts cells at the cursor right by n, filling with blanks
// in the current style (ICH). n is clamped to the line remainder.
func (b *Buffer) InsertCells(n int) {
	pos := b.cursor.Pos
	n = clamp(n, 0, b.cols-pos.Col)
	if n == 0 {
		return
	}
	line := b.active[pos.Row]
	copy(line.cells[pos.Col+n:], line.cells[pos.Col:b.cols-n])
	for c := pos.Col; c < pos.Col+n; c++ {
		line.cells[c] = BlankCell(b.cursor.Style)
	}
	if line.wrap > pos.Col {
		line.wrap = min(b.cols, line.wrap+n)
	}
	b.damageColumns(pos.Row, pos.Col, b.cols)
}

// EraseCells deletes n cells at the cursor, shifting the remainder left
// and blank-filling the end of the line (DCH).
func (b *Buffer) EraseCells(n int) {
	pos := b.cursor.Pos
	n = clamp(n, 0, b.cols-pos.Col)
	if n == 0 {
		return
	}
	line := b.active[pos.Row]
	copy(line.cells[pos.Col:], line.cells[pos.Col+n:])
	for c := b.cols - n; c < b.cols; c++ {
		line.cells[c] = BlankCell(b.cursor.Style)
	}
	if line.wrap > pos.Col {
		line.wrap = max(pos.Col, line.wrap-n)
	}
	b.damageColumns(pos.Row, pos.Col, b.cols)
}

// BlankCells overwrites n cells at the cursor with blanks in the current
// style, without shifting (ECH).
func (b *Buffer) BlankCells(n int) {
	pos := b.cursor.Pos
	n = clamp(n, 0, b.cols-pos.Col)
	line := b.active[pos.Row]
	for c := pos.Col; c < pos.Col+n; c++ {
		line.cells[c] = BlankCell(b.cursor.Style)
	}
	b.damageColumns(pos.Row, pos.Col, pos.Col+n)
}

// --- Clearing ---

// ClearLine blanks the cursor row and resets its wrap state.
func (b *Buffer) ClearLine() {
	line := b.active[b.cursor.Pos.Row]
	line.clear(b.cursor.Style)
	b.damageColumns(b.cursor.Pos.Row, 0, b.cols)
}

// ClearLineLeft blanks from the start of the cursor row through the
// cursor, inclusive.
func (b *Buffer) ClearLineLeft() {
	pos := b.cursor.Pos
	line := b.active[pos.Row]
	for c := 0; c <= pos.Col; c++ {
		line.cells[c] = BlankCell(b.cursor.Style)
	}
	b.damageColumns(pos.Row, 0, pos.Col+1)
}

// ClearLineRight blanks from the cursor, inclusive, to the end of the row
// and pulls the wrap anchor back.
func (b *Buffer) ClearLineRight() {
	pos := b.cursor.Pos
	line := b.active[pos.Row]
	for c := pos.Col; c < b.cols; c++ {
		line.cells[c] = BlankCell(b.cursor.Style)
	}
	line.wrap = min(line.wrap, pos.Col)
	line.cont = false
	b.damageColumns(pos.Row, pos.Col, b.cols)
}

// ClearAbove blanks every row above the cursor row.
func (b *Buffer) ClearAbove() {
	for r := 0; r < b.cursor.Pos.Row; r++ {
		b.active[r].clear(b.cursor.Style)
		b.damageColumns(r, 0, b.cols)
	}
}

// ClearBelow blanks every row below the cursor row.
func (b *Buffer) ClearBelow() {
	for r := b.cursor.Pos.Row + 1; r < len(b.active); r++ {
		b.active[r].clear(b.cursor.Style)
		b.damageColumns(r, 0, b.cols)
	}
}

// Clear blanks the whole active region.
func (b *Buffer) Clear() {
	for r := range b.active {
		b.active[r].clear(b.cursor.Style)
	}
	b.DamageActive()
}

// TestPattern fills the screen with 'E' (DECALN).
func (b *Buffer) TestPattern() {
	for r := range b.active {
		line := b.active[r]
		for c := range line.cells {
			line.cells[c] = AsciiCell('E', b.cursor.Style)
		}
		line.cont = false
		line.wrap = b.cols
	}
	b.DamageActive()
}

// --- Margins and vertical edits ---

// SetMargins sets the scrolling region [begin, end). Out-of-range values
// are clamped so the region stays on screen and covers at least one row.
func (b *Buffer) SetMargins(begin, end int) {
	begin = clamp(begin, 0, len(b.active)-1)
	end = clamp(end, begin+1, len(b.active))
	b.marginBegin = begin
	b.marginEnd = end
}

// ResetMargins restores the full-screen scrolling region.
func (b *Buffer) ResetMargins() {
	b.marginBegin = 0
	b.marginEnd = len(b.active)
}

func (b *Buffer) marginsSet() bool {
	return b.marginBegin != 0 || b.marginEnd != len(b.active)
}

// InsertLines inserts n blank lines at the cursor row, pushing lines
// below it toward the bottom margin. Only valid with the cursor inside
// the margins; the caller checks.
func (b *Buffer) InsertLines(n int) {
	b.insertLinesAt(b.cursor.Pos.Row, n)
}

// EraseLines deletes n lines at the cursor row, pulling lines up and
// blank-filling at the bottom margin.
func (b *Buffer) EraseLines(n int) {
	b.eraseLinesAt(b.cursor.Pos.Row, n)
}

// ScrollUpMargins scrolls the margin region up by n without involving the
// cursor row (SU).
func (b *Buffer) ScrollUpMargins(n int) {
	b.eraseLinesAt(b.marginBegin, n)
}

// ScrollDownMargins scrolls the margin region down by n (SD).
func (b *Buffer) ScrollDownMargins(n int) {
	b.insertLinesAt(b.marginBegin, n)
}

func (b *Buffer) insertLinesAt(row, n int) {
	if row < b.marginBegin || row >= b.marginEnd {
		return
	}
	n = clamp(n, 0, b.marginEnd-row)
	if n == 0 {
		return
	}
	// The bottom n lines of the margin fall off; n blanks appear at row.
	copy(b.active[row+n:b.marginEnd], b.active[row:b.marginEnd-n])
	for r := row; r < row+n; r++ {
		b.active[r] = newALine(b.cols, b.cursor.Style)
	}
	if row > 0 {
		b.active[row-1].cont = false
	}
	b.damageRows(row, b.marginEnd)
}

func (b *Buffer) eraseLinesAt(row, n int) {
	if row < b.marginBegin || row >= b.marginEnd {
		return
	}
	n = clamp(n, 0, b.marginEnd-row)
	if n == 0 {
		return
	}
	copy(b.active[row:b.marginEnd-n], b.active[row+n:b.marginEnd])
	for r := b.marginEnd - n; r < b.marginEnd; r++ {
		b.active[r] = newALine(b.cols, b.cursor.Style)
	}
	if row > 0 {
		b.active[row-1].cont = false
	}
	b.damageRows(row, b.marginEnd)
}

// --- History ---

// addLine scrolls the margin region up by one. The displaced line enters
// history only when the margins cover the whole screen and history is
// enabled (primary buffer); otherwise it is simply lost.
func (b *Buffer) addLine() {
	if b.marginsSet() || b.historyLimit == 0 {
		b.eraseLinesAt(b.marginBegin, 1)
		return
	}

	b.pushLine(b.active[0])
	copy(b.active, b.active[1:])
	b.active[len(b.active)-1] = newALine(b.cols, b.cursor.Style)

	// Selection endpoints ride along with the content.
	if b.selectState != selectNone {
		b.selectMark.Row--
		b.selectDelim.Row--
		if b.selectMark.Row < -len(b.history) || b.selectDelim.Row < -len(b.history) {
			b.ClearSelection()
		}
	}

	b.enforceHistoryLimit()
	b.barDamage = true
	b.DamageActive()
}

// pushLine appends a line's content to the pending paragraph and, if the
// line does not continue, finalizes the paragraph into the deduper and the
// history deque.
func (b *Buffer) pushLine(line *aline) {
	b.pending = append(b.pending, line.cells[:line.wrap]...)
	if line.cont {
		return
	}
	tag := b.dedupe.Store(b.pending)
	b.tags = append(b.tags, tag)
	index := b.lostTags + uint32(len(b.tags)) - 1
	for s := 0; s < paragraphSegments(len(b.pending), b.cols); s++ {
		b.history = append(b.history, hline{index: index, seqnum: s})
	}
	b.pending = b.pending[:0]
}

// paragraphSegments returns how many rows a paragraph of n cells occupies
// at the given width. An empty paragraph still occupies one blank row.
func paragraphSegments(n, cols int) int {
	if n == 0 {
		return 1
	}
	return (n + cols - 1) / cols
}

// enforceHistoryLimit drops rows off the front of history and releases
// paragraphs that no longer have any referring row.
func (b *Buffer) enforceHistoryLimit() {
	trimmed := false
	for len(b.history) > b.historyLimit {
		b.history = b.history[1:]
		trimmed = true
	}
	if !trimmed {
		return
	}
	b.scrollOffset = min(b.scrollOffset, len(b.history))
	if b.selectState != selectNone &&
		(b.selectMark.Row < -len(b.history) || b.selectDelim.Row < -len(b.history)) {
		b.ClearSelection()
	}
	for len(b.tags) > 0 && (len(b.history) == 0 || b.history[0].index != b.lostTags) {
		b.dedupe.Release(b.tags[0])
		b.tags = b.tags[1:]
		b.lostTags++
	}
	b.barDamage = true
}

// ClearHistory drops all scroll-back, releasing every interned paragraph.
func (b *Buffer) ClearHistory() {
	for _, tag := range b.tags {
		b.dedupe.Release(tag)
	}
	b.lostTags += uint32(len(b.tags))
	b.tags = b.tags[:0]
	b.history = b.history[:0]
	b.pending = b.pending[:0]
	if b.scrollOffset != 0 {
		b.scrollOffset = 0
		b.DamageViewport(true)
	}
	b.barDamage = true
	if b.selectState != selectNone &&
		(b.selectMark.Row < 0 || b.selectDelim.Row < 0) {
		b.ClearSelection()
	}
}

// Reset clears the active region, history, margins, cursor and selection.
func (b *Buffer) Reset() {
	b.ResetCursor()
	b.savedCursor = SavedCursor{Cursor: Cursor{Style: DefaultStyle()}, G0: CharSubUS, G1: CharSubUS}
	b.g0, b.g1 = CharSubUS, CharSubUS
	b.ResetMargins()
	b.ClearSelection()
	b.EndSearch()
	b.ClearHistory()
	b.Clear()
}

// --- Line access across history and active ---

// lineAtAbs returns the content of an absolute row: cells (may be shorter
// than cols for historical segments), the continuation flag and the wrap
// anchor.
func (b *Buffer) lineAtAbs(row int) (cells []Cell, cont bool, wrap int) {
	if row >= 0 {
		line := b.active[row]
		return line.cells, line.cont, line.wrap
	}
	hl := b.history[len(b.history)+row]
	para := b.dedupe.Lookup(b.tags[hl.index-b.lostTags])
	start := hl.seqnum * b.cols
	end := min(start+b.cols, len(para))
	if start > end {
		start = end
	}
	seg := para[start:end]
	return seg, end < len(para), len(seg)
}

// viewportLine maps a viewport row to content via the scroll offset.
func (b *Buffer) viewportLine(v int) (cells []Cell, cont bool, wrap int) {
	return b.lineAtAbs(v - b.scrollOffset)
}

// cellAtAbs returns the cell at an absolute position, blank-padded for
// short historical segments.
func (b *Buffer) cellAtAbs(pos APos) Cell {
	cells, _, _ := b.lineAtAbs(pos.Row)
	if pos.Col < 0 || pos.Col >= len(cells) {
		return BlankCell(DefaultStyle())
	}
	return cells[pos.Col]
}

// --- Damage ---

func (b *Buffer) damageCell(pos Pos) {
	b.damageColumns(pos.Row, pos.Col, pos.Col+1)
}

// damageColumns records damage on an active row, translated into viewport
// coordinates. Rows scrolled out of view accumulate nothing.
func (b *Buffer) damageColumns(row, begin, end int) {
	v := row + b.scrollOffset
	if v < 0 || v >= len(b.damages) {
		return
	}
	b.damages[v].add(begin, end)
}

func (b *Buffer) damageRows(begin, end int) {
	for r := begin; r < end; r++ {
		b.damageColumns(r, 0, b.cols)
	}
}

// DamageActive marks every viewport row showing active content dirty.
func (b *Buffer) DamageActive() {
	b.damageRows(0, len(b.active))
}

// DamageViewport marks the entire viewport dirty, optionally with the
// scrollbar.
func (b *Buffer) DamageViewport(scrollbar bool) {
	for v := range b.damages {
		b.damages[v].add(0, b.cols)
	}
	if scrollbar {
		b.barDamage = true
	}
}

// ResetDamage clears all accumulated damage. Called after a renderer has
// consumed a frame.
func (b *Buffer) ResetDamage() {
	for v := range b.damages {
		b.damages[v] = damage{}
	}
	b.barDamage = false
}

// DamageAt returns the damaged column range of a viewport row.
func (b *Buffer) DamageAt(v int) (begin, end int) {
	if v < 0 || v >= len(b.damages) {
		return 0, 0
	}
	return b.damages[v].begin, b.damages[v].end
}

// --- History scrolling ---

// ScrollUpHistory moves the viewport toward history by up to n rows,
// reporting whether it moved.
func (b *Buffer) ScrollUpHistory(n int) bool {
	offset := min(len(b.history), b.scrollOffset+n)
	return b.setScrollOffset(offset)
}

// ScrollDownHistory moves the viewport toward the active region.
func (b *Buffer) ScrollDownHistory(n int) bool {
	offset := max(0, b.scrollOffset-n)
	return b.setScrollOffset(offset)
}

// ScrollTopHistory jumps to the oldest historical row.
func (b *Buffer) ScrollTopHistory() bool {
	return b.setScrollOffset(len(b.history))
}

// ScrollBottomHistory re-anchors the viewport at the bottom.
func (b *Buffer) ScrollBottomHistory() bool {
	return b.setScrollOffset(0)
}

func (b *Buffer) setScrollOffset(offset int) bool {
	if offset == b.scrollOffset {
		return false
	}
	b.scrollOffset = offset
	b.DamageViewport(true)
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
