package terminol

import (
	"strings"
	"testing"
)

func newTestBuffer(rows, cols, history int) *Buffer {
	return NewBuffer(rows, cols, history, NewDeduper())
}

func writeText(b *Buffer, text string) {
	for _, r := range text {
		switch r {
		case '\n':
			b.ForwardIndex(true)
		default:
			b.Write(NewSeq(r), true, false)
		}
	}
}

func rowText(b *Buffer, row int) string {
	cells, _, wrap := b.lineAtAbs(row)
	var sb strings.Builder
	for c := 0; c < wrap && c < len(cells); c++ {
		if cells[c].IsWideSpacer() {
			continue
		}
		sb.Write(cells[c].Seq.Bytes())
	}
	return sb.String()
}

func TestBufferWrite(t *testing.T) {
	b := newTestBuffer(24, 80, 0)
	writeText(b, "Hello")

	if got := rowText(b, 0); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
	if b.CursorPos() != (Pos{0, 5}) {
		t.Errorf("expected cursor at (0,5), got %v", b.CursorPos())
	}
}

func TestBufferAutoWrap(t *testing.T) {
	// Scenario: 4-column buffer, "ABCDE" wraps onto the next row with the
	// first row marked as continued.
	b := newTestBuffer(4, 4, 100)
	writeText(b, "ABCDE")

	if got := rowText(b, 0); got != "ABCD" {
		t.Errorf("expected %q, got %q", "ABCD", got)
	}
	_, cont, _ := b.lineAtAbs(0)
	if !cont {
		t.Error("wrapped row should be marked as continued")
	}
	if got := rowText(b, 1); got != "E" {
		t.Errorf("expected %q, got %q", "E", got)
	}
	if b.CursorPos() != (Pos{1, 1}) {
		t.Errorf("expected cursor at (1,1), got %v", b.CursorPos())
	}
}

func TestBufferWrapNextFlag(t *testing.T) {
	b := newTestBuffer(4, 4, 0)
	writeText(b, "ABCD")

	cur := b.Cursor()
	if !cur.WrapNext {
		t.Error("expected wrapNext after filling the row")
	}
	if cur.Pos.Col != 3 {
		t.Errorf("wrapNext requires col = cols-1, got %d", cur.Pos.Col)
	}
}

func TestBufferNoAutoWrap(t *testing.T) {
	b := newTestBuffer(4, 4, 0)
	for _, r := range "ABCDE" {
		b.Write(NewSeq(r), false, false)
	}

	if got := rowText(b, 0); got != "ABCE" {
		t.Errorf("expected last column overwritten, got %q", got)
	}
	if b.CursorPos().Row != 0 {
		t.Error("cursor must not wrap with autoWrap off")
	}
}

func TestBufferScrollIntoHistory(t *testing.T) {
	// Scenario: 3-row buffer, four lines; "A" is evicted into history as
	// one paragraph.
	b := newTestBuffer(3, 10, 100)
	writeText(b, "A\nB\nC\nD")

	if b.HistoricalRows() != 1 {
		t.Fatalf("expected 1 historical row, got %d", b.HistoricalRows())
	}
	if got := rowText(b, -1); got != "A" {
		t.Errorf("expected history row %q, got %q", "A", got)
	}
	for i, want := range []string{"B", "C", "D"} {
		if got := rowText(b, i); got != want {
			t.Errorf("row %d: expected %q, got %q", i, want, got)
		}
	}
	if len(b.tags) != 1 {
		t.Errorf("expected 1 paragraph tag, got %d", len(b.tags))
	}
}

func TestBufferHistoryLimit(t *testing.T) {
	b := newTestBuffer(2, 10, 3)
	writeText(b, "1\n2\n3\n4\n5\n6\n7")

	if b.HistoricalRows() != 3 {
		t.Errorf("expected history clamped to 3, got %d", b.HistoricalRows())
	}
	// Rows 1..5 scrolled out; only the last three (3, 4, 5) survive.
	if got := rowText(b, -3); got != "3" {
		t.Errorf("expected oldest surviving row %q, got %q", "3", got)
	}
	// Dropped paragraphs must have been released.
	if b.dedupe.Len() != len(b.tags) {
		t.Errorf("expected %d live paragraphs, got %d", len(b.tags), b.dedupe.Len())
	}
}

func TestBufferDedupRefcounts(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "same\nsame\nsame\nsame\nsame")

	// Three identical paragraphs evicted: one entry, refcount 3.
	if b.dedupe.Len() != 1 {
		t.Fatalf("expected a single deduped paragraph, got %d", b.dedupe.Len())
	}
	if refs := b.dedupe.Refs(b.tags[0]); refs != len(b.tags) {
		t.Errorf("expected refcount %d, got %d", len(b.tags), refs)
	}
}

func TestBufferAltNoHistory(t *testing.T) {
	b := newTestBuffer(2, 10, 0)
	writeText(b, "x\ny\nz")

	if b.HistoricalRows() != 0 {
		t.Error("alternate-style buffer must not accumulate history")
	}
	if got := rowText(b, 0); got != "y" {
		t.Errorf("expected %q, got %q", "y", got)
	}
}

func TestBufferWideChar(t *testing.T) {
	b := newTestBuffer(2, 10, 0)
	writeText(b, "日a")

	if b.Cell(Pos{0, 0}).Seq.Rune() != '日' {
		t.Errorf("expected the wide rune at column 0, got %q", b.Cell(Pos{0, 0}).Seq.String())
	}
	if !b.Cell(Pos{0, 1}).IsWideSpacer() {
		t.Error("expected a spacer in the second column")
	}
	if b.Cell(Pos{0, 2}).Seq != (Seq{'a'}) {
		t.Error("the following character should land after the spacer")
	}
	if b.CursorPos() != (Pos{0, 3}) {
		t.Errorf("expected cursor at (0,3), got %v", b.CursorPos())
	}
	if got := rowText(b, 0); got != "日a" {
		t.Errorf("expected %q, got %q", "日a", got)
	}
}

func TestBufferWideCharAtRightEdge(t *testing.T) {
	// A wide character written into the last column keeps only its first
	// cell and arms the pending wrap.
	b := newTestBuffer(2, 4, 0)
	writeText(b, "abc日")

	if b.CursorPos() != (Pos{0, 3}) || !b.Cursor().WrapNext {
		t.Errorf("expected a pending wrap at the last column, got %v", b.Cursor())
	}
	if b.Cell(Pos{0, 3}).Seq.Rune() != '日' {
		t.Error("the wide rune should occupy the last column")
	}
}

func TestBufferWideCharSelection(t *testing.T) {
	b := newTestBuffer(2, 10, 0)
	writeText(b, "日本ab")

	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{0, 5}, true)

	text, _ := b.GetSelectedText()
	if text != "日本ab" {
		t.Errorf("spacers must not leak into selected text, got %q", text)
	}
}

func TestBufferZeroWidthDropped(t *testing.T) {
	b := newTestBuffer(2, 10, 0)
	writeText(b, "e")
	b.Write(NewSeq(0x0301), true, false) // combining acute accent

	if b.CursorPos() != (Pos{0, 1}) {
		t.Errorf("zero-width marks must not advance the cursor, got %v", b.CursorPos())
	}
	if got := rowText(b, 0); got != "e" {
		t.Errorf("expected %q, got %q", "e", got)
	}
}

func TestBufferBackspace(t *testing.T) {
	b := newTestBuffer(4, 10, 0)
	writeText(b, "ab")

	b.Backspace(true)
	if b.CursorPos() != (Pos{0, 1}) {
		t.Errorf("expected (0,1), got %v", b.CursorPos())
	}

	// At column 0, backspace with autoWrap moves to the previous row end.
	b.MoveCursor(Pos{1, 0}, false)
	b.Backspace(true)
	if b.CursorPos() != (Pos{0, 9}) {
		t.Errorf("expected (0,9), got %v", b.CursorPos())
	}

	// But never above the top margin.
	b.MoveCursor(Pos{0, 0}, false)
	b.Backspace(true)
	if b.CursorPos() != (Pos{0, 0}) {
		t.Errorf("expected (0,0), got %v", b.CursorPos())
	}
}

func TestBufferBackspaceCancelsWrap(t *testing.T) {
	b := newTestBuffer(2, 3, 0)
	writeText(b, "abc")

	if !b.Cursor().WrapNext {
		t.Fatal("expected pending wrap")
	}
	b.Backspace(true)
	if b.Cursor().WrapNext {
		t.Error("backspace should cancel the pending wrap")
	}
	if b.CursorPos() != (Pos{0, 2}) {
		t.Errorf("cursor should stay put, got %v", b.CursorPos())
	}
}

func TestBufferInsertEraseCells(t *testing.T) {
	b := newTestBuffer(2, 8, 0)
	writeText(b, "ABCDEF")
	b.MoveCursor(Pos{0, 2}, false)

	b.InsertCells(2)
	if got := rowText(b, 0); got != "AB  CDEF" {
		t.Errorf("after insert expected %q, got %q", "AB  CDEF", got)
	}

	b.EraseCells(2)
	if got := rowText(b, 0); got != "ABCDEF" {
		t.Errorf("after erase expected %q, got %q", "ABCDEF", got)
	}

	b.BlankCells(2)
	if got := rowText(b, 0); got != "AB  EF" {
		t.Errorf("after blank expected %q, got %q", "AB  EF", got)
	}
}

func TestBufferClearVariants(t *testing.T) {
	b := newTestBuffer(3, 5, 0)
	writeText(b, "aaaaa")
	b.ForwardIndex(true)
	writeText(b, "bbbbb")
	b.ForwardIndex(true)
	writeText(b, "ccccc")

	b.MoveCursor(Pos{1, 2}, false)
	b.ClearLineRight()
	if got := rowText(b, 1); got != "bb" {
		t.Errorf("after EL0 expected %q, got %q", "bb", got)
	}

	b.ClearLineLeft()
	cells, _, _ := b.lineAtAbs(1)
	if cells[0].Seq != (Seq{' '}) || cells[2].Seq != (Seq{' '}) {
		t.Error("EL1 should blank through the cursor column")
	}

	b.ClearAbove()
	if got := rowText(b, 0); got != "" {
		t.Errorf("after ED1 expected blank row, got %q", got)
	}
	if got := rowText(b, 2); got != "ccccc" {
		t.Errorf("row below cursor should survive, got %q", got)
	}

	b.ClearBelow()
	if got := rowText(b, 2); got != "" {
		t.Errorf("after ED0 expected blank row, got %q", got)
	}
}

func TestBufferMarginsScroll(t *testing.T) {
	b := newTestBuffer(5, 10, 100)
	for i, text := range []string{"one", "two", "three", "four", "five"} {
		b.MoveCursor(Pos{i, 0}, false)
		writeText(b, text)
	}
	b.SetMargins(1, 4)

	// Forward index at the bottom margin scrolls only the margin region
	// and nothing reaches history.
	b.MoveCursor(Pos{3, 0}, false)
	b.ForwardIndex(false)

	if got := rowText(b, 0); got != "one" {
		t.Errorf("row above margin should not move, got %q", got)
	}
	if got := rowText(b, 1); got != "three" {
		t.Errorf("margin should scroll, got %q", got)
	}
	if got := rowText(b, 3); got != "" {
		t.Errorf("freed margin row should be blank, got %q", got)
	}
	if got := rowText(b, 4); got != "five" {
		t.Errorf("row below margin should not move, got %q", got)
	}
	if b.HistoricalRows() != 0 {
		t.Error("margin scrolling must not touch history")
	}
}

func TestBufferReverseIndex(t *testing.T) {
	b := newTestBuffer(3, 10, 0)
	for i, text := range []string{"top", "mid", "bot"} {
		b.MoveCursor(Pos{i, 0}, false)
		writeText(b, text)
	}

	b.MoveCursor(Pos{0, 0}, false)
	b.ReverseIndex()

	if got := rowText(b, 0); got != "" {
		t.Errorf("RI at top should insert a blank row, got %q", got)
	}
	if got := rowText(b, 1); got != "top" {
		t.Errorf("content should shift down, got %q", got)
	}
	if got := rowText(b, 2); got != "mid" {
		t.Errorf("content should shift down, got %q", got)
	}
}

func TestBufferInsertEraseLines(t *testing.T) {
	b := newTestBuffer(4, 10, 0)
	for i, text := range []string{"r0", "r1", "r2", "r3"} {
		b.MoveCursor(Pos{i, 0}, false)
		writeText(b, text)
	}

	b.MoveCursor(Pos{1, 0}, false)
	b.InsertLines(1)
	want := []string{"r0", "", "r1", "r2"}
	for i, w := range want {
		if got := rowText(b, i); got != w {
			t.Errorf("after IL row %d: expected %q, got %q", i, w, got)
		}
	}

	b.EraseLines(1)
	want = []string{"r0", "r1", "r2", ""}
	for i, w := range want {
		if got := rowText(b, i); got != w {
			t.Errorf("after DL row %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestBufferDamageTracking(t *testing.T) {
	b := newTestBuffer(24, 80, 0)
	writeText(b, "HELLO")

	begin, end := b.DamageAt(0)
	if begin != 0 || end < 5 {
		t.Errorf("expected row 0 damage covering [0,5), got [%d,%d)", begin, end)
	}
	for v := 1; v < 24; v++ {
		if db, de := b.DamageAt(v); db != de {
			t.Errorf("row %d should be undamaged, got [%d,%d)", v, db, de)
		}
	}

	b.ResetDamage()
	if db, de := b.DamageAt(0); db != de {
		t.Error("damage should clear on reset")
	}
}

func TestBufferScrollHistoryViewport(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "a\nb\nc\nd")

	if !b.ScrollUpHistory(1) {
		t.Fatal("expected scroll to move")
	}
	if b.ScrollOffset() != 1 {
		t.Errorf("expected offset 1, got %d", b.ScrollOffset())
	}
	// Viewport row 0 now shows the last historical row.
	cells, _, wrap := b.viewportLine(0)
	var sb strings.Builder
	for c := 0; c < wrap && c < len(cells); c++ {
		sb.Write(cells[c].Seq.Bytes())
	}
	if sb.String() != "b" {
		t.Errorf("expected viewport to show %q, got %q", "b", sb.String())
	}

	if !b.ScrollTopHistory() {
		t.Fatal("expected scroll to top to move")
	}
	if b.ScrollOffset() != b.HistoricalRows() {
		t.Error("top scroll should saturate at history length")
	}
	if b.ScrollUpHistory(1) {
		t.Error("scrolling past the top must report no change")
	}

	if !b.ScrollBottomHistory() {
		t.Fatal("expected scroll to bottom to move")
	}
	if b.ScrollDownHistory(1) {
		t.Error("scrolling past the bottom must report no change")
	}
}

func TestBufferCursorInvariants(t *testing.T) {
	b := newTestBuffer(5, 5, 10)
	inputs := []string{"hello world", "\n\n\n\n\n\n", "wrap around the end", "x"}
	for _, in := range inputs {
		writeText(b, in)
		pos := b.CursorPos()
		if pos.Row < 0 || pos.Row >= b.Rows() || pos.Col < 0 || pos.Col >= b.Cols() {
			t.Fatalf("cursor out of bounds after %q: %v", in, pos)
		}
		if b.Cursor().WrapNext && pos.Col != b.Cols()-1 {
			t.Fatalf("wrapNext implies last column, got %v", pos)
		}
	}
}

func TestBufferClearHistory(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "a\nb\nc\nd")

	if b.HistoricalRows() == 0 {
		t.Fatal("expected history before clearing")
	}
	b.ClearHistory()
	if b.HistoricalRows() != 0 {
		t.Error("history should be empty after ClearHistory")
	}
	if b.dedupe.Len() != 0 {
		t.Errorf("paragraphs should be released, %d remain", b.dedupe.Len())
	}
}
