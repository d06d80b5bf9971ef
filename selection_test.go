package terminol

import "testing"

func TestSelectionBasic(t *testing.T) {
	b := newTestBuffer(4, 20, 0)
	writeText(b, "Hello World")

	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{0, 4}, true)

	if !b.HasSelection() {
		t.Fatal("expected an active selection")
	}
	text, ok := b.GetSelectedText()
	if !ok || text != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", text)
	}

	b.ClearSelection()
	if b.HasSelection() {
		t.Error("selection should clear")
	}
}

func TestSelectionReversedEndpoints(t *testing.T) {
	b := newTestBuffer(4, 20, 0)
	writeText(b, "Hello World")

	b.MarkSelection(Pos{0, 10})
	b.DelimitSelection(Pos{0, 6}, true)

	text, _ := b.GetSelectedText()
	if text != "World" {
		t.Errorf("expected %q, got %q", "World", text)
	}
}

func TestSelectionMultiRow(t *testing.T) {
	b := newTestBuffer(4, 10, 0)
	writeText(b, "first\nsecond")

	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{1, 5}, true)

	text, _ := b.GetSelectedText()
	if text != "first\nsecond" {
		t.Errorf("expected rows joined by newline, got %q", text)
	}
}

func TestSelectionWrappedParagraphNoNewline(t *testing.T) {
	// A continued row joins its successor without a separator, and the
	// trailing blanks of an explicit line end are skipped.
	b := newTestBuffer(4, 4, 0)
	writeText(b, "ABCDE")

	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{1, 3}, true)

	text, _ := b.GetSelectedText()
	if text != "ABCDE" {
		t.Errorf("expected %q, got %q", "ABCDE", text)
	}
}

func TestSelectionExpandWord(t *testing.T) {
	b := newTestBuffer(4, 30, 0)
	writeText(b, "alpha beta-gamma delta")

	b.ExpandSelection(Pos{0, 8}, ExpandWord)

	text, _ := b.GetSelectedText()
	if text != "beta-gamma" {
		t.Errorf("expected %q, got %q", "beta-gamma", text)
	}
}

func TestSelectionExpandLine(t *testing.T) {
	b := newTestBuffer(4, 4, 0)
	writeText(b, "ABCDE")

	b.ExpandSelection(Pos{0, 1}, ExpandLine)

	text, _ := b.GetSelectedText()
	if text != "ABCDE" {
		t.Errorf("line expand should span the wrapped paragraph, got %q", text)
	}
}

func TestSelectionIntoHistory(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "old\nmid\nnew")

	// Scroll so history is visible, then select the historical row.
	b.ScrollUpHistory(1)
	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{0, 2}, true)

	text, _ := b.GetSelectedText()
	if text != "old" {
		t.Errorf("expected %q from history, got %q", "old", text)
	}
}

func TestSelectionSurvivesScroll(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "keep\nx")

	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{0, 3}, true)

	// Another line scrolls the marked row into history; the selection
	// endpoints ride along.
	writeText(b, "\ny")

	text, ok := b.GetSelectedText()
	if !ok || text != "keep" {
		t.Errorf("expected selection to follow content, got %q (ok=%v)", text, ok)
	}
}

func TestSelectedAreaFlags(t *testing.T) {
	b := newTestBuffer(2, 10, 100)
	writeText(b, "a\nb\nc\nd")

	// Select from history (off-screen) into the active region.
	b.ScrollUpHistory(2)
	b.MarkSelection(Pos{0, 0})
	b.DelimitSelection(Pos{1, 0}, true)
	b.ScrollBottomHistory()

	_, _, topless, _, ok := b.SelectedArea()
	if !ok {
		t.Fatal("expected a selection")
	}
	if !topless {
		t.Error("selection starting above the viewport should be topless")
	}
}

func TestSelectionAdjust(t *testing.T) {
	b := newTestBuffer(4, 20, 0)
	writeText(b, "abcdefghij")

	b.MarkSelection(Pos{0, 2})
	b.DelimitSelection(Pos{0, 5}, true)
	b.AdjustSelection(Pos{0, 8})

	text, _ := b.GetSelectedText()
	if text != "cdefghi" {
		t.Errorf("expected %q, got %q", "cdefghi", text)
	}
}
