package terminol

import "testing"

func searchBuffer() *Buffer {
	b := newTestBuffer(2, 20, 100)
	writeText(b, "needle one\nplain\nneedle two\nplain\nneedle three\nend")
	return b
}

func TestSearchFindsNewestFirst(t *testing.T) {
	b := searchBuffer()
	b.BeginSearch("needle")

	if !b.NextSearch() {
		t.Fatal("expected a first match")
	}
	text, _ := b.GetSelectedText()
	if text != "needle" {
		t.Errorf("expected the match selected, got %q", text)
	}

	// The newest match is "needle three", still nearest the bottom.
	begin, _, _ := b.normalizedSelection()
	firstRow := begin.Row

	if !b.NextSearch() {
		t.Fatal("expected an older match")
	}
	begin, _, _ = b.normalizedSelection()
	if begin.Row >= firstRow {
		t.Errorf("next match should be further up: %d then %d", firstRow, begin.Row)
	}
}

func TestSearchSaturates(t *testing.T) {
	b := searchBuffer()
	b.BeginSearch("needle")

	steps := 0
	for b.NextSearch() {
		steps++
		if steps > 10 {
			t.Fatal("search did not saturate")
		}
	}
	if steps < 3 {
		t.Errorf("expected at least 3 matches, stepped %d times", steps)
	}

	// And back down, saturating at the newest match.
	for b.PrevSearch() {
		steps--
		if steps < -10 {
			t.Fatal("reverse search did not saturate")
		}
	}
}

func TestSearchScrollsViewport(t *testing.T) {
	b := searchBuffer()
	b.BeginSearch("needle one")

	found := false
	for b.NextSearch() {
		found = true
	}
	if !found {
		t.Fatal("expected to find the oldest needle")
	}
	if b.ScrollOffset() == 0 {
		t.Error("viewport should scroll so the historical hit is visible")
	}
}

func TestSearchBadPattern(t *testing.T) {
	b := searchBuffer()
	b.BeginSearch("([")

	if b.Searching() {
		t.Error("an invalid pattern must not start a search")
	}
	if b.NextSearch() {
		t.Error("NextSearch without a search should report false")
	}
}

func TestSearchRegexp(t *testing.T) {
	b := newTestBuffer(3, 20, 100)
	writeText(b, "error: 42\nok\nerror: 7")

	b.BeginSearch(`error: \d+`)
	if !b.NextSearch() {
		t.Fatal("expected a regexp match")
	}
	text, _ := b.GetSelectedText()
	if text != "error: 7" {
		t.Errorf("expected %q, got %q", "error: 7", text)
	}
}

func TestSearchEnd(t *testing.T) {
	b := searchBuffer()
	b.BeginSearch("needle")
	b.NextSearch()
	b.EndSearch()

	if b.Searching() {
		t.Error("search should have ended")
	}
}
