package terminol

import "regexp"

// searchState iterates over match spans, walking paragraphs from the
// bottom of the buffer toward the oldest history. Matches within a
// paragraph are cached on first visit.
type searchState struct {
	pattern *regexp.Regexp
	paras   []searchPara
	para    int // current paragraph, index into paras
	match   int // current match within the paragraph, -1 before first
}

// searchPara is one paragraph together with the absolute row of its first
// segment and lazily computed match spans.
type searchPara struct {
	firstRow int
	cells    []Cell
	scanned  bool
	spans    [][2]int // cell index ranges, ascending
}

// Searching reports whether a search is in progress.
func (b *Buffer) Searching() bool {
	return b.search != nil
}

// SearchPattern returns the active pattern, or the empty string.
func (b *Buffer) SearchPattern() string {
	if b.search == nil {
		return ""
	}
	return b.search.pattern.String()
}

// BeginSearch compiles the pattern and positions the iterator just below
// the newest paragraph; NextSearch then lands on the most recent match.
// An invalid pattern is reported and ignored.
func (b *Buffer) BeginSearch(pattern string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		Logger.Printf("bad search pattern %q: %v", pattern, err)
		return
	}
	b.search = &searchState{
		pattern: re,
		paras:   b.collectParas(),
		para:    -1,
		match:   -1,
	}
}

// SetSearchPattern replaces the pattern and restarts the iteration.
func (b *Buffer) SetSearchPattern(pattern string) {
	b.EndSearch()
	b.BeginSearch(pattern)
}

// EndSearch abandons the search, leaving any selection in place.
func (b *Buffer) EndSearch() {
	b.search = nil
}

// NextSearch moves to the next match away from the bottom (older).
// Returns false when the iterator has saturated.
func (b *Buffer) NextSearch() bool {
	return b.stepSearch(true)
}

// PrevSearch moves back toward the bottom (newer).
func (b *Buffer) PrevSearch() bool {
	return b.stepSearch(false)
}

func (b *Buffer) stepSearch(older bool) bool {
	s := b.search
	if s == nil {
		return false
	}

	para, match := s.para, s.match
	if older {
		if para < 0 || match <= 0 {
			para++
			for para < len(s.paras) && len(b.searchSpans(para)) == 0 {
				para++
			}
			if para >= len(s.paras) {
				return false // saturate; do not wrap
			}
			match = len(b.searchSpans(para))
		}
		match--
	} else {
		if para < 0 {
			return false
		}
		if match+1 >= len(b.searchSpans(para)) {
			para--
			for para >= 0 && len(b.searchSpans(para)) == 0 {
				para--
			}
			if para < 0 {
				return false
			}
			match = -1
		}
		match++
	}

	s.para, s.match = para, match
	b.selectSearchMatch()
	return true
}

// searchSpans returns the match spans of paragraph i, scanning on first
// use.
func (b *Buffer) searchSpans(i int) [][2]int {
	s := b.search
	p := &s.paras[i]
	if !p.scanned {
		p.scanned = true
		text := make([]byte, 0, len(p.cells))
		cellOf := make([]int, 0, len(p.cells)+1)
		for ci, cell := range p.cells {
			if cell.IsWideSpacer() {
				continue
			}
			for range cell.Seq.Bytes() {
				cellOf = append(cellOf, ci)
			}
			text = append(text, cell.Seq.Bytes()...)
		}
		cellOf = append(cellOf, len(p.cells))
		for _, m := range s.pattern.FindAllIndex(text, -1) {
			last := m[1] - 1
			if last < m[0] {
				last = m[0]
			}
			p.spans = append(p.spans, [2]int{cellOf[m[0]], cellOf[last]})
		}
	}
	return p.spans
}

// selectSearchMatch highlights the current match as the selection and
// scrolls the viewport so it is visible.
func (b *Buffer) selectSearchMatch() {
	s := b.search
	p := s.paras[s.para]
	span := p.spans[s.match]

	begin := APos{Row: p.firstRow + span[0]/b.cols, Col: span[0] % b.cols}
	end := APos{Row: p.firstRow + span[1]/b.cols, Col: span[1] % b.cols}

	b.damageSelection()
	b.selectState = selectEstablished
	b.selectMark = begin
	b.selectDelim = end

	// Scroll so the first row of the hit is on-screen.
	if begin.Row < -b.scrollOffset {
		b.setScrollOffset(-begin.Row)
	} else if begin.Row >= len(b.active)-b.scrollOffset {
		b.setScrollOffset(max(0, -(begin.Row - len(b.active) + 1)))
	}
	b.damageSelection()
}

// collectParas lists every paragraph in the buffer, newest first: the
// active region grouped by continuation, then history tags from the
// bottom up.
func (b *Buffer) collectParas() []searchPara {
	var paras []searchPara

	// Active region, bottom-up, grouping continued rows.
	r := len(b.active) - 1
	for r >= 0 {
		first := r
		for first > 0 && b.active[first-1].cont {
			first--
		}
		var cells []Cell
		for i := first; i <= r; i++ {
			line := b.active[i]
			cells = append(cells, line.cells[:line.wrap]...)
		}
		paras = append(paras, searchPara{firstRow: first, cells: cells})
		r = first - 1
	}

	// History, newest tag first. The first segment's absolute row is the
	// hline position relative to the end of history.
	row := 0 // one past the last history row, in absolute terms
	for ti := len(b.tags) - 1; ti >= 0; ti-- {
		para := b.dedupe.Lookup(b.tags[ti])
		segs := paragraphSegments(len(para), b.cols)
		row -= segs
		if row < -len(b.history) {
			break // the front paragraph is partially trimmed; stop here
		}
		paras = append(paras, searchPara{firstRow: row, cells: para})
	}

	return paras
}
