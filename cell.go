package terminol

// Attr is a single text attribute.
type Attr uint8

const (
	AttrBold Attr = iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrConceal
)

func (a Attr) String() string {
	switch a {
	case AttrBold:
		return "bold"
	case AttrFaint:
		return "faint"
	case AttrItalic:
		return "italic"
	case AttrUnderline:
		return "underline"
	case AttrBlink:
		return "blink"
	case AttrInverse:
		return "inverse"
	case AttrConceal:
		return "conceal"
	}
	return "unknown"
}

// AttrSet is a bitmask over the text attributes.
type AttrSet uint8

// Has returns true if the attribute is set.
func (s AttrSet) Has(a Attr) bool {
	return s&(1<<a) != 0
}

// Set enables the attribute without affecting others.
func (s *AttrSet) Set(a Attr) {
	*s |= 1 << a
}

// Unset disables the attribute without affecting others.
func (s *AttrSet) Unset(a Attr) {
	*s &^= 1 << a
}

// SetTo enables or disables the attribute according to on.
func (s *AttrSet) SetTo(a Attr, on bool) {
	if on {
		s.Set(a)
	} else {
		s.Unset(a)
	}
}

// Style is the rendering state carried by each cell: a foreground, a
// background and an attribute set. The zero value is not meaningful; use
// DefaultStyle.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs AttrSet
}

// DefaultStyle returns the style of an untouched cell: default colors, no
// attributes.
func DefaultStyle() Style {
	return Style{Fg: DefaultFgColor(), Bg: DefaultBgColor()}
}

// Cell is one drawable grid unit: a UTF-8 sequence plus its style. Cells
// are value objects; equality is structural.
type Cell struct {
	Seq   Seq
	Style Style
}

// BlankCell returns a space cell carrying the given style.
func BlankCell(style Style) Cell {
	return Cell{Seq: Seq{' '}, Style: style}
}

// AsciiCell returns a single-byte cell carrying the given style.
func AsciiCell(b byte, style Style) Cell {
	return Cell{Seq: Seq{b}, Style: style}
}

// UTF8Cell returns a cell holding the given sequence and style.
func UTF8Cell(seq Seq, style Style) Cell {
	return Cell{Seq: seq, Style: style}
}

// WideSpacerCell returns the filler occupying the second column of a wide
// character. Its sequence is the zero Seq, which never appears in written
// text (NUL is swallowed by the parser).
func WideSpacerCell(style Style) Cell {
	return Cell{Style: style}
}

// IsWideSpacer reports whether this is the second column of a wide
// character. Spacers contribute no text and are skipped when extracting
// or drawing.
func (c Cell) IsWideSpacer() bool {
	return c.Seq == Seq{}
}

// IsBlank reports whether the cell is a plain space with an entirely
// default style.
func (c Cell) IsBlank() bool {
	return c == BlankCell(DefaultStyle())
}
