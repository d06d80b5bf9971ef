package terminol

import "github.com/gdamore/tcell/v2"

// TcellRenderer draws terminal frames onto a tcell.Screen. Background runs
// arrive before foreground runs, so the renderer keeps a per-cell
// background cache to combine the two into tcell styles.
type TcellRenderer struct {
	screen  tcell.Screen
	palette *Palette
	bg      [][]RGB
}

// NewTcellRenderer wraps an initialized screen with a palette built from
// the scheme.
func NewTcellRenderer(screen tcell.Screen, scheme ColorScheme) *TcellRenderer {
	return &TcellRenderer{
		screen:  screen,
		palette: NewPalette(scheme),
	}
}

// FixDamageBegin opens a frame; the renderer is always ready once the
// screen exists.
func (r *TcellRenderer) FixDamageBegin() bool {
	return r.screen != nil
}

func (r *TcellRenderer) bgAt(pos Pos) RGB {
	if pos.Row < len(r.bg) && pos.Col < len(r.bg[pos.Row]) {
		return r.bg[pos.Row][pos.Col]
	}
	return r.palette.Scheme().Background
}

// DrawBg fills a run of cells with a background color.
func (r *TcellRenderer) DrawBg(pos Pos, count int, bg Color) {
	rgb := r.palette.Resolve(bg)
	for len(r.bg) <= pos.Row {
		r.bg = append(r.bg, nil)
	}
	row := r.bg[pos.Row]
	for len(row) < pos.Col+count {
		row = append(row, r.palette.Scheme().Background)
	}
	r.bg[pos.Row] = row

	style := tcell.StyleDefault.Background(tcellColor(rgb))
	for i := 0; i < count; i++ {
		row[pos.Col+i] = rgb
		r.screen.SetContent(pos.Col+i, pos.Row, ' ', nil, style)
	}
}

// DrawFg draws a run of text over the cached background. count is in
// buffer cells; a wide rune covers two of them (its spacer contributed no
// text), so the consumed cells are tracked separately from the byte
// cursor walking text.
func (r *TcellRenderer) DrawFg(pos Pos, count int, fg Color, attrs AttrSet, text []byte) {
	fgRGB := r.palette.Resolve(fg)

	cell := 0
	for i := 0; i < len(text) && cell < count; {
		n := seqLength(text[i])
		if i+n > len(text) {
			break
		}
		var seq Seq
		copy(seq[:], text[i:i+n])
		i += n

		col := pos.Col + cell
		style := tcell.StyleDefault.
			Foreground(tcellColor(fgRGB)).
			Background(tcellColor(r.bgAt(Pos{pos.Row, col})))
		style = applyTcellAttrs(style, attrs)

		ch := seq.Rune()
		r.screen.SetContent(col, pos.Row, ch, nil, style)
		cell += max(1, runeWidth(ch))
	}
}

// DrawCursor places the hardware cursor; in an unfocused window the
// hardware cursor is hidden and the cell is drawn in cursor colors instead.
func (r *TcellRenderer) DrawCursor(pos Pos, fg, bg Color, attrs AttrSet, text []byte, wrapNext, focused bool) {
	if focused {
		r.screen.ShowCursor(pos.Col, pos.Row)
		return
	}
	r.screen.HideCursor()
	fill, textColor := r.palette.CursorColors(r.palette.Resolve(fg), r.palette.Resolve(bg))
	style := tcell.StyleDefault.
		Foreground(tcellColor(textColor)).
		Background(tcellColor(fill))
	ch := ' '
	if len(text) > 0 {
		var seq Seq
		copy(seq[:], text)
		ch = seq.Rune()
	}
	if ch == 0 {
		ch = ' ' // cursor parked on a wide-character spacer
	}
	r.screen.SetContent(pos.Col, pos.Row, ch, nil, style)
}

// DrawSelection re-styles the selected region in reverse video.
func (r *TcellRenderer) DrawSelection(begin, end Pos, topless, bottomless bool) {
	width, _ := r.screen.Size()
	for row := begin.Row; row <= end.Row; row++ {
		first, last := 0, width-1
		if row == begin.Row {
			first = begin.Col
		}
		if row == end.Row {
			last = end.Col
		}
		for col := first; col <= last; col++ {
			ch, comb, style, _ := r.screen.GetContent(col, row)
			r.screen.SetContent(col, row, ch, comb, style.Reverse(true))
		}
	}
}

// DrawScrollbar paints a thumb in the rightmost column.
func (r *TcellRenderer) DrawScrollbar(totalRows, historyOffset, visibleRows int) {
	width, height := r.screen.Size()
	if totalRows <= 0 || width == 0 {
		return
	}
	col := width - 1
	thumbTop := historyOffset * height / totalRows
	thumbLen := max(1, visibleRows*height/totalRows)

	track := tcell.StyleDefault.Foreground(tcellColor(r.palette.Scheme().Background))
	thumb := tcell.StyleDefault.Foreground(tcellColor(ScrollbarFg))
	for y := 0; y < height; y++ {
		style := track
		if y >= thumbTop && y < thumbTop+thumbLen {
			style = thumb
		}
		r.screen.SetContent(col, y, '▐', nil, style)
	}
}

// FixDamageEnd pushes the frame to the display.
func (r *TcellRenderer) FixDamageEnd(damaged Region, scrollbar bool) {
	r.screen.Show()
}

var _ Renderer = (*TcellRenderer)(nil)

func tcellColor(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func applyTcellAttrs(style tcell.Style, attrs AttrSet) tcell.Style {
	if attrs.Has(AttrBold) {
		style = style.Bold(true)
	}
	if attrs.Has(AttrFaint) {
		style = style.Dim(true)
	}
	if attrs.Has(AttrItalic) {
		style = style.Italic(true)
	}
	if attrs.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if attrs.Has(AttrBlink) {
		style = style.Blink(true)
	}
	return style
}

// KeysymFromTcell maps a tcell key event onto a Keysym and modifier set,
// for feeding Terminal.KeyPress from a tcell event loop.
func KeysymFromTcell(ev *tcell.EventKey) (Keysym, ModifierSet, bool) {
	var mods ModifierSet
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= ModifierSet(ModShift)
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= ModifierSet(ModAlt)
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= ModifierSet(ModControl)
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return Keysym(ev.Rune()), mods, true
	case tcell.KeyEnter:
		return KeyReturn, mods, true
	case tcell.KeyEsc:
		return KeyEscape, mods, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, mods, true
	case tcell.KeyTab:
		return KeyTab, mods, true
	case tcell.KeyBacktab:
		return KeyTab, mods | ModifierSet(ModShift), true
	case tcell.KeyInsert:
		return KeyInsert, mods, true
	case tcell.KeyDelete:
		return KeyDelete, mods, true
	case tcell.KeyHome:
		return KeyHome, mods, true
	case tcell.KeyEnd:
		return KeyEnd, mods, true
	case tcell.KeyPgUp:
		return KeyPageUp, mods, true
	case tcell.KeyPgDn:
		return KeyPageDown, mods, true
	case tcell.KeyUp:
		return KeyUp, mods, true
	case tcell.KeyDown:
		return KeyDown, mods, true
	case tcell.KeyLeft:
		return KeyLeft, mods, true
	case tcell.KeyRight:
		return KeyRight, mods, true
	case tcell.KeyF1:
		return KeyF1, mods, true
	case tcell.KeyF2:
		return KeyF2, mods, true
	case tcell.KeyF3:
		return KeyF3, mods, true
	case tcell.KeyF4:
		return KeyF4, mods, true
	case tcell.KeyF5:
		return KeyF5, mods, true
	case tcell.KeyF6:
		return KeyF6, mods, true
	case tcell.KeyF7:
		return KeyF7, mods, true
	case tcell.KeyF8:
		return KeyF8, mods, true
	case tcell.KeyF9:
		return KeyF9, mods, true
	case tcell.KeyF10:
		return KeyF10, mods, true
	case tcell.KeyF11:
		return KeyF11, mods, true
	case tcell.KeyF12:
		return KeyF12, mods, true
	}

	// Ctrl-letter combinations arrive as dedicated tcell keys.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + (ev.Key() - tcell.KeyCtrlA))
		return Keysym(r), mods | ModifierSet(ModControl), true
	}

	return 0, 0, false
}
