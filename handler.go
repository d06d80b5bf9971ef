package terminol

import "strconv"

// Ensure Terminal implements ParserHandler.
var _ ParserHandler = (*Terminal)(nil)

// nthArg returns parameter n or a fallback when absent.
func nthArg(params []int32, n int, fallback int) int {
	if n < len(params) {
		return int(params[n])
	}
	return fallback
}

// nthArgNonZero is nthArg, but zero also selects the fallback.
func nthArgNonZero(params []int32, n int, fallback int) int {
	if v := nthArg(params, n, fallback); v != 0 {
		return v
	}
	return fallback
}

// Normal handles a printable code point from the parser.
func (t *Terminal) Normal(seq Seq, length int) {
	t.buffer.Write(seq, t.modes.Has(ModeAutoWrap), t.modes.Has(ModeInsert))
}

// Control handles a C0/C1 control byte.
func (t *Terminal) Control(c byte) {
	switch c {
	case ctrlBEL:
		t.observer.Bell()
	case ctrlHT:
		t.tabCursor(1)
	case ctrlBS:
		t.buffer.Backspace(t.modes.Has(ModeAutoWrap))
	case ctrlCR:
		t.buffer.MoveCursor(t.buffer.CursorPos().AtCol(0), false)
	case ctrlLF, ctrlVT, ctrlFF:
		t.buffer.ForwardIndex(t.modes.Has(ModeCROnLF))
	case ctrlSO:
		t.buffer.UseCharSet(CharSetG1)
	case ctrlSI:
		t.buffer.UseCharSet(CharSetG0)
	case ctrlCAN, ctrlSUB:
		t.parser.Reset()
		t.decoder.Reset()
	case ctrlENQ, ctrlNUL, ctrlDC1, ctrlDC3, ctrlDEL:
		// Silently accepted.
	default:
		Logger.Printf("ignored control byte %#02x", c)
	}
}

// Escape handles a single-byte escape final.
func (t *Terminal) Escape(c byte) {
	switch c {
	case 'D': // IND
		t.buffer.ForwardIndex(false)
	case 'E': // NEL
		t.buffer.ForwardIndex(true)
	case 'H': // HTS
		t.setTab(t.buffer.CursorPos().Col)
	case 'M': // RI
		t.buffer.ReverseIndex()
	case 'N', 'O': // SS2/SS3
		Logger.Printf("single shift ESC %c ignored", c)
	case 'Z': // DECID, answers like primary DA
		t.writePty([]byte("\x1b[?6c"))
	case 'c': // RIS
		t.resetAll()
	case '=': // DECKPAM
		t.modes.Set(ModeAppKeypad)
	case '>': // DECKPNM
		t.modes.Unset(ModeAppKeypad)
	case '7': // DECSC
		t.buffer.SaveCursor()
	case '8': // DECRC
		t.buffer.RestoreCursor()
	default:
		Logger.Printf("unknown escape sequence: ESC %c", c)
	}
}

// CSI handles a control sequence.
func (t *Terminal) CSI(private bool, params []int32, final byte) {
	buf := t.buffer
	pos := buf.CursorPos()

	switch final {
	case '@': // ICH
		buf.InsertCells(nthArgNonZero(params, 0, 1))
	case 'A': // CUU
		buf.MoveCursor(pos.Up(nthArgNonZero(params, 0, 1)), false)
	case 'B': // CUD
		buf.MoveCursor(pos.Down(nthArgNonZero(params, 0, 1)), false)
	case 'C': // CUF
		buf.MoveCursor(pos.Right(nthArgNonZero(params, 0, 1)), false)
	case 'D': // CUB
		buf.MoveCursor(pos.Left(nthArgNonZero(params, 0, 1)), false)
	case 'E': // CNL
		buf.MoveCursor(Pos{pos.Row + nthArgNonZero(params, 0, 1), 0}, false)
	case 'F': // CPL
		buf.MoveCursor(Pos{pos.Row - nthArgNonZero(params, 0, 1), 0}, false)
	case 'G': // CHA
		buf.MoveCursor(pos.AtCol(nthArgNonZero(params, 0, 1)-1), false)
	case 'H', 'f': // CUP / HVP
		t.moveCursorOrigin(Pos{nthArg(params, 0, 1) - 1, nthArg(params, 1, 1) - 1})
	case 'I': // CHT
		t.tabCursor(nthArgNonZero(params, 0, 1))
	case 'J': // ED
		switch nthArg(params, 0, 0) {
		case 1:
			buf.ClearAbove()
			buf.ClearLineLeft()
		case 2:
			buf.Clear()
			buf.MoveCursor(Pos{}, false)
		default:
			buf.ClearLineRight()
			buf.ClearBelow()
		}
	case 'K': // EL
		switch nthArg(params, 0, 0) {
		case 1:
			buf.ClearLineLeft()
		case 2:
			buf.ClearLine()
		default:
			buf.ClearLineRight()
		}
	case 'L': // IL
		if pos.Row >= buf.MarginBegin() && pos.Row < buf.MarginEnd() {
			buf.InsertLines(nthArgNonZero(params, 0, 1))
		}
	case 'M': // DL
		if pos.Row >= buf.MarginBegin() && pos.Row < buf.MarginEnd() {
			buf.EraseLines(nthArgNonZero(params, 0, 1))
		}
	case 'P': // DCH
		buf.EraseCells(nthArgNonZero(params, 0, 1))
	case 'S': // SU
		buf.ScrollUpMargins(nthArgNonZero(params, 0, 1))
	case 'T': // SD
		buf.ScrollDownMargins(nthArgNonZero(params, 0, 1))
	case 'X': // ECH
		buf.BlankCells(nthArgNonZero(params, 0, 1))
	case 'Z': // CBT
		t.tabCursorBackward(nthArgNonZero(params, 0, 1))
	case '`': // HPA
		buf.MoveCursor(pos.AtCol(nthArgNonZero(params, 0, 1)-1), false)
	case 'b': // REP
		t.repeatLast(nthArgNonZero(params, 0, 1))
	case 'c': // primary DA
		t.writePty([]byte("\x1b[?6c"))
	case 'd': // VPA
		t.moveCursorOrigin(Pos{nthArg(params, 0, 1) - 1, pos.Col})
	case 'g': // TBC
		switch nthArg(params, 0, 0) {
		case 0:
			t.tabs[pos.Col] = false
		case 3:
			for i := range t.tabs {
				t.tabs[i] = false
			}
		default:
			Logger.Printf("unhandled tab clear mode %d", nthArg(params, 0, 0))
		}
	case 'h': // SM
		t.processModes(private, true, params)
	case 'l': // RM
		t.processModes(private, false, params)
	case 'm': // SGR
		if len(params) == 0 {
			t.processAttributes([]int32{0})
		} else {
			t.processAttributes(params)
		}
	case 'n': // DSR
		switch nthArg(params, 0, 0) {
		case 5:
			t.writePty([]byte("\x1b[0n"))
		case 6:
			row, col := pos.Row, pos.Col
			if t.modes.Has(ModeOrigin) {
				row -= buf.MarginBegin()
			}
			t.writePty([]byte("\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "R"))
		default:
			Logger.Printf("unhandled DSR %d", nthArg(params, 0, 0))
		}
	case 'q': // DECSCA, accepted
	case 'r': // DECSTBM
		if private {
			Logger.Print("private CSI r ignored")
			break
		}
		if len(params) == 0 {
			buf.ResetMargins()
		} else {
			top := nthArgNonZero(params, 0, 1) - 1
			bottom := nthArgNonZero(params, 1, pos.Row+1) - 1
			top = clamp(top, 0, t.rows-1)
			bottom = clamp(bottom, 0, t.rows-1)
			if bottom > top {
				buf.SetMargins(top, bottom+1)
			} else {
				buf.ResetMargins()
			}
		}
		t.moveCursorOrigin(Pos{})
	case 's': // save cursor position
		buf.SaveCursor()
	case 't': // window ops, accepted
	case 'u': // restore cursor position
		buf.RestoreCursor()
	case 'y': // DECTST, accepted
	default:
		Logger.Printf("unknown CSI final %q (private=%v params=%v)", final, private, params)
	}
}

// OSC handles an operating system command.
func (t *Terminal) OSC(args []string) {
	if len(args) == 0 {
		return
	}
	code, err := strconv.Atoi(args[0])
	if err != nil {
		Logger.Printf("bad OSC selector %q", args[0])
		return
	}
	switch code {
	case 0: // icon name and window title
		if len(args) > 1 {
			t.observer.SetIconName(args[1])
			t.observer.SetTitle(args[1])
		}
	case 1: // icon name
		if len(args) > 1 {
			t.observer.SetIconName(args[1])
		}
	case 2: // window title
		if len(args) > 1 {
			t.observer.SetTitle(args[1])
		}
	default:
		Logger.Printf("unhandled OSC %d", code)
	}
}

// DCS accepts and discards device control strings.
func (t *Terminal) DCS(data []byte) {
	Logger.Printf("ignored DCS of %d bytes", len(data))
}

// Special handles two-byte escapes with a "#(" or ")" intermediate.
func (t *Terminal) Special(lead, code byte) {
	switch lead {
	case '#':
		switch code {
		case '8': // DECALN
			t.buffer.TestPattern()
		case '3', '4', '5', '6': // double width/height, accepted
		default:
			Logger.Printf("unknown ESC # %c", code)
		}
	case '(', ')':
		slot := CharSetG0
		if lead == ')' {
			slot = CharSetG1
		}
		switch code {
		case '0':
			t.buffer.SetCharSub(slot, CharSubSpecial)
		case 'A':
			t.buffer.SetCharSub(slot, CharSubUK)
		case 'B':
			t.buffer.SetCharSub(slot, CharSubUS)
		default:
			Logger.Printf("unknown character set %c", code)
		}
	default:
		Logger.Printf("unknown special ESC %c %c", lead, code)
	}
}

// --- Helpers behind the dispatch ---

// moveCursorOrigin places the cursor honoring origin mode.
func (t *Terminal) moveCursorOrigin(pos Pos) {
	t.buffer.MoveCursor(pos, t.modes.Has(ModeOrigin))
}

// tabCursor advances to the count-th next tab stop, stopping at the last
// column.
func (t *Terminal) tabCursor(count int) {
	col := t.buffer.CursorPos().Col
	for count > 0 {
		col++
		if col >= t.cols {
			col = t.cols - 1
			break
		}
		if t.tabs[col] {
			count--
		}
	}
	t.buffer.MoveCursor(t.buffer.CursorPos().AtCol(col), false)
}

// tabCursorBackward moves to the count-th previous tab stop, stopping at
// column 0.
func (t *Terminal) tabCursorBackward(count int) {
	col := t.buffer.CursorPos().Col
	for count > 0 && col > 0 {
		col--
		if t.tabs[col] {
			count--
		}
	}
	t.buffer.MoveCursor(t.buffer.CursorPos().AtCol(col), false)
}

func (t *Terminal) setTab(col int) {
	if col >= 0 && col < len(t.tabs) {
		t.tabs[col] = true
	}
}

// repeatLast re-writes the cell just left of the cursor n times (REP).
func (t *Terminal) repeatLast(n int) {
	pos := t.buffer.CursorPos()
	if pos.Col == 0 && !t.buffer.Cursor().WrapNext {
		return
	}
	col := pos.Col - 1
	if t.buffer.Cursor().WrapNext {
		col = pos.Col
	}
	cell := t.buffer.Cell(Pos{pos.Row, col})
	if cell.IsWideSpacer() && col > 0 {
		cell = t.buffer.Cell(Pos{pos.Row, col - 1})
	}
	for i := 0; i < n; i++ {
		t.buffer.Write(cell.Seq, t.modes.Has(ModeAutoWrap), false)
	}
}

// resetAll is RIS: both buffers cleared, modes and tabs to defaults, the
// primary buffer selected, the title restored.
func (t *Terminal) resetAll() {
	t.pri.Reset()
	t.alt.Reset()
	t.buffer = t.pri

	t.modes = defaultModes()
	t.resetTabs()

	t.observer.ResetTitle()
}

// processAttributes applies an SGR parameter list to the pen.
func (t *Terminal) processAttributes(params []int32) {
	buf := t.buffer
	for i := 0; i < len(params); i++ {
		v := int(params[i])
		switch {
		case v == 0:
			buf.ResetStyle()
		case v == 1:
			buf.SetAttr(AttrBold)
		case v == 2:
			buf.SetAttr(AttrFaint)
		case v == 3:
			buf.SetAttr(AttrItalic)
		case v == 4:
			buf.SetAttr(AttrUnderline)
		case v == 5 || v == 6:
			buf.SetAttr(AttrBlink)
		case v == 7:
			buf.SetAttr(AttrInverse)
		case v == 8:
			buf.SetAttr(AttrConceal)
		case v == 21 || v == 22:
			buf.UnsetAttr(AttrBold)
			buf.UnsetAttr(AttrFaint)
		case v == 23:
			buf.UnsetAttr(AttrItalic)
		case v == 24:
			buf.UnsetAttr(AttrUnderline)
		case v == 25:
			buf.UnsetAttr(AttrBlink)
		case v == 27:
			buf.UnsetAttr(AttrInverse)
		case v == 28:
			buf.UnsetAttr(AttrConceal)
		case v >= 30 && v < 38:
			buf.SetFg(IndexedColor(uint8(v - 30)))
		case v == 38:
			color, skip, ok := extendedColor(params[i+1:])
			if !ok {
				return // deficient parameters abort the sequence
			}
			buf.SetFg(color)
			i += skip
		case v == 39:
			buf.SetFg(DefaultFgColor())
		case v >= 40 && v < 48:
			buf.SetBg(IndexedColor(uint8(v - 40)))
		case v == 48:
			color, skip, ok := extendedColor(params[i+1:])
			if !ok {
				return
			}
			buf.SetBg(color)
			i += skip
		case v == 49:
			buf.SetBg(DefaultBgColor())
		case v >= 90 && v < 98:
			buf.SetFg(IndexedColor(uint8(v - 90 + 8)))
		case v >= 100 && v < 108:
			buf.SetBg(IndexedColor(uint8(v - 100 + 8)))
		default:
			Logger.Printf("unhandled SGR attribute %d", v)
		}
	}
}

// extendedColor parses the tail of an SGR 38/48: either 5;n indexed or
// 2;r;g;b direct. skip is how many parameters were consumed; ok is false
// when the tail is too short, which aborts the whole SGR.
func extendedColor(rest []int32) (c Color, skip int, ok bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, 0, false
		}
		n := rest[1]
		if n < 0 || n > 255 {
			Logger.Printf("indexed color out of range: %d", n)
			return Color{}, 0, false
		}
		return IndexedColor(uint8(n)), 2, true
	case 2:
		if len(rest) < 4 {
			return Color{}, 0, false
		}
		return RGBColor(colorByte(rest[1]), colorByte(rest[2]), colorByte(rest[3])), 4, true
	default:
		Logger.Printf("unknown extended color selector %d", rest[0])
		return Color{}, 0, false
	}
}

func colorByte(v int32) uint8 {
	return uint8(clamp(int(v), 0, 255))
}

// processModes applies SM/RM parameter lists, private (DEC) or ANSI.
func (t *Terminal) processModes(private, set bool, params []int32) {
	for _, p := range params {
		a := int(p)
		if !private {
			switch a {
			case 0: // error, ignored
			case 2: // KAM
				t.modes.SetTo(ModeKbdLock, set)
			case 4: // IRM
				t.modes.SetTo(ModeInsert, set)
			case 12: // SRM
				t.modes.SetTo(ModeEcho, set)
			case 20: // LNM
				t.modes.SetTo(ModeCROnLF, set)
			default:
				Logger.Printf("unknown set/reset mode %d", a)
			}
			continue
		}

		switch a {
		case 1: // DECCKM
			t.modes.SetTo(ModeAppCursor, set)
		case 3: // DECCOLM
			if set {
				t.observer.ResizeBuffer(DefaultRows, 132)
			} else {
				t.observer.ResizeBuffer(DefaultRows, 80)
			}
		case 5: // DECSCNM
			if t.modes.Has(ModeReverse) != set {
				t.modes.SetTo(ModeReverse, set)
				t.buffer.DamageViewport(false)
			}
		case 6: // DECOM
			t.modes.SetTo(ModeOrigin, set)
			t.moveCursorOrigin(Pos{})
		case 7: // DECAWM
			t.modes.SetTo(ModeAutoWrap, set)
		case 8: // DECARM
			t.modes.SetTo(ModeAutoRepeat, set)
		case 12: // cursor blink, accepted
		case 25: // DECTCEM
			t.modes.SetTo(ModeShowCursor, set)
			t.buffer.damageCell(t.buffer.CursorPos())
		case 1000:
			t.modes.SetTo(ModeMouseButton, set)
			t.modes.Unset(ModeMouseMotion)
		case 1002:
			t.modes.SetTo(ModeMouseMotion, set)
			t.modes.Unset(ModeMouseButton)
		case 1004, 1005, 1015: // focus reports, urxvt mouse: accepted
		case 1006:
			t.modes.SetTo(ModeMouseSGR, set)
		case 1037:
			t.modes.SetTo(ModeDeleteSendsDel, set)
		case 1039:
			t.modes.SetTo(ModeAltSendsEsc, set)
		case 47, 1047:
			t.switchBuffer(set, false)
		case 1049:
			t.switchBuffer(set, true)
		case 1048:
			if set {
				t.buffer.SaveCursor()
			} else {
				t.buffer.RestoreCursor()
			}
		case 2004:
			t.modes.SetTo(ModeBracketedPaste, set)
		default:
			Logger.Printf("unknown private set/reset mode %d", a)
		}
	}
}

// switchBuffer flips between the primary and alternate screens. The
// cursor, pen and charsets migrate to the target buffer. The alternate
// screen is cleared on every entry; withCursor adds the 1049 cursor
// save/restore.
func (t *Terminal) switchBuffer(toAlt, withCursor bool) {
	target := t.pri
	if toAlt {
		target = t.alt
	}
	if target == t.buffer {
		return
	}

	if withCursor && toAlt {
		t.buffer.SaveCursor()
	}

	// The cursor travels across the switch.
	target.cursor = t.buffer.cursor
	target.g0, target.g1 = t.buffer.g0, t.buffer.g1
	target.savedCursor = t.buffer.savedCursor
	target.cursor.Pos.Row = clamp(target.cursor.Pos.Row, 0, target.Rows()-1)
	target.cursor.Pos.Col = clamp(target.cursor.Pos.Col, 0, target.Cols()-1)

	if toAlt {
		target.Clear()
	}
	t.buffer = target

	if withCursor && !toAlt {
		t.buffer.RestoreCursor()
	}
	t.buffer.DamageViewport(true)
}
