package terminol

import "fmt"

// Keysym identifies a key. Printable keys are their rune value; editing
// and function keys use the constants below.
type Keysym rune

const (
	KeyReturn Keysym = 0x110000 + iota
	KeyEscape
	KeyBackspace
	KeyTab
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter
	KeyKPEqual
)

// Modifier is a single keyboard modifier.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModControl
)

// ModifierSet is a bitmask of modifiers.
type ModifierSet uint8

// Has returns true if the modifier is held.
func (m ModifierSet) Has(mod Modifier) bool {
	return ModifierSet(mod)&m != 0
}

// xtermModifier is the parameter xterm appends to modified special keys:
// 1 + shift(1) + alt(2) + control(4).
func (m ModifierSet) xtermModifier() int {
	n := 1
	if m.Has(ModShift) {
		n += 1
	}
	if m.Has(ModAlt) {
		n += 2
	}
	if m.Has(ModControl) {
		n += 4
	}
	return n
}

// KeyMap translates keysyms into the byte sequences a VT-style terminal
// sends, honoring the application cursor/keypad modes and the configured
// Delete and Alt behaviors.
type KeyMap struct{}

// specialKey describes an editing or function key: its normal CSI final
// or tilde number, and its SS3 final in application cursor mode.
type specialKey struct {
	final byte // CSI final for cursor-style keys, 0 for tilde keys
	ss3   byte // SS3 final in application mode, 0 if none
	tilde int  // CSI <n> ~ number, 0 if none
}

var specialKeys = map[Keysym]specialKey{
	KeyUp:       {final: 'A', ss3: 'A'},
	KeyDown:     {final: 'B', ss3: 'B'},
	KeyRight:    {final: 'C', ss3: 'C'},
	KeyLeft:     {final: 'D', ss3: 'D'},
	KeyHome:     {final: 'H', ss3: 'H'},
	KeyEnd:      {final: 'F', ss3: 'F'},
	KeyInsert:   {tilde: 2},
	KeyDelete:   {tilde: 3},
	KeyPageUp:   {tilde: 5},
	KeyPageDown: {tilde: 6},
	KeyF1:       {ss3: 'P'},
	KeyF2:       {ss3: 'Q'},
	KeyF3:       {ss3: 'R'},
	KeyF4:       {ss3: 'S'},
	KeyF5:       {tilde: 15},
	KeyF6:       {tilde: 17},
	KeyF7:       {tilde: 18},
	KeyF8:       {tilde: 19},
	KeyF9:       {tilde: 20},
	KeyF10:      {tilde: 21},
	KeyF11:      {tilde: 23},
	KeyF12:      {tilde: 24},
}

// convertOptions carries the mode state that affects key encoding.
type convertOptions struct {
	appKeypad      bool
	appCursor      bool
	crOnLf         bool
	deleteSendsDel bool
	altSendsEsc    bool
}

// keypadKey describes a keypad key: the application-mode SS3 final and
// the plain character sent in numeric mode.
type keypadKey struct {
	ss3   byte
	plain byte
}

var keypadKeys = map[Keysym]keypadKey{
	KeyKP0:        {'p', '0'},
	KeyKP1:        {'q', '1'},
	KeyKP2:        {'r', '2'},
	KeyKP3:        {'s', '3'},
	KeyKP4:        {'t', '4'},
	KeyKP5:        {'u', '5'},
	KeyKP6:        {'v', '6'},
	KeyKP7:        {'w', '7'},
	KeyKP8:        {'x', '8'},
	KeyKP9:        {'y', '9'},
	KeyKPDecimal:  {'n', '.'},
	KeyKPDivide:   {'o', '/'},
	KeyKPMultiply: {'j', '*'},
	KeyKPSubtract: {'m', '-'},
	KeyKPAdd:      {'k', '+'},
	KeyKPEnter:    {'M', '\r'},
	KeyKPEqual:    {'X', '='},
}

// Convert encodes a key press. ok is false for keysyms that produce no
// bytes (bare modifiers, unknown specials).
func (k KeyMap) Convert(sym Keysym, mods ModifierSet, opts convertOptions) (out []byte, ok bool) {
	if kp, found := keypadKeys[sym]; found {
		if opts.appKeypad {
			return []byte{ctrlESC, 'O', kp.ss3}, true
		}
		if kp.plain == '\r' && opts.crOnLf {
			return []byte{'\r', '\n'}, true
		}
		return []byte{kp.plain}, true
	}

	switch sym {
	case KeyReturn:
		out = []byte{'\r'}
		if opts.crOnLf {
			out = append(out, '\n')
		}
	case KeyEscape:
		out = []byte{ctrlESC}
	case KeyBackspace:
		out = []byte{ctrlDEL}
		if mods.Has(ModControl) {
			out = []byte{ctrlBS}
		}
	case KeyTab:
		if mods.Has(ModShift) {
			out = []byte{ctrlESC, '[', 'Z'}
		} else {
			out = []byte{ctrlHT}
		}
	case KeyDelete:
		if opts.deleteSendsDel && mods == 0 {
			out = []byte{ctrlDEL}
		} else {
			out = encodeSpecial(specialKeys[sym], mods, opts)
		}
	default:
		if spec, found := specialKeys[sym]; found {
			out = encodeSpecial(spec, mods, opts)
			break
		}
		if sym >= 0x110000 || sym < 0 {
			return nil, false
		}
		out = encodeRune(rune(sym), mods)
	}

	if len(out) == 0 {
		return nil, false
	}
	if mods.Has(ModAlt) && opts.altSendsEsc && out[0] != ctrlESC {
		out = append([]byte{ctrlESC}, out...)
	}
	return out, true
}

// encodeSpecial produces the CSI/SS3 sequence for an editing or function
// key, appending the xterm modifier parameter when modifiers are held.
func encodeSpecial(spec specialKey, mods ModifierSet, opts convertOptions) []byte {
	if spec.tilde != 0 {
		if mods != 0 {
			return []byte(fmt.Sprintf("\x1b[%d;%d~", spec.tilde, mods.xtermModifier()))
		}
		return []byte(fmt.Sprintf("\x1b[%d~", spec.tilde))
	}

	app := opts.appCursor
	if spec.final == 0 {
		// Function keys F1..F4 are SS3-only.
		app = true
	}

	if mods != 0 {
		final := spec.final
		if final == 0 {
			final = spec.ss3
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mods.xtermModifier(), final))
	}
	if app && spec.ss3 != 0 {
		return []byte{ctrlESC, 'O', spec.ss3}
	}
	return []byte{ctrlESC, '[', spec.final}
}

// encodeRune produces bytes for a printable key, folding Control
// combinations onto their C0 codes.
func encodeRune(r rune, mods ModifierSet) []byte {
	if mods.Has(ModControl) {
		switch {
		case r >= 'a' && r <= 'z':
			return []byte{byte(r - 'a' + 1)}
		case r >= 'A' && r <= 'Z':
			return []byte{byte(r - 'A' + 1)}
		case r == ' ' || r == '@':
			return []byte{0}
		case r == '[':
			return []byte{ctrlESC}
		case r == '\\':
			return []byte{0x1C}
		case r == ']':
			return []byte{0x1D}
		case r == '^':
			return []byte{0x1E}
		case r == '_' || r == '/':
			return []byte{0x1F}
		case r == '?':
			return []byte{ctrlDEL}
		}
	}
	seq := NewSeq(r)
	return append([]byte(nil), seq.Bytes()...)
}
