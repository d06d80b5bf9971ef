package terminol

import (
	"bytes"
	"testing"
)

func convert(t *testing.T, sym Keysym, mods ModifierSet, opts convertOptions) []byte {
	t.Helper()
	out, ok := KeyMap{}.Convert(sym, mods, opts)
	if !ok {
		t.Fatalf("expected key %v to encode", sym)
	}
	return out
}

func TestKeymapCursorKeys(t *testing.T) {
	km := convert(t, KeyUp, 0, convertOptions{})
	if !bytes.Equal(km, []byte("\x1b[A")) {
		t.Errorf("expected CSI A, got %q", km)
	}

	km = convert(t, KeyUp, 0, convertOptions{appCursor: true})
	if !bytes.Equal(km, []byte("\x1bOA")) {
		t.Errorf("expected SS3 A in application mode, got %q", km)
	}
}

func TestKeymapModifiedCursorKeys(t *testing.T) {
	km := convert(t, KeyRight, ModifierSet(ModControl), convertOptions{})
	if !bytes.Equal(km, []byte("\x1b[1;5C")) {
		t.Errorf("expected CSI 1;5C, got %q", km)
	}

	km = convert(t, KeyUp, ModifierSet(ModShift|ModAlt), convertOptions{})
	if !bytes.Equal(km, []byte("\x1b[1;4A")) {
		t.Errorf("expected CSI 1;4A, got %q", km)
	}
}

func TestKeymapTildeKeys(t *testing.T) {
	if km := convert(t, KeyPageUp, 0, convertOptions{}); !bytes.Equal(km, []byte("\x1b[5~")) {
		t.Errorf("expected CSI 5~, got %q", km)
	}
	if km := convert(t, KeyDelete, 0, convertOptions{}); !bytes.Equal(km, []byte("\x1b[3~")) {
		t.Errorf("expected CSI 3~, got %q", km)
	}
	if km := convert(t, KeyDelete, 0, convertOptions{deleteSendsDel: true}); !bytes.Equal(km, []byte{0x7F}) {
		t.Errorf("expected DEL byte, got %q", km)
	}
	if km := convert(t, KeyInsert, ModifierSet(ModShift), convertOptions{}); !bytes.Equal(km, []byte("\x1b[2;2~")) {
		t.Errorf("expected CSI 2;2~, got %q", km)
	}
}

func TestKeymapReturn(t *testing.T) {
	if km := convert(t, KeyReturn, 0, convertOptions{}); !bytes.Equal(km, []byte{'\r'}) {
		t.Errorf("expected CR, got %q", km)
	}
	if km := convert(t, KeyReturn, 0, convertOptions{crOnLf: true}); !bytes.Equal(km, []byte{'\r', '\n'}) {
		t.Errorf("expected CRLF with LNM, got %q", km)
	}
}

func TestKeymapFunctionKeys(t *testing.T) {
	if km := convert(t, KeyF1, 0, convertOptions{}); !bytes.Equal(km, []byte("\x1bOP")) {
		t.Errorf("expected SS3 P, got %q", km)
	}
	if km := convert(t, KeyF5, 0, convertOptions{}); !bytes.Equal(km, []byte("\x1b[15~")) {
		t.Errorf("expected CSI 15~, got %q", km)
	}
	if km := convert(t, KeyF12, 0, convertOptions{}); !bytes.Equal(km, []byte("\x1b[24~")) {
		t.Errorf("expected CSI 24~, got %q", km)
	}
}

func TestKeymapControlLetters(t *testing.T) {
	if km := convert(t, 'c', ModifierSet(ModControl), convertOptions{}); !bytes.Equal(km, []byte{0x03}) {
		t.Errorf("expected ETX for Ctrl+C, got %q", km)
	}
	if km := convert(t, 'a', ModifierSet(ModControl), convertOptions{}); !bytes.Equal(km, []byte{0x01}) {
		t.Errorf("expected SOH for Ctrl+A, got %q", km)
	}
}

func TestKeymapAltPrefix(t *testing.T) {
	km := convert(t, 'x', ModifierSet(ModAlt), convertOptions{altSendsEsc: true})
	if !bytes.Equal(km, []byte{0x1B, 'x'}) {
		t.Errorf("expected ESC prefix, got %q", km)
	}

	km = convert(t, 'x', ModifierSet(ModAlt), convertOptions{})
	if !bytes.Equal(km, []byte{'x'}) {
		t.Errorf("expected bare rune without altSendsEsc, got %q", km)
	}
}

func TestKeymapRunes(t *testing.T) {
	if km := convert(t, 'A', 0, convertOptions{}); !bytes.Equal(km, []byte{'A'}) {
		t.Errorf("expected plain byte, got %q", km)
	}
	if km := convert(t, 'é', 0, convertOptions{}); !bytes.Equal(km, []byte("é")) {
		t.Errorf("expected UTF-8 bytes, got %q", km)
	}
}

func TestKeymapKeypad(t *testing.T) {
	if km := convert(t, KeyKP5, 0, convertOptions{}); !bytes.Equal(km, []byte{'5'}) {
		t.Errorf("expected plain digit, got %q", km)
	}
	if km := convert(t, KeyKP5, 0, convertOptions{appKeypad: true}); !bytes.Equal(km, []byte("\x1bOu")) {
		t.Errorf("expected SS3 u in application keypad mode, got %q", km)
	}
	if km := convert(t, KeyKPEnter, 0, convertOptions{appKeypad: true}); !bytes.Equal(km, []byte("\x1bOM")) {
		t.Errorf("expected SS3 M, got %q", km)
	}
}

func TestKeymapShiftTab(t *testing.T) {
	if km := convert(t, KeyTab, ModifierSet(ModShift), convertOptions{}); !bytes.Equal(km, []byte("\x1b[Z")) {
		t.Errorf("expected CBT sequence, got %q", km)
	}
}
