package terminol

import "testing"

func TestColorSchemesComplete(t *testing.T) {
	names := []string{
		"linux", "rxvt", "tango", "xterm",
		"zenburn", "zenburn-dark", "solarized-dark", "solarized-light",
	}
	for _, name := range names {
		if _, ok := LookupColorScheme(name); !ok {
			t.Errorf("missing scheme %q", name)
		}
	}
	if len(ColorSchemeNames()) != len(names) {
		t.Errorf("expected %d schemes, got %d", len(names), len(ColorSchemeNames()))
	}
}

func TestSchemeDerivedColors(t *testing.T) {
	linux, _ := LookupColorScheme("linux")
	if linux.Foreground != linux.System[7] || linux.Background != linux.System[0] {
		t.Error("linux scheme should derive fg/bg from slots 7/0")
	}
	if linux.CustomCursorFill {
		t.Error("linux scheme has no custom cursor fill")
	}

	sol, _ := LookupColorScheme("solarized-dark")
	if sol.Foreground != sol.System[12] || sol.Background != sol.System[8] {
		t.Error("solarized should derive fg/bg from slots 12/8")
	}
	if !sol.CustomCursorFill || sol.CursorFill != sol.System[14] {
		t.Error("solarized should take its cursor fill from slot 14")
	}
}

func TestPaletteCube(t *testing.T) {
	scheme, _ := LookupColorScheme("xterm")
	p := NewPalette(scheme)

	if p.Indexed(0) != scheme.System[0] || p.Indexed(15) != scheme.System[15] {
		t.Error("system slots should pass through")
	}
	if p.Indexed(16) != (RGB{0, 0, 0}) {
		t.Errorf("cube origin should be black, got %v", p.Indexed(16))
	}
	if p.Indexed(231) != (RGB{255, 255, 255}) {
		t.Errorf("cube end should be white, got %v", p.Indexed(231))
	}
	if p.Indexed(232) != (RGB{8, 8, 8}) {
		t.Errorf("grayscale ramp starts at 8, got %v", p.Indexed(232))
	}
	if p.Indexed(255) != (RGB{238, 238, 238}) {
		t.Errorf("grayscale ramp ends at 238, got %v", p.Indexed(255))
	}
}

func TestPaletteResolve(t *testing.T) {
	scheme, _ := LookupColorScheme("linux")
	p := NewPalette(scheme)

	if p.Resolve(IndexedColor(1)) != scheme.System[1] {
		t.Error("indexed resolve failed")
	}
	if p.Resolve(RGBColor(9, 8, 7)) != (RGB{9, 8, 7}) {
		t.Error("rgb resolve failed")
	}
	if p.Resolve(DefaultFgColor()) != scheme.Foreground {
		t.Error("default fg resolve failed")
	}
	if p.Resolve(DefaultBgColor()) != scheme.Background {
		t.Error("default bg resolve failed")
	}
}

func TestResolveStyleInverse(t *testing.T) {
	scheme, _ := LookupColorScheme("linux")
	p := NewPalette(scheme)

	style := DefaultStyle()
	style.Attrs.Set(AttrInverse)
	fg, bg := p.ResolveStyle(style)

	if fg != scheme.Background || bg != scheme.Foreground {
		t.Error("inverse should swap resolved colors")
	}
}

func TestResolveStyleConceal(t *testing.T) {
	scheme, _ := LookupColorScheme("linux")
	p := NewPalette(scheme)

	style := DefaultStyle()
	style.Attrs.Set(AttrConceal)
	fg, bg := p.ResolveStyle(style)

	if fg != bg {
		t.Error("concealed text should render invisibly")
	}
}

func TestResolveStyleFaint(t *testing.T) {
	scheme, _ := LookupColorScheme("linux")
	p := NewPalette(scheme)

	style := DefaultStyle()
	fullFg, _ := p.ResolveStyle(style)
	style.Attrs.Set(AttrFaint)
	faintFg, _ := p.ResolveStyle(style)

	if faintFg == fullFg {
		t.Error("faint should dim the foreground")
	}
}
