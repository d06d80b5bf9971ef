package terminol

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a direct 24-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ColorKind discriminates the Color union.
type ColorKind uint8

const (
	// ColorIndexed selects a palette slot 0..255.
	ColorIndexed ColorKind = iota
	// ColorRGB is a direct 24-bit color.
	ColorRGB
	// ColorDefaultFg is the scheme's default foreground.
	ColorDefaultFg
	// ColorDefaultBg is the scheme's default background.
	ColorDefaultBg
)

// Color is a tagged union: a palette index, a direct RGB value, or one of
// the default foreground/background sentinels. The zero value is palette
// index 0; construct colors through the functions below.
type Color struct {
	Kind  ColorKind
	Index uint8
	Value RGB
}

// IndexedColor returns a palette color. Indices 0..15 are the ANSI system
// colors, 16..231 the 6x6x6 cube, 232..255 the grayscale ramp.
func IndexedColor(index uint8) Color {
	return Color{Kind: ColorIndexed, Index: index}
}

// RGBColor returns a direct 24-bit color.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, Value: RGB{r, g, b}}
}

// DefaultFgColor returns the default-foreground sentinel.
func DefaultFgColor() Color {
	return Color{Kind: ColorDefaultFg}
}

// DefaultBgColor returns the default-background sentinel.
func DefaultBgColor() Color {
	return Color{Kind: ColorDefaultBg}
}

func (c Color) String() string {
	switch c.Kind {
	case ColorIndexed:
		return fmt.Sprintf("i%d", c.Index)
	case ColorRGB:
		return c.Value.String()
	case ColorDefaultFg:
		return "fg"
	default:
		return "bg"
	}
}

// ColorScheme is a named set of 16 system colors plus the derived default
// foreground, background and cursor fill.
type ColorScheme struct {
	Name             string
	System           [16]RGB
	Foreground       RGB
	Background       RGB
	CursorFill       RGB
	CustomCursorFill bool
}

// scheme builds the common case: fg from slot 7, bg from slot 0, cursor
// fill by inversion.
func scheme(name string, system [16]RGB) ColorScheme {
	return ColorScheme{
		Name:       name,
		System:     system,
		Foreground: system[7],
		Background: system[0],
	}
}

// solarizedScheme builds the solarized variants: fg slot 12, bg slot 8,
// custom cursor fill from slot 14.
func solarizedScheme(name string, system [16]RGB) ColorScheme {
	return ColorScheme{
		Name:             name,
		System:           system,
		Foreground:       system[12],
		Background:       system[8],
		CursorFill:       system[14],
		CustomCursorFill: true,
	}
}

var colorSchemes = map[string]ColorScheme{
	"linux": scheme("linux", [16]RGB{
		{0x00, 0x00, 0x00}, {0xA8, 0x00, 0x00}, {0x00, 0xA8, 0x00}, {0xA8, 0x57, 0x00},
		{0x00, 0x00, 0xA8}, {0xA8, 0x00, 0xA8}, {0x00, 0xA8, 0xA8}, {0xA8, 0xA8, 0xA8},
		{0x57, 0x57, 0x57}, {0xFF, 0x57, 0x57}, {0x57, 0xFF, 0x57}, {0xFF, 0xFF, 0x57},
		{0x57, 0x57, 0xFF}, {0xFF, 0x57, 0xFF}, {0x57, 0xFF, 0xFF}, {0xFF, 0xFF, 0xFF},
	}),
	"rxvt": scheme("rxvt", [16]RGB{
		{0x00, 0x00, 0x00}, {0xCD, 0x00, 0x00}, {0x00, 0xCD, 0x00}, {0xCD, 0xCD, 0x00},
		{0x00, 0x00, 0xCD}, {0xCD, 0x00, 0xCD}, {0x00, 0xCD, 0xCD}, {0xFA, 0xEB, 0xD7},
		{0x40, 0x40, 0x40}, {0xFF, 0x00, 0x00}, {0x00, 0xFF, 0x00}, {0xFF, 0xFF, 0x00},
		{0x00, 0x00, 0xFF}, {0xFF, 0x00, 0xFF}, {0x00, 0xFF, 0xFF}, {0xFF, 0xFF, 0xFF},
	}),
	"tango": scheme("tango", [16]RGB{
		{0x2E, 0x34, 0x36}, {0xCC, 0x00, 0x00}, {0x4E, 0x9A, 0x06}, {0xC4, 0xA0, 0x00},
		{0x34, 0x65, 0xA4}, {0x75, 0x50, 0x7B}, {0x06, 0x98, 0x9A}, {0xD3, 0xD7, 0xCF},
		{0x55, 0x57, 0x53}, {0xEF, 0x29, 0x29}, {0x8A, 0xE2, 0x34}, {0xFC, 0xE9, 0x4F},
		{0x72, 0x9F, 0xCF}, {0xAD, 0x7F, 0xA8}, {0x34, 0xE2, 0xE2}, {0xEE, 0xEE, 0xEC},
	}),
	"xterm": scheme("xterm", [16]RGB{
		{0x00, 0x00, 0x00}, {0xCD, 0x00, 0x00}, {0x00, 0xCD, 0x00}, {0xCD, 0xCD, 0x00},
		{0x00, 0x00, 0xEE}, {0xCD, 0x00, 0xCD}, {0x00, 0xCD, 0xCD}, {0xE5, 0xE5, 0xE5},
		{0x7F, 0x7F, 0x7F}, {0xFF, 0x00, 0x00}, {0x00, 0xFF, 0x00}, {0xFF, 0xFF, 0x00},
		{0x5C, 0x5C, 0xFF}, {0xFF, 0x00, 0xFF}, {0x00, 0xFF, 0xFF}, {0xFF, 0xFF, 0xFF},
	}),
	"zenburn-dark": scheme("zenburn-dark", [16]RGB{
		{0x00, 0x00, 0x00}, {0x9E, 0x18, 0x28}, {0xAE, 0xCE, 0x92}, {0x96, 0x8A, 0x38},
		{0x41, 0x41, 0x71}, {0x96, 0x3C, 0x59}, {0x41, 0x81, 0x79}, {0xBE, 0xBE, 0xBE},
		{0x66, 0x66, 0x66}, {0xCF, 0x61, 0x71}, {0xC5, 0xF7, 0x79}, {0xFF, 0xF7, 0x96},
		{0x41, 0x86, 0xBE}, {0xCF, 0x9E, 0xBE}, {0x71, 0xBE, 0xBE}, {0xFF, 0xFF, 0xFF},
	}),
	"zenburn": scheme("zenburn", [16]RGB{
		{0x3F, 0x3F, 0x3F}, {0x70, 0x50, 0x50}, {0x60, 0xB4, 0x8A}, {0xDF, 0xAF, 0x8F},
		{0x50, 0x60, 0x70}, {0xDC, 0x8C, 0xC3}, {0x8C, 0xD0, 0xD3}, {0xDC, 0xDC, 0xCC},
		{0x70, 0x90, 0x80}, {0xDC, 0xA3, 0xA3}, {0xC3, 0xBF, 0x9F}, {0xF0, 0xDF, 0xAF},
		{0x94, 0xBF, 0xF3}, {0xEC, 0x93, 0xD3}, {0x93, 0xE0, 0xE3}, {0xFF, 0xFF, 0xFF},
	}),
	"solarized-dark": solarizedScheme("solarized-dark", [16]RGB{
		{0x07, 0x36, 0x42}, {0xDC, 0x32, 0x2F}, {0x85, 0x99, 0x00}, {0xB5, 0x89, 0x00},
		{0x26, 0x8B, 0xD2}, {0xD3, 0x36, 0x82}, {0x2A, 0xA1, 0x98}, {0xEE, 0xE8, 0xD5},
		{0x00, 0x2B, 0x36}, {0xCB, 0x4B, 0x16}, {0x58, 0x6E, 0x75}, {0x65, 0x7B, 0x83},
		{0x83, 0x94, 0x96}, {0x6C, 0x71, 0xC4}, {0x93, 0xA1, 0xA1}, {0xFD, 0xF6, 0xE3},
	}),
	"solarized-light": solarizedScheme("solarized-light", [16]RGB{
		{0xEE, 0xE8, 0xD5}, {0xDC, 0x32, 0x2F}, {0x85, 0x99, 0x00}, {0xB5, 0x89, 0x00},
		{0x26, 0x8B, 0xD2}, {0xD3, 0x36, 0x82}, {0x2A, 0xA1, 0x98}, {0x07, 0x36, 0x42},
		{0xFD, 0xF6, 0xE3}, {0xCB, 0x4B, 0x16}, {0x93, 0xA1, 0xA1}, {0x83, 0x94, 0x96},
		{0x65, 0x7B, 0x83}, {0x6C, 0x71, 0xC4}, {0x58, 0x6E, 0x75}, {0x00, 0x2B, 0x36},
	}),
}

// ScrollbarFg is the scrollbar thumb color, fixed across schemes.
var ScrollbarFg = RGB{0x7F, 0x7F, 0x7F}

// LookupColorScheme returns the named built-in scheme. The known names are
// linux, rxvt, tango, xterm, zenburn, zenburn-dark, solarized-dark and
// solarized-light.
func LookupColorScheme(name string) (ColorScheme, bool) {
	s, ok := colorSchemes[name]
	return s, ok
}

// ColorSchemeNames returns the names of the built-in schemes.
func ColorSchemeNames() []string {
	names := make([]string, 0, len(colorSchemes))
	for name := range colorSchemes {
		names = append(names, name)
	}
	return names
}

// Palette resolves Color values to concrete RGB for a particular scheme:
// 16 system colors, the 6x6x6 cube and the grayscale ramp.
type Palette struct {
	scheme  ColorScheme
	indexed [256]RGB
}

// NewPalette builds the 256-entry palette for a scheme.
func NewPalette(scheme ColorScheme) *Palette {
	p := &Palette{scheme: scheme}
	copy(p.indexed[:16], scheme.System[:])

	// 6x6x6 color cube (16..231)
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.indexed[i] = RGB{uint8(r * 51), uint8(g * 51), uint8(b * 51)}
				i++
			}
		}
	}

	// Grayscale ramp (232..255)
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p.indexed[232+j] = RGB{gray, gray, gray}
	}

	return p
}

// Scheme returns the scheme the palette was built from.
func (p *Palette) Scheme() ColorScheme {
	return p.scheme
}

// Indexed returns palette slot i.
func (p *Palette) Indexed(i uint8) RGB {
	return p.indexed[i]
}

// Resolve maps a Color union to concrete RGB.
func (p *Palette) Resolve(c Color) RGB {
	switch c.Kind {
	case ColorIndexed:
		return p.indexed[c.Index]
	case ColorRGB:
		return c.Value
	case ColorDefaultFg:
		return p.scheme.Foreground
	default:
		return p.scheme.Background
	}
}

// ResolveStyle maps a style's colors to concrete RGB, applying the
// attributes that act on color: INVERSE swaps, FAINT dims the foreground
// toward the background, CONCEAL hides the foreground entirely.
func (p *Palette) ResolveStyle(style Style) (fg, bg RGB) {
	fg = p.Resolve(style.Fg)
	bg = p.Resolve(style.Bg)
	if style.Attrs.Has(AttrInverse) {
		fg, bg = bg, fg
	}
	if style.Attrs.Has(AttrConceal) {
		fg = bg
	} else if style.Attrs.Has(AttrFaint) {
		fg = blendRGB(fg, bg, 0.5)
	}
	return fg, bg
}

// CursorColors returns the fill and text colors for drawing the cursor
// over a cell with the given resolved colors.
func (p *Palette) CursorColors(cellFg, cellBg RGB) (fill, text RGB) {
	if p.scheme.CustomCursorFill {
		return p.scheme.CursorFill, cellBg
	}
	return cellFg, cellBg
}

// blendRGB mixes a toward b in RGB space.
func blendRGB(a, b RGB, t float64) RGB {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	m := ca.BlendRgb(cb, t).Clamped()
	return RGB{uint8(m.R*255 + 0.5), uint8(m.G*255 + 0.5), uint8(m.B*255 + 0.5)}
}
