package terminol

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ScreenshotConfig controls how the viewport is rendered to an image.
type ScreenshotConfig struct {
	// Font face used for glyphs. Defaults to basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight override the cell dimensions. If zero they
	// are derived from font metrics.
	CellWidth  int
	CellHeight int

	// ShowCursor draws the cursor cell inverted. When nil, the terminal's
	// cursor-visibility mode (DECTCEM) decides.
	ShowCursor *bool
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Screenshot renders the current viewport to an RGBA image using the
// terminal's color scheme.
func (t *Terminal) Screenshot(cfg ScreenshotConfig) *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()

	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()

	cellW := cfg.CellWidth
	if cellW <= 0 {
		advance, _ := face.GlyphAdvance('M')
		cellW = advance.Ceil()
	}
	cellH := cfg.CellHeight
	if cellH <= 0 {
		cellH = metrics.Height.Ceil()
	}
	ascent := metrics.Ascent.Ceil()

	showCursor := t.modes.Has(ModeShowCursor)
	if cfg.ShowCursor != nil {
		showCursor = *cfg.ShowCursor
	}

	palette := NewPalette(t.scheme)
	b := t.buffer
	img := image.NewRGBA(image.Rect(0, 0, t.cols*cellW, t.rows*cellH))

	cursorV := b.CursorPos().Row + b.ScrollOffset()
	drawer := &font.Drawer{Dst: img, Face: face}

	for v := 0; v < b.Rows(); v++ {
		cells, _, _ := b.viewportLine(v)
		for c := 0; c < t.cols; c++ {
			cell := b.rowCell(cells, c)
			style := cell.Style
			if t.modes.Has(ModeReverse) {
				style.Fg, style.Bg = style.Bg, style.Fg
			}
			fg, bg := palette.ResolveStyle(style)
			if showCursor && v == cursorV && c == b.CursorPos().Col {
				fill, text := palette.CursorColors(fg, bg)
				fg, bg = text, fill
			}

			rect := image.Rect(c*cellW, v*cellH, (c+1)*cellW, (v+1)*cellH)
			fillRect(img, rect, color.RGBA{bg.R, bg.G, bg.B, 255})

			if cell.Seq != (Seq{' '}) && !cell.IsWideSpacer() {
				drawer.Src = image.NewUniform(color.RGBA{fg.R, fg.G, fg.B, 255})
				drawer.Dot = fixed.P(c*cellW, v*cellH+ascent)
				drawer.DrawString(cell.Seq.String())
			}
			if style.Attrs.Has(AttrUnderline) {
				underline := image.Rect(c*cellW, v*cellH+cellH-2, (c+1)*cellW, v*cellH+cellH-1)
				fillRect(img, underline, color.RGBA{fg.R, fg.G, fg.B, 255})
			}
		}
	}

	return img
}

// ScreenshotPNG renders the viewport and encodes it as PNG.
func (t *Terminal) ScreenshotPNG(w io.Writer, cfg ScreenshotConfig) error {
	return png.Encode(w, t.Screenshot(cfg))
}

func fillRect(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
