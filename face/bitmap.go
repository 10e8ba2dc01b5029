package face

import (
	"image"
	"image/color"
)

// colorOpaque is full coverage for expanded 1-bit pixels.
var colorOpaque = color.Alpha{A: 0xFF}

// BitmapGlyph is one glyph of a pre-rasterized strike: 1-bit coverage
// rows, most significant bit leftmost.
type BitmapGlyph struct {
	// Width and Height are the glyph cell size in pixels.
	Width, Height int

	// Rows holds one bit mask per row. Bit 31 is the leftmost pixel.
	Rows []uint32

	// Advance overrides the font's default advance when positive.
	Advance int
}

// BitmapFont describes a fixed-size embedded-bitmap font.
type BitmapFont struct {
	// Name is the font name reported by the face.
	Name string

	// Ascent is the number of pixel rows above the baseline.
	Ascent int

	// LineHeight is the baseline-to-baseline distance. Leave 0 for
	// strikes that do not declare one; generation falls back to the
	// tallest glyph.
	LineHeight int

	// Advance is the default pen advance for glyphs that do not carry
	// their own.
	Advance int

	// Glyphs maps code points to their strike data.
	Glyphs map[rune]BitmapGlyph
}

// NewBitmapFace wraps a fixed-size strike font in the Face interface.
// The pixel size passed to Face calls is ignored: a strike has exactly
// one size. Kerning is never available.
func NewBitmapFace(f *BitmapFont) Face {
	return &bitmapFace{font: f}
}

type bitmapFace struct {
	font *BitmapFont
}

func (f *bitmapFace) Name() string { return f.font.Name }

func (f *bitmapFace) NumGlyphs() int { return len(f.font.Glyphs) }

func (f *bitmapFace) Bitmapped() bool { return true }

func (f *bitmapFace) HasGlyph(r rune) bool {
	_, ok := f.font.Glyphs[r]
	return ok
}

func (f *bitmapFace) Metrics(size float64, hinting Hinting) (Metrics, error) {
	maxAdvance := f.font.Advance
	maxWidth := 0
	maxHeight := 0
	for _, g := range f.font.Glyphs {
		if g.Advance > maxAdvance {
			maxAdvance = g.Advance
		}
		if g.Width > maxWidth {
			maxWidth = g.Width
		}
		if g.Height > maxHeight {
			maxHeight = g.Height
		}
	}
	// A strike that declares no advances still moves the pen by its
	// widest cell.
	if maxAdvance == 0 {
		maxAdvance = maxWidth
	}
	return Metrics{
		Ascent:     float64(f.font.Ascent),
		Descent:    -float64(maxHeight - f.font.Ascent),
		LineHeight: float64(f.font.LineHeight),
		MaxAdvance: float64(maxAdvance),
	}, nil
}

func (f *bitmapFace) LoadGlyph(r rune, size float64, hinting Hinting) (*Glyph, error) {
	bg, ok := f.font.Glyphs[r]
	if !ok {
		return nil, &GlyphLoadError{Rune: r, Err: errGlyphNotRendered}
	}

	advance := bg.Advance
	if advance <= 0 {
		advance = f.font.Advance
	}
	if advance <= 0 {
		advance = bg.Width
	}

	g := &Glyph{
		Bounds:  image.Rect(0, -f.font.Ascent, bg.Width, bg.Height-f.font.Ascent),
		Advance: float64(advance),
		Bitmap:  true,
	}
	if bg.Width <= 0 || bg.Height <= 0 {
		return g, nil
	}

	// Expand the 1-bit rows into an opaque/transparent alpha mask.
	mask := image.NewAlpha(image.Rect(0, 0, bg.Width, bg.Height))
	for y := 0; y < bg.Height && y < len(bg.Rows); y++ {
		row := bg.Rows[y]
		for x := 0; x < bg.Width; x++ {
			if row&(1<<(31-uint(x))) != 0 {
				mask.SetAlpha(x, y, colorOpaque)
			}
		}
	}
	g.Mask = mask
	return g, nil
}

func (f *bitmapFace) Kern(a, b rune, size float64, hinting Hinting) float64 { return 0 }

func (f *bitmapFace) HasKerning() bool { return false }

func (f *bitmapFace) Close() error { return nil }
