package fontatlas

// Glyph is one rasterized character: its final bitmap size, layout
// metrics, and where the bitmap lives in the atlas.
//
// A Glyph is immutable after creation except for its kerning map,
// which only accumulates entries. Width and Height of 0 mark a
// whitespace glyph that advances the pen but owns no atlas pixels.
type Glyph struct {
	// Rune is the code point this glyph renders.
	Rune rune

	// Width and Height are the pixel dimensions of the final bitmap,
	// after border and shadow compositing. Both 0 for whitespace.
	Width  int
	Height int

	// XOffset and YOffset position the bitmap relative to the pen.
	// The sign convention of YOffset follows Parameters.Flip.
	XOffset int
	YOffset int

	// XAdvance is the horizontal pen advance in pixels, including
	// border width and extra spacing.
	XAdvance int

	// Page is the index of the atlas page holding the bitmap.
	Page int

	// SrcX and SrcY locate the bitmap's top-left corner on that page.
	SrcX int
	SrcY int

	// kerning holds signed pair adjustments keyed by the following
	// code point. Sparse: no entry means zero adjustment.
	kerning map[rune]int
}

// Kern returns the horizontal adjustment applied when next follows
// this glyph, or 0 when the pair has no kerning.
func (g *Glyph) Kern(next rune) int {
	return g.kerning[next]
}

// SetKern records the adjustment applied when next follows this glyph.
func (g *Glyph) SetKern(next rune, amount int) {
	if g.kerning == nil {
		g.kerning = make(map[rune]int)
	}
	g.kerning[next] = amount
}

// KernCount returns the number of recorded kerning pairs.
func (g *Glyph) KernCount() int {
	return len(g.kerning)
}

// Empty reports whether the glyph owns no atlas pixels (whitespace).
func (g *Glyph) Empty() bool {
	return g.Width == 0 && g.Height == 0
}
