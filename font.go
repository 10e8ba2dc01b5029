package fontatlas

import (
	"errors"
	"math"

	"github.com/gogpu/fontatlas/face"
	"github.com/gogpu/fontatlas/pack"
)

// Font is a generated bitmap font: font-wide metrics, per-rune glyphs
// with kerning, and the atlas pages holding the glyph bitmaps.
//
// A Font generated with Parameters.Incremental grows on demand through
// Lookup and tracks page changes with a dirty flag so callers know when
// to re-upload atlas textures. A Font is not safe for concurrent use.
type Font struct {
	name    string
	metrics Metrics
	params  Parameters
	glyphs  map[rune]*Glyph
	order   []*Glyph
	pages   []*Pixmap
	packer  *pack.Packer
	gen     *Generator // set only for incremental fonts
	missing *Glyph
	dirty   bool
	closed  bool
}

// Name returns the font family name.
func (f *Font) Name() string {
	return f.name
}

// Metrics returns the font-wide metrics.
func (f *Font) Metrics() Metrics {
	return f.metrics
}

// Pages returns the atlas pages. The slice and the pixmaps are owned by
// the Font; treat them as read-only.
func (f *Font) Pages() []*Pixmap {
	return f.pages
}

// GlyphCount returns the number of generated glyphs.
func (f *Font) GlyphCount() int {
	return len(f.order)
}

// Glyphs calls fn for every generated glyph in generation order.
func (f *Font) Glyphs(fn func(*Glyph) bool) {
	for _, g := range f.order {
		if !fn(g) {
			return
		}
	}
}

// Glyph returns the glyph for r, or the missing-glyph placeholder when
// the font has no glyph for it. It never rasterizes; use Lookup on
// incremental fonts.
func (f *Font) Glyph(r rune) *Glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}
	return f.missing
}

// Lookup returns the glyph for r, rasterizing and packing it first on
// an incremental font. fresh reports whether this call added pixels to
// a page; when true the font is also marked dirty.
//
// A rune the face cannot render resolves to the missing-glyph
// placeholder, and the miss is recorded so the face is not probed
// again. On non-incremental fonts Lookup never mutates the font.
func (f *Font) Lookup(r rune) (*Glyph, bool, error) {
	if g, ok := f.glyphs[r]; ok {
		return g, false, nil
	}
	if !f.params.Incremental {
		return f.missing, false, nil
	}
	if f.closed {
		return nil, false, errFontClosed
	}
	if f.gen == nil || f.gen.closed {
		return nil, false, errFontClosed
	}

	glyph, err := f.createGlyph(f.gen.face, r)
	if err != nil {
		var loadErr *face.GlyphLoadError
		if errors.As(err, &loadErr) {
			Logger().Warn("skipping glyph that failed to render",
				"font", f.name, "rune", string(r), "error", err)
			f.glyphs[r] = f.missing
			return f.missing, false, nil
		}
		return nil, false, err
	}
	if glyph == nil {
		// Terminal miss: remember it so repeated lookups stay cheap.
		f.glyphs[r] = f.missing
		return f.missing, false, nil
	}

	f.glyphs[r] = glyph

	if f.params.Kerning && f.gen.face.HasKerning() {
		size := float64(f.params.Size)
		for _, other := range f.order {
			f.captureKernPair(f.gen.face, glyph.Rune, other.Rune, size, f.params.Hinting)
			f.captureKernPair(f.gen.face, other.Rune, glyph.Rune, size, f.params.Hinting)
		}
		f.captureKernPair(f.gen.face, glyph.Rune, glyph.Rune, size, f.params.Hinting)
	}

	f.order = append(f.order, glyph)
	return glyph, !glyph.Empty(), nil
}

// Dirty reports whether atlas pages changed since the last MarkClean.
func (f *Font) Dirty() bool {
	return f.dirty
}

// MarkClean clears the dirty flag, typically after the caller uploaded
// the changed pages.
func (f *Font) MarkClean() {
	f.dirty = false
}

// Close releases the font. An incremental font stops accepting lookups
// of new glyphs; already generated glyphs and pages remain readable.
func (f *Font) Close() error {
	f.closed = true
	f.gen = nil
	return nil
}

// createGlyph rasterizes, composites, and packs one rune. Returns
// (nil, nil) when the face has no glyph for it.
func (f *Font) createGlyph(fc face.Face, r rune) (*Glyph, error) {
	rg, err := renderGlyph(fc, r, f.params, f.metrics.Baseline)
	if err != nil || rg == nil {
		return nil, err
	}
	return f.placeGlyph(r, rg)
}

// placeGlyph packs a rendered bitmap into the atlas and blits it.
func (f *Font) placeGlyph(r rune, rg *renderedGlyph) (*Glyph, error) {
	glyph := &Glyph{
		Rune:     r,
		Width:    rg.width,
		Height:   rg.height,
		XOffset:  rg.xoffset,
		YOffset:  rg.yoffset,
		XAdvance: rg.xadvance,
	}

	if rg.pixmap == nil {
		// Whitespace owns no atlas pixels.
		return glyph, nil
	}

	region, err := f.packer.Insert(rg.width, rg.height)
	if err != nil {
		return nil, err
	}

	if region.Page == len(f.pages) {
		cfg := f.packer.Config()
		f.pages = append(f.pages, NewPixmap(cfg.PageWidth, cfg.PageHeight))
		Logger().Debug("opened atlas page",
			"font", f.name, "page", region.Page,
			"width", cfg.PageWidth, "height", cfg.PageHeight)
	}

	f.pages[region.Page].DrawPixmap(rg.pixmap, region.X, region.Y)
	f.dirty = true

	glyph.Page = region.Page
	glyph.SrcX = region.X
	glyph.SrcY = region.Y
	return glyph, nil
}

// captureKernPair records the adjustment for b following a, when both
// glyphs exist and the pair actually kerns.
func (f *Font) captureKernPair(fc face.Face, a, b rune, size float64, hinting face.Hinting) {
	ga, ok := f.glyphs[a]
	if !ok || ga == f.missing && a != 0 {
		return
	}
	if gb, ok := f.glyphs[b]; !ok || gb == f.missing && b != 0 {
		return
	}
	amount := int(math.Round(fc.Kern(a, b, size, hinting)))
	if amount != 0 {
		ga.SetKern(b, amount)
	}
}

// fixSpaceGlyph guarantees a usable space glyph: fonts occasionally
// lack one, and layout code leans on it for word spacing and tab stops.
func (f *Font) fixSpaceGlyph() {
	if _, ok := f.glyphs[' ']; ok {
		return
	}
	space := &Glyph{
		Rune:     ' ',
		XAdvance: int(math.Round(f.metrics.SpaceWidth)) + f.params.SpaceX,
	}
	f.glyphs[' '] = space
	f.order = append(f.order, space)
}
