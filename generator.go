package fontatlas

import (
	"errors"
	"math"
	"sort"

	"github.com/gogpu/fontatlas/face"
	"github.com/gogpu/fontatlas/pack"
)

// Generator rasterizes glyphs from one font face into atlas-backed
// fonts. A Generator may produce any number of Fonts at different
// sizes and parameters; it must stay alive for as long as any
// incremental Font produced from it is used.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	face      face.Face
	name      string
	closeFace bool
	closed    bool
}

// NewGenerator parses font data (TTF or OTF) and returns a Generator
// for it. Options configure the parsing backend and kerning source.
func NewGenerator(data []byte, opts ...face.Option) (*Generator, error) {
	f, err := face.Open(data, opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{face: f, name: f.Name(), closeFace: true}, nil
}

// NewGeneratorFromFace wraps an existing face. The caller keeps
// ownership of the face; Close does not close it.
func NewGeneratorFromFace(f face.Face) *Generator {
	return &Generator{face: f, name: f.Name()}
}

// Face returns the underlying font face.
func (g *Generator) Face() face.Face {
	return g.face
}

// Name returns the font family name.
func (g *Generator) Name() string {
	return g.name
}

// Close releases the generator. Fonts generated non-incrementally stay
// usable; incremental Fonts must not be used for lookups of new glyphs
// afterwards.
func (g *Generator) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.closeFace {
		return g.face.Close()
	}
	return nil
}

// ScaleForPixelHeight returns the pixel size that makes the font's
// total height (ascent to descent) fit the given pixel height.
func (g *Generator) ScaleForPixelHeight(height int) (int, error) {
	fm, err := g.face.Metrics(float64(height), face.HintingNone)
	if err != nil {
		return 0, err
	}
	total := fm.Ascent - fm.Descent
	if total <= 0 {
		return height, nil
	}
	return int(float64(height) * float64(height) / total), nil
}

// ScaleForPixelWidth returns the pixel size at which numChars glyphs of
// maximum advance fit the given pixel width.
func (g *Generator) ScaleForPixelWidth(width, numChars int) (int, error) {
	probe := 64.0
	fm, err := g.face.Metrics(probe, face.HintingNone)
	if err != nil {
		return 0, err
	}
	if fm.MaxAdvance <= 0 || numChars <= 0 {
		return int(probe), nil
	}
	total := fm.Ascent - fm.Descent
	height := int(total * float64(width) / (fm.MaxAdvance * float64(numChars)))
	if height < 1 {
		height = 1
	}
	return height, nil
}

// ScaleToFitSquare returns the largest pixel size at which numChars
// glyphs fit a width x height rectangle, each line holding glyphs of
// maximum advance.
func (g *Generator) ScaleToFitSquare(width, height, numChars int) (int, error) {
	h, err := g.ScaleForPixelHeight(height)
	if err != nil {
		return 0, err
	}
	w, err := g.ScaleForPixelWidth(width, numChars)
	if err != nil {
		return 0, err
	}
	if w < h {
		return w, nil
	}
	return h, nil
}

// Generate rasterizes the configured character set into a new Font.
//
// Characters the face cannot render are skipped with a warning, except
// the missing-glyph placeholder (rune 0), which is always produced.
// Running out of atlas space is fatal and returns
// *pack.OutOfSpaceError.
func (g *Generator) Generate(p Parameters) (*Font, error) {
	if g.closed {
		return nil, errFontClosed
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	chars := p.runes()

	metrics, err := buildMetrics(g.face, p)
	if err != nil {
		return nil, err
	}

	packer, err := newPacker(p, metrics, len(chars))
	if err != nil {
		return nil, err
	}

	font := &Font{
		name:    g.name,
		metrics: metrics,
		params:  p,
		glyphs:  make(map[rune]*Glyph, len(chars)),
		packer:  packer,
	}
	if p.Incremental {
		font.gen = g
	}

	// The placeholder always exists, even if the face has nothing to
	// draw for it.
	missing, err := font.createGlyph(g.face, 0)
	if err != nil {
		var loadErr *face.GlyphLoadError
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		missing = nil
	}
	if missing == nil {
		missing = &Glyph{Rune: 0, XAdvance: int(math.Round(metrics.SpaceWidth))}
	}
	font.missing = missing
	font.glyphs[0] = missing
	font.order = append(font.order, missing)

	if p.Incremental {
		// Remaining glyphs arrive through Lookup.
		font.fixSpaceGlyph()
		return font, nil
	}

	if err := g.generateBulk(font, p, chars); err != nil {
		return nil, err
	}

	if p.Kerning && g.face.HasKerning() {
		g.captureKerning(font, p, chars)
	}

	font.fixSpaceGlyph()
	return font, nil
}

// generateBulk renders every requested character and packs the bitmaps
// tallest-first, which keeps skyline shelves dense.
func (g *Generator) generateBulk(font *Font, p Parameters, chars []rune) error {
	type pending struct {
		rune     rune
		rendered *renderedGlyph
	}
	var todo []pending

	for _, r := range chars {
		if r == 0 {
			continue
		}
		rg, err := renderGlyph(g.face, r, p, font.metrics.Baseline)
		if err != nil {
			var loadErr *face.GlyphLoadError
			if errors.As(err, &loadErr) {
				Logger().Warn("skipping glyph that failed to render",
					"font", font.name, "rune", string(r), "error", err)
				continue
			}
			return err
		}
		if rg == nil {
			continue
		}
		todo = append(todo, pending{rune: r, rendered: rg})
	}

	sort.SliceStable(todo, func(i, j int) bool {
		return todo[i].rendered.height > todo[j].rendered.height
	})

	for _, t := range todo {
		glyph, err := font.placeGlyph(t.rune, t.rendered)
		if err != nil {
			return err
		}
		font.glyphs[t.rune] = glyph
		font.order = append(font.order, glyph)
	}
	return nil
}

// captureKerning records the pair adjustments for every ordered pair of
// generated glyphs, in both directions.
func (g *Generator) captureKerning(font *Font, p Parameters, chars []rune) {
	size := float64(p.Size)
	for i, a := range chars {
		for _, b := range chars[i:] {
			font.captureKernPair(g.face, a, b, size, p.Hinting)
			if a != b {
				font.captureKernPair(g.face, b, a, size, p.Hinting)
			}
		}
	}
}

// newPacker builds the atlas packer for one generation request,
// deriving page dimensions from the character count when the caller
// did not pin them.
func newPacker(p Parameters, m Metrics, count int) (*pack.Packer, error) {
	cfg := pack.DefaultConfig()
	cfg.MaxPages = p.MaxPages

	if p.PageWidth > 0 {
		cfg.PageWidth = p.PageWidth
		cfg.PageHeight = p.PageHeight
	} else if p.Incremental {
		// Final glyph count is unknown; start with the largest page.
		cfg.PageWidth = MaxPageSize
		cfg.PageHeight = MaxPageSize
	} else {
		side := derivePageSize(m.LineHeight, count)
		cfg.PageWidth = side
		cfg.PageHeight = side
	}

	switch p.Strategy {
	case PackGuillotine:
		cfg.Strategy = pack.Guillotine
	case PackSkyline:
		cfg.Strategy = pack.Skyline
	default:
		if p.Incremental {
			cfg.Strategy = pack.Guillotine
		} else {
			cfg.Strategy = pack.Skyline
		}
	}

	return pack.New(cfg)
}

// derivePageSize estimates a square power-of-two page large enough for
// count glyphs of roughly lineHeight x lineHeight pixels.
func derivePageSize(lineHeight float64, count int) int {
	h := math.Ceil(lineHeight)
	side := nextPowerOfTwo(int(math.Sqrt(h * h * float64(count))))
	if side > MaxPageSize {
		side = MaxPageSize
	}
	if floor := nextPowerOfTwo(int(h) + 2); side < floor {
		side = floor
	}
	if side > MaxPageSize {
		side = MaxPageSize
	}
	return side
}
