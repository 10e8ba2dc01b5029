package face

import (
	"errors"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageBackend opens faces through golang.org/x/image: sfnt for
// parsing and glyph lookup, opentype for rasterization.
type ximageBackend struct{}

func (ximageBackend) Open(data []byte, config OpenConfig) (Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, &CorruptFontError{Backend: "ximage", Err: err}
	}

	xf := &ximageFace{
		font:   f,
		kerner: config.Kerner,
		faces:  make(map[faceKey]font.Face),
	}
	if name, err := f.Name(&xf.buf, sfnt.NameIDFamily); err == nil {
		xf.name = name
	}
	return xf, nil
}

// faceKey identifies one rasterization setup. Keeping a cache per
// (size, hinting) pair means interleaved queries at different sizes
// never clobber each other's scaling state.
type faceKey struct {
	size    float64
	hinting Hinting
}

// kerningUnknown/kerningAbsent/kerningPresent track the lazy probe in
// hasKerning.
const (
	kerningUnknown = iota
	kerningAbsent
	kerningPresent
)

type ximageFace struct {
	font   *sfnt.Font
	buf    sfnt.Buffer
	name   string
	kerner Kerner

	faces      map[faceKey]font.Face
	kernProbed int
}

func (f *ximageFace) Name() string { return f.name }

func (f *ximageFace) NumGlyphs() int { return f.font.NumGlyphs() }

func (f *ximageFace) Bitmapped() bool { return false }

func (f *ximageFace) HasGlyph(r rune) bool {
	gi, err := f.font.GlyphIndex(&f.buf, r)
	return err == nil && gi != 0
}

func (f *ximageFace) Metrics(size float64, hinting Hinting) (Metrics, error) {
	face, err := f.face(size, hinting)
	if err != nil {
		return Metrics{}, err
	}

	m := face.Metrics()
	return Metrics{
		Ascent:     fixedToFloat(m.Ascent),
		Descent:    -fixedToFloat(m.Descent),
		LineHeight: fixedToFloat(m.Height),
		MaxAdvance: f.maxAdvance(face, size),
	}, nil
}

// maxAdvance approximates hhea.advanceWidthMax, which the sfnt API
// does not expose: the widest of a few wide probe glyphs, falling back
// to the pixel size itself.
func (f *ximageFace) maxAdvance(face font.Face, size float64) float64 {
	maxAdv := 0.0
	for _, r := range [...]rune{'W', 'M', '@', 'm'} {
		if adv, ok := face.GlyphAdvance(r); ok {
			if v := fixedToFloat(adv); v > maxAdv {
				maxAdv = v
			}
		}
	}
	if maxAdv == 0 {
		maxAdv = size
	}
	return maxAdv
}

func (f *ximageFace) LoadGlyph(r rune, size float64, hinting Hinting) (*Glyph, error) {
	face, err := f.face(size, hinting)
	if err != nil {
		return nil, err
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, &GlyphLoadError{Rune: r, Err: errGlyphNotRendered}
	}

	g := &Glyph{
		Bounds:  dr,
		Advance: fixedToFloat(advance),
	}
	if dr.Dx() > 0 && dr.Dy() > 0 {
		// Copy the rasterizer's mask region into a tight buffer owned
		// by the glyph; the source buffer is reused by the next call.
		tight := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(tight, tight.Bounds(), mask, maskp, draw.Src)
		g.Mask = tight
	}
	return g, nil
}

func (f *ximageFace) Kern(a, b rune, size float64, hinting Hinting) float64 {
	face, err := f.face(size, hinting)
	if err != nil {
		return 0
	}
	if k := face.Kern(a, b); k != 0 {
		return fixedToFloat(k)
	}
	// The opentype Kern API reads the legacy kern table only; fonts
	// that keep kerning in GPOS need the shaping-based fallback.
	if f.kerner != nil {
		return f.kerner.Kern(a, b, size)
	}
	return 0
}

// kernProbePairs are classic kerning pairs used to detect whether the
// font carries kerning data at all.
var kernProbePairs = [...][2]rune{{'A', 'V'}, {'T', 'o'}, {'Y', 'o'}, {'W', 'A'}, {'L', 'T'}, {'A', 'W'}}

func (f *ximageFace) HasKerning() bool {
	if f.kerner != nil {
		return true
	}
	if f.kernProbed == kerningUnknown {
		f.kernProbed = kerningAbsent
		if face, err := f.face(32, HintingNone); err == nil {
			for _, p := range kernProbePairs {
				if face.Kern(p[0], p[1]) != 0 {
					f.kernProbed = kerningPresent
					break
				}
			}
		}
	}
	return f.kernProbed == kerningPresent
}

func (f *ximageFace) Close() error {
	var first error
	for _, face := range f.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
	}
	f.faces = nil
	return first
}

// face returns the cached rasterizer for one (size, hinting) pair,
// creating it on first use.
func (f *ximageFace) face(size float64, hinting Hinting) (font.Face, error) {
	if size <= 0 {
		return nil, &SizeUnsupportedError{Size: size}
	}

	key := faceKey{size: size, hinting: hinting}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}

	// DPI 72 makes Size the pixel size (ppem = size * dpi / 72).
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: mapHinting(hinting),
	})
	if err != nil {
		return nil, &SizeUnsupportedError{Size: size}
	}
	f.faces[key] = face
	return face, nil
}

// mapHinting converts the four-level hinting strength to the three
// modes x/image rasterization supports.
func mapHinting(h Hinting) font.Hinting {
	switch h {
	case HintingNone:
		return font.HintingNone
	case HintingSlight, HintingMedium:
		return font.HintingVertical
	default:
		return font.HintingFull
	}
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// errGlyphNotRendered reports a glyph the rasterizer refused to render.
var errGlyphNotRendered = errors.New("rasterizer returned no glyph")
