package face

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Kerner supplies pair adjustments from a source other than the face
// backend itself. Implementations are not safe for concurrent use.
type Kerner interface {
	// Kern returns the signed horizontal adjustment between a and b in
	// pixels at the given pixel size, or 0 when the pair has none.
	Kern(a, b rune, size float64) float64
}

// ShapingKerner derives pair kerning from HarfBuzz shaping via
// go-text/typesetting. The sfnt Kern lookup in the default backend
// reads the legacy kern table only; modern fonts keep their kerning in
// GPOS, which only a shaper applies. The kerning value for (a, b) is
// the difference between a's advance when shaped next to b and a's
// advance shaped alone.
//
// Attach it when opening a face:
//
//	kerner, _ := face.NewShapingKerner(fontData)
//	f, _ := face.Open(fontData, face.WithKerner(kerner))
//
// ShapingKerner is not safe for concurrent use: the HarfBuzz shaper
// keeps an internal buffer.
type ShapingKerner struct {
	face   *font.Face
	shaper shaping.HarfbuzzShaper

	// soloAdvances caches the shaped advance of single runes per size,
	// since every pair lookup for the same left rune re-shapes it.
	soloAdvances map[soloKey]fixed.Int26_6
}

type soloKey struct {
	r    rune
	size fixed.Int26_6
}

// NewShapingKerner parses font data with go-text/typesetting.
// Fails with *CorruptFontError when the data cannot be parsed.
func NewShapingKerner(data []byte) (*ShapingKerner, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, &CorruptFontError{Backend: "gotext", Err: err}
	}
	return &ShapingKerner{
		face:         f,
		soloAdvances: make(map[soloKey]fixed.Int26_6),
	}, nil
}

// Kern implements Kerner.
func (k *ShapingKerner) Kern(a, b rune, size float64) float64 {
	fixedSize := fixed.Int26_6(size * 64)

	out := k.shape([]rune{a, b}, fixedSize)
	// A pair that shaped into anything but two glyphs (a ligature, a
	// substitution) has no plain pair adjustment to report.
	if len(out.Glyphs) != 2 {
		return 0
	}
	paired := out.Glyphs[0].Advance

	solo, ok := k.soloAdvance(a, fixedSize)
	if !ok {
		return 0
	}
	return fixedToFloat(paired - solo)
}

func (k *ShapingKerner) soloAdvance(r rune, size fixed.Int26_6) (fixed.Int26_6, bool) {
	key := soloKey{r: r, size: size}
	if adv, ok := k.soloAdvances[key]; ok {
		return adv, true
	}
	out := k.shape([]rune{r}, size)
	if len(out.Glyphs) != 1 {
		return 0, false
	}
	adv := out.Glyphs[0].Advance
	k.soloAdvances[key] = adv
	return adv, true
}

func (k *ShapingKerner) shape(runes []rune, size fixed.Int26_6) shaping.Output {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      k.face,
		Size:      size,
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	}
	return k.shaper.Shape(input)
}
