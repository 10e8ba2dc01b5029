// Package face adapts font rasterization engines behind one narrow
// interface: given a code point and a pixel size, a Face returns glyph
// metrics and, on demand, an alpha-coverage bitmap.
//
// The default backend parses TrueType/OTF data with
// golang.org/x/image/font/sfnt and rasterizes through font/opentype.
// Alternative backends can be registered with RegisterBackend, and
// NewBitmapFace wraps a pre-rasterized fixed-size strike font in the
// same interface.
//
// Unlike a FreeType face handle, a Face carries no "current pixel
// size" state: the size is an explicit parameter on every call, so
// interleaved queries at different sizes never alias. Faces are still
// not safe for concurrent use (the sfnt glyph buffer is mutable).
package face

import (
	"errors"
	"fmt"
	"image"
)

// Hinting is the outline-rasterization adjustment strength, trading
// shape fidelity for edge crispness.
type Hinting int

const (
	// HintingNone disables hinting. Glyph edges stay faithful to the
	// outline but may look blurry at small sizes.
	HintingNone Hinting = iota
	// HintingSlight applies light hinting close to the original shape.
	HintingSlight
	// HintingMedium is the default hinting strength.
	HintingMedium
	// HintingFull applies strong hinting with crisp edges at the
	// expense of shape fidelity.
	HintingFull
)

// String returns the string representation of the hinting mode.
func (h Hinting) String() string {
	switch h {
	case HintingNone:
		return "None"
	case HintingSlight:
		return "Slight"
	case HintingMedium:
		return "Medium"
	case HintingFull:
		return "Full"
	default:
		return "Unknown"
	}
}

// Metrics holds face-wide metrics at one pixel size.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the face,
	// in pixels. Positive above the baseline.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the
	// face. Negative (below the baseline), FreeType convention.
	Descent float64

	// LineHeight is the recommended baseline-to-baseline distance.
	// A fixed-size strike face may report 0 here; callers fall back to
	// scanning glyph heights.
	LineHeight float64

	// MaxAdvance is the widest horizontal advance of any glyph.
	MaxAdvance float64
}

// Glyph is one rasterized code point as delivered by a backend.
type Glyph struct {
	// Mask is the alpha-coverage bitmap, tight around the visible
	// pixels. Nil when the code point has no printable area
	// (whitespace, control characters).
	Mask *image.Alpha

	// Bounds locates Mask relative to the pen position on the
	// baseline: Min.X is the left side bearing, -Min.Y the distance
	// from the baseline up to the top row.
	Bounds image.Rectangle

	// Advance is the horizontal pen advance in pixels.
	Advance float64

	// Bitmap reports that Mask came from a 1-bit strike and carries
	// only 0x00/0xFF coverage, with no antialiasing to deepen.
	Bitmap bool
}

// Face is the narrow contract over an external rasterization engine.
// Implementations are not safe for concurrent use.
type Face interface {
	// Name returns the font family name, or "" when unavailable.
	Name() string

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int

	// HasGlyph reports whether the font maps the code point to a
	// glyph other than .notdef.
	HasGlyph(r rune) bool

	// Metrics returns face-wide metrics at the given pixel size.
	// Fails with *SizeUnsupportedError when the size is rejected.
	Metrics(size float64, hinting Hinting) (Metrics, error)

	// LoadGlyph rasterizes one code point at the given pixel size.
	// A code point with no printable area yields a Glyph with a nil
	// Mask, not an error. Fails with *GlyphLoadError when the glyph
	// cannot be rasterized.
	LoadGlyph(r rune, size float64, hinting Hinting) (*Glyph, error)

	// Kern returns the signed horizontal kerning adjustment between
	// two code points in pixels, or 0 when the pair has none.
	Kern(a, b rune, size float64, hinting Hinting) float64

	// HasKerning reports whether the font carries kerning data at all.
	HasKerning() bool

	// Bitmapped reports whether the face is a pre-rasterized
	// fixed-size strike rather than scalable outlines.
	Bitmapped() bool

	// Close releases backend resources. The face must not be used
	// afterwards.
	Close() error
}

// ErrEmptyFontData is returned when font data is empty.
var ErrEmptyFontData = errors.New("face: empty font data")

// CorruptFontError is returned by Open when the font data cannot be
// parsed by the selected backend.
type CorruptFontError struct {
	Backend string
	Err     error
}

func (e *CorruptFontError) Error() string {
	return fmt.Sprintf("face: %s backend cannot parse font: %v", e.Backend, e.Err)
}

func (e *CorruptFontError) Unwrap() error { return e.Err }

// SizeUnsupportedError is returned when a pixel size is rejected.
type SizeUnsupportedError struct {
	Size float64
}

func (e *SizeUnsupportedError) Error() string {
	return fmt.Sprintf("face: unsupported pixel size %g", e.Size)
}

// GlyphLoadError is returned when a specific code point cannot be
// rasterized. Callers recover by skipping the code point.
type GlyphLoadError struct {
	Rune rune
	Err  error
}

func (e *GlyphLoadError) Error() string {
	return fmt.Sprintf("face: cannot load glyph %q: %v", e.Rune, e.Err)
}

func (e *GlyphLoadError) Unwrap() error { return e.Err }

// Backend parses raw font bytes into a Face.
type Backend interface {
	Open(data []byte, config OpenConfig) (Face, error)
}

// backendRegistry holds registered backends. The default backend is
// "ximage" (golang.org/x/image).
var backendRegistry = map[string]Backend{
	"ximage": &ximageBackend{},
}

// defaultBackendName is the name of the default backend.
const defaultBackendName = "ximage"

// RegisterBackend registers a custom face backend.
func RegisterBackend(name string, backend Backend) {
	backendRegistry[name] = backend
}

// OpenConfig holds configuration applied when opening a face.
type OpenConfig struct {
	// Kerner supplies pair adjustments the backend itself cannot see
	// (for example GPOS kerning for the ximage backend).
	Kerner Kerner

	backendName string
}

// Option configures Open.
type Option func(*OpenConfig)

// WithBackend selects the face backend by registered name.
// The default is "ximage".
func WithBackend(name string) Option {
	return func(c *OpenConfig) {
		c.backendName = name
	}
}

// WithKerner attaches a fallback kerning source consulted when the
// backend's own kerning lookup reports zero for a pair.
func WithKerner(k Kerner) Option {
	return func(c *OpenConfig) {
		c.Kerner = k
	}
}

// Open parses font data (TTF or OTF) with the configured backend.
// Fails with *CorruptFontError when the data cannot be parsed.
func Open(data []byte, opts ...Option) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	config := OpenConfig{backendName: defaultBackendName}
	for _, opt := range opts {
		opt(&config)
	}

	backend, ok := backendRegistry[config.backendName]
	if !ok {
		backend = backendRegistry[defaultBackendName]
	}
	return backend.Open(data, config)
}
