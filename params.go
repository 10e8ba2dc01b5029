package fontatlas

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/gogpu/fontatlas/face"
)

// PackStrategy selects the atlas packing algorithm.
type PackStrategy int

const (
	// PackAuto picks guillotine packing for incremental fonts (final
	// glyph count unknown, arbitrary insertion order) and skyline
	// packing for bulk generation (glyphs sorted by height pack
	// tighter).
	PackAuto PackStrategy = iota
	// PackGuillotine forces the guillotine strategy.
	PackGuillotine
	// PackSkyline forces the skyline strategy.
	PackSkyline
)

// String returns the string representation of the pack strategy.
func (s PackStrategy) String() string {
	switch s {
	case PackAuto:
		return "Auto"
	case PackGuillotine:
		return "Guillotine"
	case PackSkyline:
		return "Skyline"
	default:
		return "Unknown"
	}
}

// DefaultCharacters is the default character set: the missing-glyph
// placeholder, printable ASCII, and the printable Latin-1 range.
var DefaultCharacters = buildDefaultCharacters()

func buildDefaultCharacters() string {
	var b strings.Builder
	b.WriteRune(0) // missing-glyph placeholder
	for r := rune(' '); r <= '~'; r++ {
		b.WriteRune(r)
	}
	for r := rune(0xA1); r <= 0xFF; r++ {
		b.WriteRune(r)
	}
	return b.String()
}

// CharactersFromRanges builds a character-set string from Unicode
// range tables, for use as Parameters.Characters:
//
//	params.Characters = fontatlas.CharactersFromRanges(unicode.Latin, unicode.Greek)
//
// The missing-glyph placeholder is always included first.
func CharactersFromRanges(tables ...*unicode.RangeTable) string {
	merged := rangetable.Merge(tables...)

	var b strings.Builder
	b.WriteRune(0)
	for _, r16 := range merged.R16 {
		for r := rune(r16.Lo); r <= rune(r16.Hi); r += rune(r16.Stride) {
			b.WriteRune(r)
		}
	}
	for _, r32 := range merged.R32 {
		for r := rune(r32.Lo); r <= rune(r32.Hi); r += rune(r32.Stride) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parameters configures one generation request.
type Parameters struct {
	// Size is the target pixel size. Default: 16.
	Size int

	// Mono disables antialiasing: coverage is thresholded to fully
	// opaque or fully transparent.
	Mono bool

	// Hinting is the outline-rasterization adjustment strength.
	// Default: face.HintingMedium.
	Hinting face.Hinting

	// Color is the foreground glyph color. Default: White.
	Color RGBA

	// Gamma is applied to glyph coverage. Values > 1 reduce
	// antialiasing. Default: 1.8.
	Gamma float64

	// RenderCount is the number of times each glyph is drawn over
	// itself. Useful with a shadow or border, so the backdrop does not
	// show through antialiased edges. Default: 2.
	RenderCount int

	// BorderWidth is the stroked border width in pixels, 0 to disable.
	BorderWidth float64

	// BorderColor is the border color; only used if BorderWidth > 0.
	// Default: Black.
	BorderColor RGBA

	// BorderStraight selects straight (mitered) border joins instead
	// of rounded ones.
	BorderStraight bool

	// BorderGamma is applied to border coverage. Values < 1 increase
	// the border size. Default: 1.8.
	BorderGamma float64

	// ShadowOffsetX and ShadowOffsetY offset the drop shadow in
	// pixels, 0 to disable.
	ShadowOffsetX int
	ShadowOffsetY int

	// ShadowColor is the shadow color; only used when a shadow offset
	// is set. Default: black at 75% opacity.
	ShadowColor RGBA

	// SpaceX and SpaceY are extra pixels added to glyph spacing.
	// Can be negative.
	SpaceX int
	SpaceY int

	// Characters is the ordered character set to generate. Duplicates
	// are ignored. Default: DefaultCharacters.
	Characters string

	// Kerning enables kerning-pair capture. Default: true.
	Kerning bool

	// Flip flips the font vertically, for pipelines whose y axis grows
	// downward from the top-left corner.
	Flip bool

	// Incremental defers rasterizing and packing each glyph until it
	// is first requested through Font.Lookup. The Generator must stay
	// alive as long as the Font is used.
	Incremental bool

	// PageWidth and PageHeight are the atlas page dimensions. When 0,
	// a size is derived from the character count and line height,
	// capped at MaxPageSize.
	PageWidth  int
	PageHeight int

	// MaxPages limits how many atlas pages a generation may open.
	// Default: 8.
	MaxPages int

	// Strategy selects the packing algorithm. Default: PackAuto.
	Strategy PackStrategy
}

// MaxPageSize caps derived atlas page dimensions.
const MaxPageSize = 1024

// DefaultParameters returns the default generation parameters.
func DefaultParameters() Parameters {
	return Parameters{
		Size:        16,
		Hinting:     face.HintingMedium,
		Color:       White,
		Gamma:       1.8,
		RenderCount: 2,
		BorderColor: Black,
		BorderGamma: 1.8,
		ShadowColor: RGBA{A: 0.75},
		Characters:  DefaultCharacters,
		Kerning:     true,
		MaxPages:    8,
	}
}

// Validate checks if the parameters are valid.
func (p *Parameters) Validate() error {
	if p.Size < 1 {
		return &ParameterError{Field: "Size", Reason: "must be at least 1"}
	}
	if p.Gamma <= 0 {
		return &ParameterError{Field: "Gamma", Reason: "must be positive"}
	}
	if p.RenderCount < 1 {
		return &ParameterError{Field: "RenderCount", Reason: "must be at least 1"}
	}
	if p.BorderWidth < 0 {
		return &ParameterError{Field: "BorderWidth", Reason: "must be non-negative"}
	}
	if p.BorderWidth > 0 && p.BorderGamma <= 0 {
		return &ParameterError{Field: "BorderGamma", Reason: "must be positive"}
	}
	if p.Characters == "" {
		return &ParameterError{Field: "Characters", Reason: "must not be empty"}
	}
	if p.PageWidth < 0 || p.PageHeight < 0 {
		return &ParameterError{Field: "PageWidth", Reason: "must be non-negative"}
	}
	if (p.PageWidth == 0) != (p.PageHeight == 0) {
		return &ParameterError{Field: "PageHeight", Reason: "set both page dimensions or neither"}
	}
	if p.MaxPages < 1 {
		return &ParameterError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if p.Strategy < PackAuto || p.Strategy > PackSkyline {
		return &ParameterError{Field: "Strategy", Reason: "unknown strategy"}
	}
	return nil
}

// ParameterError represents a parameter validation error.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return "fontatlas: invalid Parameters." + e.Field + ": " + e.Reason
}

// runes returns the deduplicated character set in request order.
func (p *Parameters) runes() []rune {
	seen := make(map[rune]bool, len(p.Characters))
	out := make([]rune, 0, len(p.Characters))
	for _, r := range p.Characters {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
