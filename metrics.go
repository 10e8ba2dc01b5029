package fontatlas

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/gogpu/fontatlas/face"
)

// Metrics holds font-wide metrics derived once per generation request.
// All values are in pixels at the requested size.
type Metrics struct {
	// Ascent is the distance from the cap line to the top of the font.
	// Negated when the font is flipped.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the
	// font, negative below the baseline. Negated when flipped.
	Descent float64

	// LineHeight is the baseline-to-baseline distance, including the
	// configured extra vertical spacing.
	LineHeight float64

	// XHeight is the height of lowercase letters like 'x'.
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64

	// SpaceWidth is the pen advance of the space character.
	SpaceWidth float64

	// Baseline is the unadjusted ascent: the distance from the glyph
	// origin down to the baseline before the cap-height adjustment.
	// Always positive, independent of Flip.
	Baseline float64

	// Down is the vertical distance to the next line: -LineHeight,
	// negated when flipped so that "down" always points toward
	// increasing line index.
	Down float64

	// Flipped records the flip flag the metrics were derived under.
	Flipped bool
}

// MetricsUnavailableError is returned when no probe character for
// x-height or cap-height exists in the font. Downstream layout cannot
// derive a baseline without them, so generation aborts.
type MetricsUnavailableError struct {
	Probe string
}

func (e *MetricsUnavailableError) Error() string {
	return fmt.Sprintf("fontatlas: no %s probe character found in font", e.Probe)
}

// xHeightProbes and capHeightProbes are scanned in order; the first
// character present in the face supplies the respective height.
const (
	xHeightProbes   = "xeaonsrcumvwz"
	capHeightProbes = "MNBDCEFKAGHIJLOPQRSTUVWXYZ"
)

// buildMetrics derives the font-wide metrics for one generation request.
func buildMetrics(f face.Face, p Parameters) (Metrics, error) {
	size := float64(p.Size)

	fm, err := f.Metrics(size, p.Hinting)
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{
		Ascent:     fm.Ascent,
		Descent:    fm.Descent,
		LineHeight: fm.LineHeight,
		Baseline:   fm.Ascent,
		Flipped:    p.Flip,
	}

	// Fixed-size strike fonts may not declare a line height; fall back
	// to the tallest glyph in the printable ASCII range.
	if f.Bitmapped() && m.LineHeight == 0 {
		for r := rune(' '); r <= '~'; r++ {
			h, ok := glyphHeight(f, r, size, p.Hinting)
			if ok && h > m.LineHeight {
				m.LineHeight = h
			}
		}
	}
	m.LineHeight += float64(p.SpaceY)

	m.SpaceWidth = spaceWidth(f, size, p.Hinting, fm.MaxAdvance)

	xh, ok := probeHeight(f, xHeightProbes, size, p.Hinting)
	if !ok && !f.Bitmapped() {
		return Metrics{}, &MetricsUnavailableError{Probe: "x-height"}
	}
	m.XHeight = xh

	ch, ok := probeHeight(f, capHeightProbes, size, p.Hinting)
	if !ok && !f.Bitmapped() {
		return Metrics{}, &MetricsUnavailableError{Probe: "cap-height"}
	}
	m.CapHeight = ch

	// Ascent is measured from the cap line so that layout can stack
	// the cap height on top of it to find the baseline.
	m.Ascent -= m.CapHeight
	m.Down = -m.LineHeight

	if p.Flip {
		m.Ascent = -m.Ascent
		m.Descent = -m.Descent
		m.Down = -m.Down
	}

	return m, nil
}

// spaceWidth determines the pen advance of a space by rasterizing ' ',
// falling back to 'l', falling back to the face's maximum advance.
func spaceWidth(f face.Face, size float64, hinting face.Hinting, maxAdvance float64) float64 {
	for _, r := range [...]rune{' ', 'l'} {
		if !f.HasGlyph(r) {
			continue
		}
		g, err := f.LoadGlyph(r, size, hinting)
		if err != nil {
			continue
		}
		return g.Advance
	}
	return maxAdvance
}

// probeHeight returns the rendered height of the first probe character
// present in the face.
func probeHeight(f face.Face, probes string, size float64, hinting face.Hinting) (float64, bool) {
	for _, r := range probes {
		if h, ok := glyphHeight(f, r, size, hinting); ok {
			return h, true
		}
	}
	return 0, false
}

func glyphHeight(f face.Face, r rune, size float64, hinting face.Hinting) (float64, bool) {
	if !f.HasGlyph(r) {
		return 0, false
	}
	g, err := f.LoadGlyph(r, size, hinting)
	if err != nil || g.Mask == nil {
		return 0, false
	}
	return float64(g.Mask.Bounds().Dy()), true
}

// errFontClosed reports use of a generator or font after Close.
var errFontClosed = errors.New("fontatlas: use after Close")

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
