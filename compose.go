package fontatlas

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/fontatlas/face"
)

// renderedGlyph is a composited glyph bitmap plus the layout metrics
// measured against the final bitmap, before atlas packing.
type renderedGlyph struct {
	pixmap   *Pixmap // nil for whitespace
	width    int
	height   int
	xoffset  int
	yoffset  int
	xadvance int
}

// renderGlyph rasterizes one rune and composites the configured
// effects. Returns (nil, nil) when the face has no glyph for r; the
// missing-glyph placeholder (rune 0) is always attempted.
func renderGlyph(f face.Face, r rune, p Parameters, baseline float64) (*renderedGlyph, error) {
	if !f.HasGlyph(r) && r != 0 {
		return nil, nil
	}

	size := float64(p.Size)
	g, err := f.LoadGlyph(r, size, p.Hinting)
	if err != nil {
		return nil, err
	}

	mask := g.Mask
	if p.Mono && mask != nil {
		mask = thresholdMask(mask)
	}

	xadvance := int(math.Round(g.Advance)) + int(p.BorderWidth) + p.SpaceX

	if mask == nil {
		// Whitespace: pen advance only, no pixels.
		return &renderedGlyph{xadvance: xadvance}, nil
	}

	gamma := p.Gamma
	if g.Bitmap {
		// Strike glyphs carry exact 0/255 coverage; gamma must not
		// erode it.
		gamma = 1
	}

	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()
	left, top := g.Bounds.Min.X, -g.Bounds.Min.Y

	main := NewPixmap(width, height)
	main.DrawMask(mask, 0, 0, p.Color, gamma)

	out := main

	if p.BorderWidth > 0 {
		radius := int(math.Ceil(p.BorderWidth))
		dilated := dilateMask(mask, radius, !p.BorderStraight)

		border := NewPixmap(width+2*radius, height+2*radius)
		border.DrawMask(dilated, 0, 0, p.BorderColor, p.BorderGamma)

		// Draw the glyph over the border, centered in the dilated
		// bitmap. Repeats make the interior fully opaque so the border
		// does not bleed through antialiased edges.
		for i := 0; i < p.RenderCount; i++ {
			border.DrawMask(mask, radius, radius, p.Color, gamma)
		}

		out = border
		width += 2 * radius
		height += 2 * radius
		left -= radius
		top += radius
	}

	if p.ShadowOffsetX != 0 || p.ShadowOffsetY != 0 {
		ox, oy := p.ShadowOffsetX, p.ShadowOffsetY
		shadowed := NewPixmap(width+abs(ox), height+abs(oy))

		// The shadow is the composited bitmap's own alpha tinted with
		// the shadow color, shifted by the offset.
		sx, sy := max(ox, 0), max(oy, 0)
		shadowed.DrawMask(alphaOf(out), sx, sy, p.ShadowColor, 1)

		mx, my := max(-ox, 0), max(-oy, 0)
		for i := 0; i < p.RenderCount; i++ {
			shadowed.DrawPixmap(out, mx, my)
		}

		// Offsets stay put: the shadow hangs off the advance box
		// instead of pushing the glyph.
		out = shadowed
		width += abs(ox)
		height += abs(oy)
	} else if p.RenderCount > 1 && out == main {
		for i := 1; i < p.RenderCount; i++ {
			out.DrawMask(mask, 0, 0, p.Color, gamma)
		}
	}

	yoffset := -(height - top) - int(math.Round(baseline))
	if p.Flip {
		yoffset = -top + int(math.Round(baseline))
	}

	return &renderedGlyph{
		pixmap:   out,
		width:    width,
		height:   height,
		xoffset:  left,
		yoffset:  yoffset,
		xadvance: xadvance,
	}, nil
}

// thresholdMask snaps antialiased coverage to fully opaque or fully
// transparent.
func thresholdMask(mask *image.Alpha) *image.Alpha {
	b := mask.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A >= 128 {
				out.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	return out
}

// dilateMask grows a coverage mask by radius pixels in every direction,
// producing a stroked silhouette. The round kernel approximates rounded
// border joins; the square kernel yields straight ones.
func dilateMask(mask *image.Alpha, radius int, round bool) *image.Alpha {
	b := mask.Bounds()
	out := image.NewAlpha(image.Rect(0, 0, b.Dx()+2*radius, b.Dy()+2*radius))
	r2 := radius * radius

	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			var best uint8
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					if round && kx*kx+ky*ky > r2 {
						continue
					}
					sx := b.Min.X + x - radius + kx
					sy := b.Min.Y + y - radius + ky
					if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
						continue
					}
					if a := mask.AlphaAt(sx, sy).A; a > best {
						best = a
					}
				}
			}
			if best > 0 {
				out.SetAlpha(x, y, color.Alpha{A: best})
			}
		}
	}
	return out
}

// alphaOf extracts the alpha channel of a pixmap as a coverage mask.
func alphaOf(p *Pixmap) *image.Alpha {
	out := image.NewAlpha(image.Rect(0, 0, p.Width(), p.Height()))
	data := p.Data()
	for i, px := 3, 0; i < len(data); i, px = i+4, px+1 {
		out.Pix[px] = data[i]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
