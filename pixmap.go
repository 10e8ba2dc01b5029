package fontatlas

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Pixmap represents a rectangular pixel buffer.
// Pixel data is stored non-premultiplied, 4 bytes per pixel (RGBA).
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (non-premultiplied RGBA).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// DrawPixmap composites src over p with its top-left corner at (x, y).
// Standard source-over blending on non-premultiplied components.
// Regions outside p are clipped.
func (p *Pixmap) DrawPixmap(src *Pixmap, x, y int) {
	if src == nil {
		return
	}
	for sy := 0; sy < src.height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= p.height {
			continue
		}
		for sx := 0; sx < src.width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= p.width {
				continue
			}

			si := (sy*src.width + sx) * 4
			sa := float64(src.data[si+3]) / 255
			if sa == 0 {
				continue
			}

			di := (dy*p.width + dx) * 4
			da := float64(p.data[di+3]) / 255

			outA := sa + da*(1-sa)
			if outA == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				sc := float64(src.data[si+c]) / 255
				dc := float64(p.data[di+c]) / 255
				p.data[di+c] = uint8(clamp255((sc*sa + dc*da*(1-sa)) / outA * 255))
			}
			p.data[di+3] = uint8(clamp255(outA * 255))
		}
	}
}

// DrawMask composites an alpha-coverage mask tinted with the given
// color, its top-left corner at (x, y). Gamma is applied to coverage
// before tinting; values above 1 thin antialiased edges, values below
// 1 thicken them. A gamma of 1 leaves coverage untouched, so fully
// opaque 1-bit masks pass through exactly.
func (p *Pixmap) DrawMask(mask *image.Alpha, x, y int, c RGBA, gamma float64) {
	if mask == nil {
		return
	}
	if gamma <= 0 {
		gamma = 1
	}

	b := mask.Bounds()
	tmp := NewPixmap(b.Dx(), b.Dy())
	for my := 0; my < b.Dy(); my++ {
		for mx := 0; mx < b.Dx(); mx++ {
			coverage := float64(mask.AlphaAt(b.Min.X+mx, b.Min.Y+my).A) / 255
			if coverage == 0 {
				continue
			}
			if gamma != 1 {
				coverage = math.Pow(coverage, gamma)
			}
			tmp.SetPixel(mx, my, RGBA{R: c.R, G: c.G, B: c.B, A: c.A * coverage})
		}
	}
	p.DrawPixmap(tmp, x, y)
}

// ToImage converts the pixmap to an image.RGBA (premultiplied).
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.Set(x, y, p.GetPixel(x, y).Color())
		}
	}
	return img
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
