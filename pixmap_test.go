package fontatlas

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestPixmap_SetGetPixel(t *testing.T) {
	p := NewPixmap(4, 4)

	c := RGBA{R: 1, G: 0.5, B: 0.25, A: 1}
	p.SetPixel(1, 2, c)

	got := p.GetPixel(1, 2)
	if math.Abs(got.R-1) > 0.01 || math.Abs(got.G-0.5) > 0.01 || math.Abs(got.B-0.25) > 0.01 {
		t.Errorf("GetPixel = %+v", got)
	}

	// Out of bounds is a no-op and reads transparent.
	p.SetPixel(-1, 0, c)
	p.SetPixel(4, 0, c)
	if p.GetPixel(-1, 0) != Transparent || p.GetPixel(4, 0) != Transparent {
		t.Error("out-of-bounds access not transparent")
	}
}

func TestPixmap_Clear(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Clear(RGB(0, 0, 1))

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if c := p.GetPixel(x, y); c.B != 1 || c.A != 1 {
				t.Fatalf("pixel (%d,%d) = %+v", x, y, c)
			}
		}
	}
}

func TestPixmap_DrawPixmapSourceOver(t *testing.T) {
	dst := NewPixmap(2, 2)
	dst.Clear(RGB(1, 0, 0))

	src := NewPixmap(1, 1)
	src.SetPixel(0, 0, RGBA{G: 1, A: 0.5})
	dst.DrawPixmap(src, 0, 0)

	got := dst.GetPixel(0, 0)
	if got.A < 0.99 {
		t.Errorf("alpha = %v, want opaque result over opaque dst", got.A)
	}
	if math.Abs(got.R-0.5) > 0.01 || math.Abs(got.G-0.5) > 0.01 {
		t.Errorf("blend = %+v, want half red half green", got)
	}

	// Untouched pixel keeps the background.
	if c := dst.GetPixel(1, 1); c.R != 1 || c.G != 0 {
		t.Errorf("untouched pixel = %+v", c)
	}
}

func TestPixmap_DrawPixmapClips(t *testing.T) {
	dst := NewPixmap(2, 2)
	src := NewPixmap(3, 3)
	src.Clear(White)

	dst.DrawPixmap(src, -1, -1)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if dst.GetPixel(x, y).A != 1 {
				t.Fatalf("pixel (%d,%d) not covered", x, y)
			}
		}
	}
}

func TestPixmap_DrawMaskGamma(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 1, 1))
	mask.SetAlpha(0, 0, color.Alpha{A: 128})

	flat := NewPixmap(1, 1)
	flat.DrawMask(mask, 0, 0, White, 1)

	thinned := NewPixmap(1, 1)
	thinned.DrawMask(mask, 0, 0, White, 1.8)

	fa, ta := flat.GetPixel(0, 0).A, thinned.GetPixel(0, 0).A
	if math.Abs(fa-0.5) > 0.01 {
		t.Errorf("gamma 1 alpha = %v, want 0.5", fa)
	}
	if ta >= fa {
		t.Errorf("gamma 1.8 alpha %v not below gamma 1 alpha %v", ta, fa)
	}

	// Full coverage is unaffected by gamma.
	mask.SetAlpha(0, 0, color.Alpha{A: 255})
	full := NewPixmap(1, 1)
	full.DrawMask(mask, 0, 0, White, 1.8)
	if a := full.GetPixel(0, 0).A; a != 1 {
		t.Errorf("full coverage alpha = %v, want 1", a)
	}
}

func TestPixmap_ImageInterface(t *testing.T) {
	p := NewPixmap(2, 3)
	if got := p.Bounds(); got != image.Rect(0, 0, 2, 3) {
		t.Errorf("Bounds = %v", got)
	}
	if p.ColorModel() != color.NRGBAModel {
		t.Error("unexpected color model")
	}
	var _ image.Image = p
}
