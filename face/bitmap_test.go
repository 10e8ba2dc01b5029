package face

import "testing"

// testStrike is a tiny two-glyph 1-bit strike font. 'I' is a 3x5
// column, '.' a 2x2 dot. Strike cells are top-aligned at the ascent line.
func testStrike() *BitmapFont {
	return &BitmapFont{
		Name:    "teststrike",
		Ascent:  5,
		Advance: 4,
		Glyphs: map[rune]BitmapGlyph{
			'I': {
				Width:  3,
				Height: 5,
				Rows: []uint32{
					0b111 << 29,
					0b010 << 29,
					0b010 << 29,
					0b010 << 29,
					0b111 << 29,
				},
			},
			'.': {
				Width:   2,
				Height:  2,
				Rows:    []uint32{0b11 << 30, 0b11 << 30},
				Advance: 3,
			},
		},
	}
}

func TestBitmapFace_LoadGlyph(t *testing.T) {
	f := NewBitmapFace(testStrike())

	if !f.Bitmapped() {
		t.Fatal("strike face must report Bitmapped")
	}
	if f.HasKerning() {
		t.Error("strike face must not report kerning")
	}

	g, err := f.LoadGlyph('I', 16, HintingNone)
	if err != nil {
		t.Fatalf("LoadGlyph: %v", err)
	}
	if !g.Bitmap {
		t.Error("strike glyph must report Bitmap")
	}
	if g.Mask == nil || g.Mask.Bounds().Dx() != 3 || g.Mask.Bounds().Dy() != 5 {
		t.Fatalf("unexpected mask bounds: %v", g.Mask.Bounds())
	}
	if g.Advance != 4 {
		t.Errorf("advance = %g, want font default 4", g.Advance)
	}

	// Coverage is strictly 0x00 or 0xFF: top-left corner set, the
	// pixel below it clear.
	if got := g.Mask.AlphaAt(0, 0).A; got != 0xFF {
		t.Errorf("pixel (0,0) = %#x, want 0xFF", got)
	}
	if got := g.Mask.AlphaAt(0, 1).A; got != 0 {
		t.Errorf("pixel (0,1) = %#x, want 0", got)
	}
}

func TestBitmapFace_PerGlyphAdvance(t *testing.T) {
	f := NewBitmapFace(testStrike())

	g, err := f.LoadGlyph('.', 16, HintingNone)
	if err != nil {
		t.Fatalf("LoadGlyph: %v", err)
	}
	if g.Advance != 3 {
		t.Errorf("advance = %g, want glyph override 3", g.Advance)
	}
	// The dot's top is 2 rows high starting 2 rows below the ascent line.
	if g.Bounds.Min.Y != -5 || g.Bounds.Max.Y != -3 {
		t.Errorf("bounds = %v, want rows [-5,-3)", g.Bounds)
	}
}

func TestBitmapFace_MissingGlyph(t *testing.T) {
	f := NewBitmapFace(testStrike())

	if f.HasGlyph('Z') {
		t.Error("strike has no 'Z'")
	}
	if _, err := f.LoadGlyph('Z', 16, HintingNone); err == nil {
		t.Error("expected error loading absent glyph")
	}
}

func TestBitmapFace_NoDeclaredAdvance(t *testing.T) {
	strike := testStrike()
	strike.Advance = 0
	for r, g := range strike.Glyphs {
		g.Advance = 0
		strike.Glyphs[r] = g
	}
	f := NewBitmapFace(strike)

	// With no advance anywhere, the pen moves by the cell width.
	m, err := f.Metrics(16, HintingNone)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.MaxAdvance != 3 {
		t.Errorf("max advance = %g, want widest cell 3", m.MaxAdvance)
	}

	g, err := f.LoadGlyph('I', 16, HintingNone)
	if err != nil {
		t.Fatalf("LoadGlyph: %v", err)
	}
	if g.Advance != 3 {
		t.Errorf("advance = %g, want cell width 3", g.Advance)
	}
}

func TestBitmapFace_ZeroLineHeight(t *testing.T) {
	f := NewBitmapFace(testStrike())

	m, err := f.Metrics(16, HintingNone)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	// The strike declares no line height; generation falls back to
	// scanning glyph heights.
	if m.LineHeight != 0 {
		t.Errorf("line height = %g, want 0", m.LineHeight)
	}
	if m.Ascent != 5 {
		t.Errorf("ascent = %g, want 5", m.Ascent)
	}
}
