package fontatlas

import (
	"testing"

	"github.com/gogpu/fontatlas/face"
)

func TestBuildMetrics(t *testing.T) {
	f := openTestFace(t)
	p := DefaultParameters()
	p.Size = 32

	m, err := buildMetrics(f, p)
	if err != nil {
		t.Fatalf("buildMetrics: %v", err)
	}

	if m.Baseline <= 0 {
		t.Errorf("Baseline = %v, want > 0", m.Baseline)
	}
	if m.Descent >= 0 {
		t.Errorf("Descent = %v, want < 0", m.Descent)
	}
	if m.LineHeight <= 0 {
		t.Errorf("LineHeight = %v, want > 0", m.LineHeight)
	}
	if m.CapHeight <= 0 || m.XHeight <= 0 {
		t.Errorf("CapHeight = %v, XHeight = %v, want > 0", m.CapHeight, m.XHeight)
	}
	if m.XHeight >= m.CapHeight {
		t.Errorf("XHeight %v >= CapHeight %v", m.XHeight, m.CapHeight)
	}
	if m.SpaceWidth <= 0 {
		t.Errorf("SpaceWidth = %v, want > 0", m.SpaceWidth)
	}
	if m.Down != -m.LineHeight {
		t.Errorf("Down = %v, want %v", m.Down, -m.LineHeight)
	}
	// Ascent is cap-line relative: total stack must reach the baseline.
	if got := m.Ascent + m.CapHeight; got != m.Baseline {
		t.Errorf("Ascent+CapHeight = %v, want Baseline %v", got, m.Baseline)
	}
}

func TestBuildMetrics_SpaceY(t *testing.T) {
	f := openTestFace(t)
	p := DefaultParameters()
	p.Size = 32

	base, err := buildMetrics(f, p)
	if err != nil {
		t.Fatalf("buildMetrics: %v", err)
	}

	p.SpaceY = 4
	padded, err := buildMetrics(f, p)
	if err != nil {
		t.Fatalf("buildMetrics padded: %v", err)
	}
	if padded.LineHeight != base.LineHeight+4 {
		t.Errorf("LineHeight = %v, want %v", padded.LineHeight, base.LineHeight+4)
	}
}

func TestBuildMetrics_BitmapFallbacks(t *testing.T) {
	f := face.NewBitmapFace(&face.BitmapFont{
		Name:   "strike",
		Ascent: 5,
		Glyphs: map[rune]face.BitmapGlyph{
			'I': {Width: 3, Height: 5, Rows: []uint32{
				0b111 << 29, 0b010 << 29, 0b010 << 29, 0b010 << 29, 0b111 << 29,
			}},
		},
	})

	p := DefaultParameters()
	p.Size = 5

	// Strike fonts may lack x-height and cap-height probes; metrics
	// must still come out usable.
	m, err := buildMetrics(f, p)
	if err != nil {
		t.Fatalf("buildMetrics: %v", err)
	}
	if m.LineHeight <= 0 {
		t.Errorf("LineHeight = %v, want fallback from glyph heights", m.LineHeight)
	}
	if m.SpaceWidth <= 0 {
		t.Errorf("SpaceWidth = %v, want max-advance fallback", m.SpaceWidth)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024, 1024: 1024}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDerivePageSize(t *testing.T) {
	if got := derivePageSize(20, 100); got&(got-1) != 0 {
		t.Errorf("derivePageSize = %d, not a power of two", got)
	}
	if got := derivePageSize(500, 10000); got != MaxPageSize {
		t.Errorf("derivePageSize = %d, want cap %d", got, MaxPageSize)
	}
	if got := derivePageSize(100, 1); got < 128 {
		t.Errorf("derivePageSize = %d, too small for one 100px glyph", got)
	}
}
