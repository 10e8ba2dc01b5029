package fontatlas

import (
	"testing"
)

func newIncrementalFont(t *testing.T) (*Generator, *Font) {
	t.Helper()
	gen := newTestGenerator(t)

	p := DefaultParameters()
	p.Size = 24
	p.Characters = "A"
	p.Incremental = true

	font, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return gen, font
}

func TestIncremental_SeedsOnlyPlaceholder(t *testing.T) {
	_, font := newIncrementalFont(t)

	// Incremental generation defers the character set; only the
	// placeholder and the space fix-up exist up front.
	if n := font.GlyphCount(); n > 2 {
		t.Errorf("GlyphCount = %d, want placeholder and space only", n)
	}
}

func TestIncremental_LookupRasterizesOnDemand(t *testing.T) {
	_, font := newIncrementalFont(t)
	font.MarkClean()

	g, fresh, err := font.Lookup('Q')
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !fresh {
		t.Error("first lookup not fresh")
	}
	if g.Rune != 'Q' || g.Empty() {
		t.Fatalf("glyph = %+v", g)
	}
	if !font.Dirty() {
		t.Error("font not dirty after a fresh lookup")
	}

	font.MarkClean()
	if font.Dirty() {
		t.Error("Dirty after MarkClean")
	}

	again, fresh, err := font.Lookup('Q')
	if err != nil {
		t.Fatalf("Lookup again: %v", err)
	}
	if fresh {
		t.Error("repeated lookup reported fresh")
	}
	if again != g {
		t.Error("repeated lookup returned a different glyph")
	}
	if font.Dirty() {
		t.Error("repeated lookup dirtied the font")
	}
}

func TestIncremental_DirtyAccumulatesAcrossMisses(t *testing.T) {
	_, font := newIncrementalFont(t)
	font.MarkClean()

	if _, fresh, err := font.Lookup('B'); err != nil || !fresh {
		t.Fatalf("Lookup B = (fresh %v, err %v)", fresh, err)
	}
	if !font.Dirty() {
		t.Fatal("not dirty after first miss")
	}

	// A second miss without an acknowledgment in between keeps the
	// flag set.
	if _, fresh, err := font.Lookup('C'); err != nil || !fresh {
		t.Fatalf("Lookup C = (fresh %v, err %v)", fresh, err)
	}
	if !font.Dirty() {
		t.Fatal("dirty flag lost across consecutive misses")
	}

	font.MarkClean()
	if font.Dirty() {
		t.Error("Dirty after MarkClean")
	}
}

func TestIncremental_MissResolvesToPlaceholder(t *testing.T) {
	_, font := newIncrementalFont(t)
	font.MarkClean()

	g, fresh, err := font.Lookup('中')
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if fresh {
		t.Error("miss reported fresh")
	}
	if g != font.Glyph(0) {
		t.Error("miss did not resolve to the placeholder")
	}
	if font.Dirty() {
		t.Error("miss dirtied the font")
	}

	// The miss is terminal: the face is not probed again.
	again, _, err := font.Lookup('中')
	if err != nil {
		t.Fatalf("Lookup again: %v", err)
	}
	if again != g {
		t.Error("terminal miss not cached")
	}
}

func TestIncremental_KerningAgainstExistingGlyphs(t *testing.T) {
	gen, font := newIncrementalFont(t)
	if !gen.Face().HasKerning() {
		t.Skip("test font reports no kerning")
	}

	av, _, err := font.Lookup('A')
	if err != nil {
		t.Fatalf("Lookup A: %v", err)
	}
	v, _, err := font.Lookup('V')
	if err != nil {
		t.Fatalf("Lookup V: %v", err)
	}

	// Both directions of the pair must exist regardless of lookup order.
	if av.Kern('V') == 0 && v.Kern('A') == 0 {
		t.Error("no kerning captured for A/V in either direction")
	}
}

func TestIncremental_LookupAfterGeneratorClose(t *testing.T) {
	gen, font := newIncrementalFont(t)

	existing, _, err := font.Lookup('A')
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	_ = gen.Close()

	// Already generated glyphs stay readable.
	g, fresh, err := font.Lookup('A')
	if err != nil || fresh || g != existing {
		t.Errorf("Lookup existing after close = (%v, %v, %v)", g, fresh, err)
	}

	// New glyphs cannot be rasterized anymore.
	if _, _, err := font.Lookup('Z'); err == nil {
		t.Error("Lookup of a new glyph after generator close succeeded")
	}
}

func TestNonIncremental_LookupNeverMutates(t *testing.T) {
	gen := newTestGenerator(t)

	p := DefaultParameters()
	p.Size = 24
	p.Characters = "A"

	font, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	font.MarkClean()
	before := font.GlyphCount()

	g, fresh, err := font.Lookup('Z')
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if fresh {
		t.Error("non-incremental lookup reported fresh")
	}
	if g != font.Glyph(0) {
		t.Error("non-incremental miss did not resolve to the placeholder")
	}
	if font.Dirty() || font.GlyphCount() != before {
		t.Error("non-incremental lookup mutated the font")
	}
}

func TestFont_WhitespaceGlyphOwnsNoPixels(t *testing.T) {
	gen := newTestGenerator(t)

	p := DefaultParameters()
	p.Size = 24
	p.Characters = "A "

	font, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sp := font.Glyph(' ')
	if !sp.Empty() {
		t.Errorf("space glyph owns pixels: %dx%d", sp.Width, sp.Height)
	}
	if sp.XAdvance <= 0 {
		t.Errorf("space XAdvance = %d", sp.XAdvance)
	}
}

func TestFont_GlyphsIterationOrder(t *testing.T) {
	gen := newTestGenerator(t)

	p := DefaultParameters()
	p.Size = 24
	p.Characters = "AB"

	font, err := gen.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := make(map[rune]bool)
	font.Glyphs(func(g *Glyph) bool {
		if seen[g.Rune] {
			t.Errorf("glyph %q visited twice", g.Rune)
		}
		seen[g.Rune] = true
		return true
	})
	for _, r := range []rune{0, 'A', 'B', ' '} {
		if !seen[r] {
			t.Errorf("glyph %q not visited", r)
		}
	}
}
