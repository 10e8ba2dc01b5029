// Package fontatlas converts outline fonts (TrueType/OTF) and embedded
// bitmap fonts into rasterized glyph atlases for real-time rendering.
//
// # Overview
//
// For a requested character set and pixel size, a Generator produces
// per-glyph bitmaps and layout metrics (advances, offsets, kerning) and
// packs the bitmaps into one or more fixed-size texture pages. Glyphs
// can carry a stroked border and a drop shadow, composited at
// generation time.
//
// # Quick Start
//
//	gen, err := fontatlas.NewGenerator(ttfBytes)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gen.Close()
//
//	params := fontatlas.DefaultParameters()
//	params.Size = 32
//	font, err := gen.Generate(params)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	g := font.Glyph('A')  // layout metrics + atlas location
//	pages := font.Pages() // pixel buffers to upload as textures
//
// # Incremental fonts
//
// With Parameters.Incremental set, a Font.Lookup miss rasterizes and
// packs the glyph on the spot and marks the atlas dirty. Callers must
// re-upload dirty pages before sampling newly returned bounds:
//
//	glyph, fresh, err := font.Lookup(r)
//	if err != nil {
//		return err
//	}
//	if fresh || font.Dirty() {
//		uploadPages(font.Pages())
//		font.MarkClean()
//	}
//
// # Concurrency
//
// A Generator/Font pair is single-threaded: faces hold mutable
// rasterization buffers, and incremental lookups mutate page pixels.
// Serialize all lookups against the same Font, or confine them to the
// render thread.
//
// # Architecture
//
// The library is organized into:
//   - fontatlas: generation pipeline, glyph compositing, incremental cache
//   - face: font backends (x/image outlines, 1-bit strikes, GPOS kerning)
//   - pack: rectangle packing (guillotine and skyline strategies)
package fontatlas
