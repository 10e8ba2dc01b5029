// Command atlasdemo generates a font atlas and saves its pages as PNGs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/fontatlas"
)

func main() {
	var (
		fontPath = flag.String("font", "", "TTF/OTF file (default: Go Regular)")
		size     = flag.Int("size", 32, "pixel size")
		chars    = flag.String("chars", "", "characters to generate (default: ASCII and Latin-1)")
		border   = flag.Float64("border", 0, "border width in pixels")
		shadowX  = flag.Int("shadow-x", 0, "shadow x offset in pixels")
		shadowY  = flag.Int("shadow-y", 0, "shadow y offset in pixels")
		flip     = flag.Bool("flip", false, "flip the font vertically")
		output   = flag.String("output", "atlas", "output file prefix")
	)
	flag.Parse()

	data := goregular.TTF
	if *fontPath != "" {
		var err error
		data, err = os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
	}

	gen, err := fontatlas.NewGenerator(data)
	if err != nil {
		log.Fatalf("Failed to parse font: %v", err)
	}
	defer func() { _ = gen.Close() }()

	params := fontatlas.DefaultParameters()
	params.Size = *size
	params.BorderWidth = *border
	params.ShadowOffsetX = *shadowX
	params.ShadowOffsetY = *shadowY
	params.Flip = *flip
	if *chars != "" {
		params.Characters = *chars
	}
	if *border > 0 {
		params.BorderColor = fontatlas.Black
		params.Color = fontatlas.White
	}

	font, err := gen.Generate(params)
	if err != nil {
		log.Fatalf("Failed to generate atlas: %v", err)
	}

	m := font.Metrics()
	log.Printf("%s: %d glyphs, line height %.1f, baseline %.1f\n",
		gen.Name(), font.GlyphCount(), m.LineHeight, m.Baseline)

	for i, page := range font.Pages() {
		name := fmt.Sprintf("%s-%d.png", strings.TrimSuffix(*output, ".png"), i)
		if err := page.SavePNG(name); err != nil {
			log.Fatalf("Failed to save page: %v", err)
		}
		log.Printf("Page %d saved to %s (%dx%d)\n", i, name, page.Width(), page.Height())
	}
}
