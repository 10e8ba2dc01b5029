// Package pack provides rectangle packing for glyph atlas pages.
//
// A Packer places rectangles into one or more fixed-size pages and
// reports where each rectangle landed. It is purely geometric: pixel
// storage belongs to the caller, which keeps one pixel buffer per page
// index. Two placement strategies are available. Guillotine tolerates
// insertions of arbitrary size in arbitrary order and is the right
// choice when the final glyph count is unknown upfront (incremental
// fonts). Skyline packs tighter when rectangles arrive sorted by
// height descending and is used for bulk, known-upfront character sets.
package pack

import "fmt"

// Strategy selects the placement algorithm used by a Packer.
type Strategy int

const (
	// Guillotine maintains a set of free rectangles per page, places
	// into the smallest free rectangle that fits (best-area-fit) and
	// splits the remainder into right and bottom strips.
	Guillotine Strategy = iota

	// Skyline maintains a horizontal skyline profile per page and
	// places each rectangle at the lowest position that fits its width.
	Skyline
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case Guillotine:
		return "Guillotine"
	case Skyline:
		return "Skyline"
	default:
		return "Unknown"
	}
}

// Region describes where a rectangle was placed.
type Region struct {
	// Page is the index of the page the rectangle landed on.
	// Callers must take the page index from here rather than deriving
	// it from insertion order.
	Page int

	// X, Y are the pixel coordinates of the rectangle's top-left
	// corner within the page.
	X, Y int

	// Width, Height echo the requested rectangle size (without padding).
	Width, Height int
}

// Config holds packer configuration.
type Config struct {
	// PageWidth and PageHeight are the fixed dimensions of every page.
	// Default: 1024x1024.
	PageWidth  int
	PageHeight int

	// Padding is the gap kept between packed rectangles to prevent
	// sampling bleed. Default: 1.
	Padding int

	// MaxPages limits how many pages the packer may open.
	// Default: 8.
	MaxPages int

	// Strategy selects the placement algorithm. Default: Guillotine.
	Strategy Strategy
}

// DefaultConfig returns the default packer configuration.
func DefaultConfig() Config {
	return Config{
		PageWidth:  1024,
		PageHeight: 1024,
		Padding:    1,
		MaxPages:   8,
		Strategy:   Guillotine,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageWidth < 1 {
		return &ConfigError{Field: "PageWidth", Reason: "must be at least 1"}
	}
	if c.PageHeight < 1 {
		return &ConfigError{Field: "PageHeight", Reason: "must be at least 1"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	if c.Strategy != Guillotine && c.Strategy != Skyline {
		return &ConfigError{Field: "Strategy", Reason: "unknown strategy"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "pack: invalid config." + e.Field + ": " + e.Reason
}

// OutOfSpaceError is returned when a rectangle cannot be placed on any
// page, either because it exceeds the page dimensions or because the
// page limit has been reached.
type OutOfSpaceError struct {
	Width, Height         int
	PageWidth, PageHeight int
	Pages, MaxPages       int
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("pack: no space for %dx%d rectangle (%d/%d pages of %dx%d)",
		e.Width, e.Height, e.Pages, e.MaxPages, e.PageWidth, e.PageHeight)
}

// page is the per-page placement state. Implementations are not safe
// for concurrent use; the Packer serializes access for them.
type page interface {
	// insert tries to place a w x h rectangle and returns its position.
	insert(w, h int) (x, y int, ok bool)

	// usedArea returns the total area of placed rectangles.
	usedArea() int
}

// Packer places rectangles into fixed-size pages.
// Packer is not safe for concurrent use.
type Packer struct {
	config Config
	pages  []page
}

// New creates a packer with the given configuration.
func New(config Config) (*Packer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Packer{config: config}, nil
}

// Insert places a w x h rectangle into the first page with room,
// opening a new page when every existing page is full. It fails with
// *OutOfSpaceError once the rectangle cannot fit on a fresh page or the
// page limit is exhausted.
func (p *Packer) Insert(w, h int) (Region, error) {
	if w <= 0 || h <= 0 {
		return Region{}, fmt.Errorf("pack: invalid rectangle %dx%d", w, h)
	}

	padded := p.config.Padding
	if w+padded > p.config.PageWidth || h+padded > p.config.PageHeight {
		return Region{}, p.outOfSpace(w, h)
	}

	for i, pg := range p.pages {
		if x, y, ok := pg.insert(w+padded, h+padded); ok {
			return Region{Page: i, X: x, Y: y, Width: w, Height: h}, nil
		}
	}

	if len(p.pages) >= p.config.MaxPages {
		return Region{}, p.outOfSpace(w, h)
	}

	pg := p.newPage()
	p.pages = append(p.pages, pg)

	x, y, ok := pg.insert(w+padded, h+padded)
	if !ok {
		// A fresh page rejects only rectangles larger than the page,
		// which the guard above already caught.
		return Region{}, p.outOfSpace(w, h)
	}
	return Region{Page: len(p.pages) - 1, X: x, Y: y, Width: w, Height: h}, nil
}

// NumPages returns the number of pages opened so far.
func (p *Packer) NumPages() int {
	return len(p.pages)
}

// Config returns the packer configuration.
func (p *Packer) Config() Config {
	return p.config
}

// Utilization returns the fraction of total page area covered by
// placed rectangles, in [0, 1]. Returns 0 before the first insert.
func (p *Packer) Utilization() float64 {
	if len(p.pages) == 0 {
		return 0
	}
	used := 0
	for _, pg := range p.pages {
		used += pg.usedArea()
	}
	total := len(p.pages) * p.config.PageWidth * p.config.PageHeight
	return float64(used) / float64(total)
}

func (p *Packer) newPage() page {
	if p.config.Strategy == Skyline {
		return newSkylinePage(p.config.PageWidth, p.config.PageHeight)
	}
	return newGuillotinePage(p.config.PageWidth, p.config.PageHeight)
}

func (p *Packer) outOfSpace(w, h int) error {
	return &OutOfSpaceError{
		Width:      w,
		Height:     h,
		PageWidth:  p.config.PageWidth,
		PageHeight: p.config.PageHeight,
		Pages:      len(p.pages),
		MaxPages:   p.config.MaxPages,
	}
}
