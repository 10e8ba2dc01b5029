package pack

// rect is an axis-aligned rectangle in page coordinates.
type rect struct {
	x, y, w, h int
}

// guillotinePage packs rectangles with the guillotine algorithm. The
// page keeps a list of disjoint free rectangles. Placement picks the
// free rectangle with the least leftover area (best-area-fit) and
// splits the remainder along the placed rectangle's edges into a right
// strip and a bottom strip. Degenerate strips are discarded.
//
// The algorithm never needs a re-pack, so it handles insertions of
// arbitrary size arriving in arbitrary order.
type guillotinePage struct {
	width, height int
	free          []rect
	used          int
}

func newGuillotinePage(width, height int) *guillotinePage {
	return &guillotinePage{
		width:  width,
		height: height,
		free:   []rect{{0, 0, width, height}},
	}
}

func (p *guillotinePage) insert(w, h int) (x, y int, ok bool) {
	best := -1
	bestArea := p.width*p.height + 1

	for i, f := range p.free {
		if w > f.w || h > f.h {
			continue
		}
		if area := f.w * f.h; area < bestArea {
			bestArea = area
			best = i
		}
	}
	if best < 0 {
		return -1, -1, false
	}

	f := p.free[best]
	p.free[best] = p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	// Right strip spans only the placed height; the bottom strip keeps
	// the full width of the consumed free rectangle.
	if f.w > w {
		p.free = append(p.free, rect{f.x + w, f.y, f.w - w, h})
	}
	if f.h > h {
		p.free = append(p.free, rect{f.x, f.y + h, f.w, f.h - h})
	}

	p.used += w * h
	return f.x, f.y, true
}

func (p *guillotinePage) usedArea() int {
	return p.used
}
