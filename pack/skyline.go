package pack

// skylineNode is one segment of the skyline profile. It covers
// [x, x+w) at height y (the first free row above packed content).
type skylineNode struct {
	x, y, w int
}

// skylinePage packs rectangles with the skyline (bottom-left) algorithm.
// The page keeps a horizontal profile of the packed content; each
// rectangle goes to the lowest position along the profile that fits its
// width. Skyline wastes little vertical space when rectangles arrive
// sorted by height descending, which is how bulk font generation feeds
// it.
type skylinePage struct {
	width, height int
	nodes         []skylineNode
	used          int
}

func newSkylinePage(width, height int) *skylinePage {
	return &skylinePage{
		width:  width,
		height: height,
		nodes:  []skylineNode{{0, 0, width}},
	}
}

func (p *skylinePage) insert(w, h int) (x, y int, ok bool) {
	bestY := p.height + 1
	bestX := 0
	best := -1

	for i := range p.nodes {
		y, fits := p.fit(i, w)
		if !fits {
			continue
		}
		// Lowest position wins; ties go to the leftmost candidate.
		if y+h <= p.height && y < bestY {
			bestY = y
			bestX = p.nodes[i].x
			best = i
		}
	}
	if best < 0 {
		return -1, -1, false
	}

	p.place(best, bestX, bestY, w, h)
	p.used += w * h
	return bestX, bestY, true
}

func (p *skylinePage) usedArea() int {
	return p.used
}

// fit returns the placement height for a rectangle of width w starting
// at node i: the maximum skyline height across the spanned nodes.
func (p *skylinePage) fit(i int, w int) (y int, ok bool) {
	x := p.nodes[i].x
	if x+w > p.width {
		return 0, false
	}

	y = p.nodes[i].y
	remaining := w
	for j := i; remaining > 0; j++ {
		if j >= len(p.nodes) {
			return 0, false
		}
		if p.nodes[j].y > y {
			y = p.nodes[j].y
		}
		remaining -= p.nodes[j].w
	}
	return y, true
}

// place inserts a new skyline segment for the packed rectangle and
// trims or removes the nodes it shadows, then merges neighbors of
// equal height.
func (p *skylinePage) place(i, x, y, w, h int) {
	node := skylineNode{x: x, y: y + h, w: w}
	p.nodes = append(p.nodes, skylineNode{})
	copy(p.nodes[i+1:], p.nodes[i:])
	p.nodes[i] = node

	for j := i + 1; j < len(p.nodes); {
		n := &p.nodes[j]
		prev := p.nodes[j-1]
		if n.x >= prev.x+prev.w {
			break
		}
		shrink := prev.x + prev.w - n.x
		if shrink >= n.w {
			p.nodes = append(p.nodes[:j], p.nodes[j+1:]...)
			continue
		}
		n.x += shrink
		n.w -= shrink
		break
	}

	for j := 0; j < len(p.nodes)-1; {
		if p.nodes[j].y == p.nodes[j+1].y {
			p.nodes[j].w += p.nodes[j+1].w
			p.nodes = append(p.nodes[:j+1], p.nodes[j+2:]...)
			continue
		}
		j++
	}
}
