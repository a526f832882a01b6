package atlas

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAtlasFull is returned when a rectangle does not fit even at the maximum atlas size
var ErrAtlasFull = errors.New("atlas: maximum size exceeded")

// PackedRect is the placement of a rectangle inside the atlas, with its top-left corner at X, Y
type PackedRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r PackedRect) Overlaps(o PackedRect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

func (r PackedRect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

type anchor struct {
	x int
	y int
}

// Orders anchors by Manhattan distance from the origin, then by row and column
func (a anchor) less(b anchor) bool {
	if a.x+a.y != b.x+b.y {
		return a.x+a.y < b.x+b.y
	}
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x < b.x
}

// Packer places rectangles online into a region that starts at 1x1 and doubles its shorter side, up to
// maxSize, whenever a rectangle does not fit. Candidate positions are the anchors left at the corners
// of the rectangles placed so far.
type Packer struct {
	maxSize  int
	width    int
	height   int
	anchors  []anchor
	rects    []PackedRect
	occupied []bool
}

// Instantiates an empty packer that never grows any side past maxSize
func NewPacker(maxSize int) *Packer {
	return &Packer{
		maxSize:  maxSize,
		width:    1,
		height:   1,
		anchors:  []anchor{{0, 0}},
		occupied: make([]bool, 1),
	}
}

// Size returns the current region size
func (p *Packer) Size() (int, int) {
	return p.width, p.height
}

// Rects returns the placements made so far, in packing order
func (p *Packer) Rects() []PackedRect {
	return append([]PackedRect(nil), p.rects...)
}

// TryPack places a width x height rectangle, growing the region as needed
func (p *Packer) TryPack(width, height int) (PackedRect, error) {
	if width <= 0 || height <= 0 {
		return PackedRect{}, fmt.Errorf("atlas: invalid rectangle %dx%d", width, height)
	}
	if width > p.maxSize || height > p.maxSize {
		return PackedRect{}, fmt.Errorf("rectangle %dx%d: %w", width, height, ErrAtlasFull)
	}

	for {
		for i, a := range p.anchors {
			if p.fits(a.x, a.y, width, height) {
				return p.place(i, width, height), nil
			}
		}
		if !p.grow() {
			return PackedRect{}, fmt.Errorf("rectangle %dx%d in %dx%d: %w", width, height, p.width, p.height, ErrAtlasFull)
		}
	}
}

func (p *Packer) free(x, y int) bool {
	return !p.occupied[y*p.width+x]
}

func (p *Packer) fits(x, y, width, height int) bool {
	if x+width > p.width || y+height > p.height {
		return false
	}
	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			if !p.free(i, j) {
				return false
			}
		}
	}
	return true
}

// Doubles the shorter side of the region, the width when both sides are equal. A side stops at maxSize,
// the other one keeps growing.
func (p *Packer) grow() bool {
	width, height := p.width, p.height
	growWidth := width <= height
	if growWidth && width >= p.maxSize {
		growWidth = false
	} else if !growWidth && height >= p.maxSize {
		growWidth = true
	}
	if growWidth {
		width = min(width*2, p.maxSize)
	} else {
		height = min(height*2, p.maxSize)
	}
	if width == p.width && height == p.height {
		return false
	}

	occupied := make([]bool, width*height)
	for y := 0; y < p.height; y++ {
		copy(occupied[y*width:y*width+p.width], p.occupied[y*p.width:(y+1)*p.width])
	}
	p.width, p.height, p.occupied = width, height, occupied
	return true
}

func (p *Packer) place(index, width, height int) PackedRect {
	a := p.anchors[index]
	x, y := a.x, a.y

	left := 0
	for x-left > 0 && p.columnFree(x-left-1, y, height) {
		left++
	}
	up := 0
	for y-up > 0 && p.rowFree(x, y-up-1, width) {
		up++
	}
	if left >= up {
		x -= left
	} else {
		y -= up
	}

	r := PackedRect{X: x, Y: y, Width: width, Height: height}
	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			p.occupied[j*p.width+i] = true
		}
	}
	p.rects = append(p.rects, r)

	if r.contains(a.x, a.y) {
		p.anchors = append(p.anchors[:index], p.anchors[index+1:]...)
	}
	p.addAnchor(anchor{x + width, y})
	p.addAnchor(anchor{x, y + height})
	return r
}

func (p *Packer) columnFree(x, y, height int) bool {
	for j := y; j < y+height; j++ {
		if !p.free(x, j) {
			return false
		}
	}
	return true
}

func (p *Packer) rowFree(x, y, width int) bool {
	for i := x; i < x+width; i++ {
		if !p.free(i, y) {
			return false
		}
	}
	return true
}

func (p *Packer) addAnchor(a anchor) {
	i := sort.Search(len(p.anchors), func(i int) bool {
		return !p.anchors[i].less(a)
	})
	if i < len(p.anchors) && p.anchors[i] == a {
		return
	}
	p.anchors = append(p.anchors, anchor{})
	copy(p.anchors[i+1:], p.anchors[i:])
	p.anchors[i] = a
}
