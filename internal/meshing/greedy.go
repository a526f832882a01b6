package meshing

import (
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
)

const emptyCell int16 = -1

// Dense copy of the colors of a volume over its bounds
type denseGrid struct {
	bounds octree.Bounds
	size   [3]int
	cells  []int16
}

func newDenseGrid(volume octree.IVolume[uint8], bounds octree.Bounds) *denseGrid {
	g := &denseGrid{bounds: bounds, size: bounds.Size()}
	g.cells = make([]int16, g.size[0]*g.size[1]*g.size[2])
	for i := range g.cells {
		g.cells[i] = emptyCell
	}
	volume.Each(func(x, y, z int, color uint8) bool {
		g.cells[g.index([3]int{x, y, z})] = int16(color)
		return true
	})
	return g
}

func (g *denseGrid) index(p [3]int) int {
	return ((p[2]-g.bounds.Min[2])*g.size[1]+(p[1]-g.bounds.Min[1]))*g.size[0] + (p[0] - g.bounds.Min[0])
}

func (g *denseGrid) color(p [3]int) int16 {
	return g.cells[g.index(p)]
}

// Greedy merges the exposed faces of every slab into rectangles. For each axis, each slab and each of the
// two directions, unclaimed exposed faces are scanned in row order; a rectangle first grows along the first
// tangent axis, then along the second one row at a time, and stops at the first face that is empty,
// claimed, hidden or of another color. Exposure follows the same rule as Simple, so both methods cover the
// same set of unit faces.
func Greedy(volume octree.IVolume[uint8], mask *voxel.OutsideMask, extent octree.Bounds, opts Options) []Quad {
	e := newExposure(extent, mask, opts)
	quads := make([]Quad, 0)
	bounds, ok := volume.Bounds()
	if !ok {
		return quads
	}
	grid := newDenseGrid(volume, bounds)

	for axis := 0; axis < 3; axis++ {
		p := axisPermutations[axis]
		minB, maxB := bounds.Min[p.u], bounds.Max[p.u]
		minC, maxC := bounds.Min[p.v], bounds.Max[p.v]
		rows := maxC - minC + 1
		claimed := make([]bool, (maxB-minB+1)*rows)

		for slab := bounds.Min[axis]; slab <= bounds.Max[axis]; slab++ {
			for _, d := range [2]voxel.Direction{voxel.DirectionOf(axis, false), voxel.DirectionOf(axis, true)} {
				for i := range claimed {
					claimed[i] = false
				}
				claimedAt := func(b, c int) *bool {
					return &claimed[(b-minB)*rows+(c-minC)]
				}
				// a face can join the rectangle when its cell is occupied, unclaimed, exposed and of the start color
				fits := func(b, c int, color int16) bool {
					cell := p.point(slab, b, c)
					value := grid.color(cell)
					if value == emptyCell || *claimedAt(b, c) {
						return false
					}
					if !opts.IgnoreColor && value != color {
						return false
					}
					return e.exposed(cell, d)
				}

				for b := minB; b <= maxB; b++ {
					for c := minC; c <= maxC; c++ {
						color := grid.color(p.point(slab, b, c))
						if color == emptyCell || *claimedAt(b, c) {
							continue
						}
						if !fits(b, c, color) {
							*claimedAt(b, c) = true
							continue
						}

						endB := b
						for endB+1 <= maxB && fits(endB+1, c, color) {
							endB++
						}
						endC := c
					grow:
						for endC+1 <= maxC {
							for i := b; i <= endB; i++ {
								if !fits(i, endC+1, color) {
									break grow
								}
							}
							endC++
						}

						for i := b; i <= endB; i++ {
							for j := c; j <= endC; j++ {
								*claimedAt(i, j) = true
							}
						}
						quads = append(quads, newQuad(d, slab, b, c, endB-b+1, endC-c+1, uint8(color)))
					}
				}
			}
		}
	}
	return quads
}
