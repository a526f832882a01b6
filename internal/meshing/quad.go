package meshing

import "github.com/ecopia-map/voxmesher/internal/voxel"

// Quad is a rectangle of exposed voxel faces. The corners are lattice points wound counter-clockwise when
// seen from the side the normal points to.
type Quad struct {
	Corners   [4][3]int
	Normal    [3]int
	Direction voxel.Direction
	Color     uint8
	// extent in cells along the first and second tangent axis
	Width  int
	Height int
	// cell of the rectangle with the lowest tangent coordinates
	Origin [3]int
}

// Builds the quad covering w x h faces of direction d, starting at tangent position (b, c) of the slab
func newQuad(d voxel.Direction, slab, b, c, w, h int, color uint8) Quad {
	p := axisPermutations[d.Axis()]
	q := Quad{
		Normal:    d.Offset(),
		Direction: d,
		Color:     color,
		Width:     w,
		Height:    h,
		Origin:    p.point(slab, b, c),
	}
	if d.Positive() {
		a := slab + 1
		q.Corners = [4][3]int{
			p.point(a, b, c),
			p.point(a, b+w, c),
			p.point(a, b+w, c+h),
			p.point(a, b, c+h),
		}
	} else {
		q.Corners = [4][3]int{
			p.point(slab, b, c),
			p.point(slab, b, c+h),
			p.point(slab, b+w, c+h),
			p.point(slab, b+w, c),
		}
	}
	return q
}

// Cell returns the voxel behind face (i, j) of the quad, i along Width and j along Height
func (q Quad) Cell(i, j int) [3]int {
	p := axisPermutations[q.Direction.Axis()]
	return p.point(q.Origin[p.axis], q.Origin[p.u]+i, q.Origin[p.v]+j)
}

// Area returns the number of unit faces covered by the quad
func (q Quad) Area() int {
	return q.Width * q.Height
}

// Tangent returns the offset of corner k from the origin along the first and second tangent axis
func (q Quad) Tangent(k int) (int, int) {
	p := axisPermutations[q.Direction.Axis()]
	return q.Corners[k][p.u] - q.Origin[p.u], q.Corners[k][p.v] - q.Origin[p.v]
}
