package octree

// Bounds is an axis aligned box of cells. Both corners are inclusive.
type Bounds struct {
	Min [3]int
	Max [3]int
}

// Builds the bounds spanning the given inclusive corners
func NewBounds(minX, minY, minZ, maxX, maxY, maxZ int) Bounds {
	return Bounds{
		Min: [3]int{minX, minY, minZ},
		Max: [3]int{maxX, maxY, maxZ},
	}
}

// Builds the bounds of a single cell
func CellBounds(x, y, z int) Bounds {
	return NewBounds(x, y, z, x, y, z)
}

func (b Bounds) Contains(x, y, z int) bool {
	return x >= b.Min[0] && x <= b.Max[0] &&
		y >= b.Min[1] && y <= b.Max[1] &&
		z >= b.Min[2] && z <= b.Max[2]
}

// Size returns the number of cells along each axis
func (b Bounds) Size() [3]int {
	return [3]int{
		b.Max[0] - b.Min[0] + 1,
		b.Max[1] - b.Min[1] + 1,
		b.Max[2] - b.Min[2] + 1,
	}
}

// Volume returns the number of cells inside the bounds
func (b Bounds) Volume() int {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Expand grows the bounds by n cells on every side
func (b Bounds) Expand(n int) Bounds {
	return NewBounds(
		b.Min[0]-n, b.Min[1]-n, b.Min[2]-n,
		b.Max[0]+n, b.Max[1]+n, b.Max[2]+n,
	)
}

// Include returns the smallest bounds containing both b and the given cell
func (b Bounds) Include(x, y, z int) Bounds {
	p := [3]int{x, y, z}
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] {
			b.Min[axis] = p[axis]
		}
		if p[axis] > b.Max[axis] {
			b.Max[axis] = p[axis]
		}
	}
	return b
}

// Union returns the smallest bounds containing both boxes
func (b Bounds) Union(other Bounds) Bounds {
	return b.Include(other.Min[0], other.Min[1], other.Min[2]).
		Include(other.Max[0], other.Max[1], other.Max[2])
}

// OnShell reports whether the cell lies on one of the six faces of the bounds
func (b Bounds) OnShell(x, y, z int) bool {
	if !b.Contains(x, y, z) {
		return false
	}
	return x == b.Min[0] || x == b.Max[0] ||
		y == b.Min[1] || y == b.Max[1] ||
		z == b.Min[2] || z == b.Max[2]
}

// onBoundary reports whether removing the cell may tighten the bounds
func (b Bounds) onBoundary(x, y, z int) bool {
	return x == b.Min[0] || x == b.Max[0] ||
		y == b.Min[1] || y == b.Max[1] ||
		z == b.Min[2] || z == b.Max[2]
}
