package octree

// LeafSize is the edge length, in cells, of a leaf node
const LeafSize = 4

const leafCells = LeafSize * LeafSize * LeafSize

// Index of a node inside one of the volume arenas
type nodeRef int32

const nilRef nodeRef = -1

// Models an inner node of the octree. The children refer to the leaf arena when the node spans
// two leaves per axis, and to the branch arena otherwise.
type branch struct {
	min      [3]int
	size     int
	children [8]nodeRef
	count    int
	bounds   Bounds
}

func newBranch(min [3]int, size int) branch {
	b := branch{min: min, size: size}
	for i := range b.children {
		b.children[i] = nilRef
	}
	return b
}

// Returns true when the children of the branch are leaves
func (b *branch) holdsLeaves() bool {
	return b.size == 2*LeafSize
}

// Returns the octant index of the given cell and the minimum corner of that octant
func (b *branch) octant(x, y, z int) (int, [3]int) {
	half := b.size / 2
	p := [3]int{x, y, z}
	i := 0
	cmin := b.min
	for axis := 0; axis < 3; axis++ {
		if p[axis] >= b.min[axis]+half {
			i |= 1 << axis
			cmin[axis] += half
		}
	}
	return i, cmin
}

// Returns the minimum corner of the octant with the given index
func octantMin(min [3]int, size int, i int) [3]int {
	half := size / 2
	for axis := 0; axis < 3; axis++ {
		if i&(1<<axis) != 0 {
			min[axis] += half
		}
	}
	return min
}

// Models a 4x4x4 cube of cells. The occupancy mask tells which entries of values are set, so no
// value of T is ever used as an absence marker.
type leaf[T any] struct {
	min      [3]int
	values   [leafCells]T
	occupied uint64
	// number of occupied cells in each slice orthogonal to an axis
	slices [3][LeafSize]uint8
	count  int
}

func (l *leaf[T]) local(x, y, z int) [3]int {
	return [3]int{x - l.min[0], y - l.min[1], z - l.min[2]}
}

func leafIndex(p [3]int) int {
	return p[0] + p[1]*LeafSize + p[2]*LeafSize*LeafSize
}

func (l *leaf[T]) get(x, y, z int) (T, bool) {
	i := leafIndex(l.local(x, y, z))
	if l.occupied&(1<<uint(i)) == 0 {
		var zero T
		return zero, false
	}
	return l.values[i], true
}

// Stores the value and returns true if the cell was not occupied before
func (l *leaf[T]) set(x, y, z int, value T) bool {
	p := l.local(x, y, z)
	i := leafIndex(p)
	l.values[i] = value
	if l.occupied&(1<<uint(i)) != 0 {
		return false
	}
	l.occupied |= 1 << uint(i)
	for axis := 0; axis < 3; axis++ {
		l.slices[axis][p[axis]]++
	}
	l.count++
	return true
}

// Clears the cell and returns true if it was occupied
func (l *leaf[T]) clear(x, y, z int) bool {
	p := l.local(x, y, z)
	i := leafIndex(p)
	if l.occupied&(1<<uint(i)) == 0 {
		return false
	}
	var zero T
	l.values[i] = zero
	l.occupied &^= 1 << uint(i)
	for axis := 0; axis < 3; axis++ {
		l.slices[axis][p[axis]]--
	}
	l.count--
	return true
}

// Computes the tight bounds of the occupied cells from the slice counters. Only valid when count > 0.
func (l *leaf[T]) bounds() Bounds {
	var b Bounds
	for axis := 0; axis < 3; axis++ {
		lo, hi := 0, LeafSize-1
		for lo < LeafSize && l.slices[axis][lo] == 0 {
			lo++
		}
		for hi > lo && l.slices[axis][hi] == 0 {
			hi--
		}
		b.Min[axis] = l.min[axis] + lo
		b.Max[axis] = l.min[axis] + hi
	}
	return b
}

// Returns the coordinates of the cell stored at the given position of the value array
func (l *leaf[T]) cellAt(i int) (int, int, int) {
	return l.min[0] + i%LeafSize,
		l.min[1] + (i/LeafSize)%LeafSize,
		l.min[2] + i/(LeafSize*LeafSize)
}
