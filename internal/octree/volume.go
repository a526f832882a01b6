package octree

// maximum depth of the tree, one level per bit of the coordinate range
const maxDepth = 64

// Volume is a sparse map from integer cell coordinates to values of type T. Get returns the default
// value given to New for cells that hold nothing. The addressable range is the cube [-h, h) on every
// axis, where h is the half extent: it doubles when a cell outside the range is added and halves
// again after removals when no stored cell is lost.
//
// Nodes are kept in two arenas, one for branches and one for leaves, and refer to each other by index.
// A Volume is not safe for concurrent use.
type Volume[T any] struct {
	defaultValue T
	half         int
	root         nodeRef
	branches     []branch
	leaves       []leaf[T]
	freeBranches []nodeRef
	freeLeaves   []nodeRef
}

// Instantiates an empty volume
func New[T any](defaultValue T) *Volume[T] {
	return &Volume[T]{
		defaultValue: defaultValue,
		half:         LeafSize,
		root:         nilRef,
	}
}

// HalfExtent returns h, the volume currently addresses the cells in [-h, h) on every axis
func (v *Volume[T]) HalfExtent() int {
	return v.half
}

func (v *Volume[T]) Len() int {
	if v.root == nilRef {
		return 0
	}
	return v.branches[v.root].count
}

// Bounds returns the tight bounds of the stored cells. The second value is false when the volume is empty.
func (v *Volume[T]) Bounds() (Bounds, bool) {
	if v.root == nilRef {
		return Bounds{}, false
	}
	return v.branches[v.root].bounds, true
}

func (v *Volume[T]) admits(x, y, z int) bool {
	h := v.half
	return x >= -h && x < h && y >= -h && y < h && z >= -h && z < h
}

// Returns the leaf holding the given cell, nil if no leaf has been allocated for it
func (v *Volume[T]) findLeaf(x, y, z int) *leaf[T] {
	if v.root == nilRef || !v.admits(x, y, z) {
		return nil
	}
	ref := v.root
	for {
		b := &v.branches[ref]
		i, _ := b.octant(x, y, z)
		child := b.children[i]
		if child == nilRef {
			return nil
		}
		if b.holdsLeaves() {
			return &v.leaves[child]
		}
		ref = child
	}
}

// Get returns the value stored at the cell or the default value
func (v *Volume[T]) Get(x, y, z int) T {
	if l := v.findLeaf(x, y, z); l != nil {
		if value, ok := l.get(x, y, z); ok {
			return value
		}
	}
	return v.defaultValue
}

// Lookup returns the value stored at the cell and whether the cell is occupied
func (v *Volume[T]) Lookup(x, y, z int) (T, bool) {
	if l := v.findLeaf(x, y, z); l != nil {
		if value, ok := l.get(x, y, z); ok {
			return value, true
		}
	}
	return v.defaultValue, false
}

func (v *Volume[T]) Contains(x, y, z int) bool {
	_, ok := v.Lookup(x, y, z)
	return ok
}

// Add stores the value at the cell, growing the volume first if the cell is out of range.
// Occupancy is tracked apart from the value, so the default value itself can be stored.
func (v *Volume[T]) Add(x, y, z int, value T) {
	for !v.admits(x, y, z) {
		v.grow()
	}
	if v.root == nilRef {
		h := v.half
		v.root = v.allocBranch([3]int{-h, -h, -h}, 2*h)
	}

	var stack [maxDepth]nodeRef
	path := stack[:0]
	ref := v.root
	for {
		path = append(path, ref)
		i, cmin := v.branches[ref].octant(x, y, z)
		child := v.branches[ref].children[i]
		if v.branches[ref].holdsLeaves() {
			if child == nilRef {
				child = v.allocLeaf(cmin)
				v.branches[ref].children[i] = child
			}
			if !v.leaves[child].set(x, y, z, value) {
				return
			}
			break
		}
		if child == nilRef {
			child = v.allocBranch(cmin, v.branches[ref].size/2)
			v.branches[ref].children[i] = child
		}
		ref = child
	}

	for _, p := range path {
		b := &v.branches[p]
		if b.count == 0 {
			b.bounds = CellBounds(x, y, z)
		} else {
			b.bounds = b.bounds.Include(x, y, z)
		}
		b.count++
	}
}

// Remove clears the cell and returns whether a value was stored there
func (v *Volume[T]) Remove(x, y, z int) bool {
	if v.root == nilRef || !v.admits(x, y, z) {
		return false
	}

	var stack [maxDepth]nodeRef
	var octants [maxDepth]int
	path := stack[:0]
	ref := v.root
	var leafRef nodeRef
	for {
		b := &v.branches[ref]
		i, _ := b.octant(x, y, z)
		child := b.children[i]
		if child == nilRef {
			return false
		}
		octants[len(path)] = i
		path = append(path, ref)
		if b.holdsLeaves() {
			leafRef = child
			break
		}
		ref = child
	}

	l := &v.leaves[leafRef]
	if !l.clear(x, y, z) {
		return false
	}
	if l.count == 0 {
		last := path[len(path)-1]
		v.branches[last].children[octants[len(path)-1]] = nilRef
		v.freeLeaf(leafRef)
	}

	for d := len(path) - 1; d >= 0; d-- {
		b := &v.branches[path[d]]
		b.count--
		if b.count == 0 {
			if d > 0 {
				v.branches[path[d-1]].children[octants[d-1]] = nilRef
			} else {
				v.root = nilRef
			}
			v.freeBranch(path[d])
			continue
		}
		if b.bounds.onBoundary(x, y, z) {
			b.bounds = v.childrenBounds(path[d])
		}
	}

	if v.root == nilRef {
		v.reset()
		return true
	}
	v.shrink()
	return true
}

// Recomputes the bounds of a branch from its children
func (v *Volume[T]) childrenBounds(ref nodeRef) Bounds {
	b := &v.branches[ref]
	var out Bounds
	first := true
	for _, child := range b.children {
		if child == nilRef {
			continue
		}
		var cb Bounds
		if b.holdsLeaves() {
			cb = v.leaves[child].bounds()
		} else {
			cb = v.branches[child].bounds
		}
		if first {
			out = cb
			first = false
		} else {
			out = out.Union(cb)
		}
	}
	if first {
		panic("octree: non empty branch without children")
	}
	return out
}

// Doubles the half extent. Every octant of the old root becomes the inner octant of a new
// intermediate branch, which in turn is a child of the new root.
func (v *Volume[T]) grow() {
	h := v.half
	v.half = 2 * h
	if v.root == nilRef {
		return
	}

	old := v.root
	oldRoot := v.branches[old]
	newRoot := v.allocBranch([3]int{-2 * h, -2 * h, -2 * h}, 4*h)
	for i, child := range oldRoot.children {
		if child == nilRef {
			continue
		}
		mid := v.allocBranch(octantMin([3]int{-2 * h, -2 * h, -2 * h}, 4*h, i), 2*h)
		count, bounds := v.stats(&oldRoot, child)
		m := &v.branches[mid]
		m.children[i^7] = child
		m.count = count
		m.bounds = bounds
		v.branches[newRoot].children[i] = mid
	}
	v.branches[newRoot].count = oldRoot.count
	v.branches[newRoot].bounds = oldRoot.bounds
	v.freeBranch(old)
	v.root = newRoot
}

// Halves the half extent while every child of the root only holds its inner octant
func (v *Volume[T]) shrink() {
	for v.half > LeafSize && v.root != nilRef {
		root := v.branches[v.root]
		for i, child := range root.children {
			if child == nilRef {
				continue
			}
			for j, grandChild := range v.branches[child].children {
				if j != i^7 && grandChild != nilRef {
					return
				}
			}
		}

		h := v.half / 2
		newRoot := v.allocBranch([3]int{-h, -h, -h}, 2*h)
		for i, child := range root.children {
			if child == nilRef {
				continue
			}
			v.branches[newRoot].children[i] = v.branches[child].children[i^7]
			v.freeBranch(child)
		}
		v.branches[newRoot].count = root.count
		v.branches[newRoot].bounds = root.bounds
		v.freeBranch(v.root)
		v.root = newRoot
		v.half = h
	}
}

// Returns count and bounds of a child of the given branch
func (v *Volume[T]) stats(parent *branch, child nodeRef) (int, Bounds) {
	if parent.holdsLeaves() {
		l := &v.leaves[child]
		return l.count, l.bounds()
	}
	b := &v.branches[child]
	return b.count, b.bounds
}

// Drops every node and restores the initial extent
func (v *Volume[T]) reset() {
	v.half = LeafSize
	v.root = nilRef
	v.branches = v.branches[:0]
	v.leaves = v.leaves[:0]
	v.freeBranches = v.freeBranches[:0]
	v.freeLeaves = v.freeLeaves[:0]
}

// Clear removes every stored cell
func (v *Volume[T]) Clear() {
	v.reset()
}

func (v *Volume[T]) allocBranch(min [3]int, size int) nodeRef {
	b := newBranch(min, size)
	if n := len(v.freeBranches); n > 0 {
		ref := v.freeBranches[n-1]
		v.freeBranches = v.freeBranches[:n-1]
		v.branches[ref] = b
		return ref
	}
	v.branches = append(v.branches, b)
	return nodeRef(len(v.branches) - 1)
}

func (v *Volume[T]) freeBranch(ref nodeRef) {
	v.branches[ref] = branch{}
	v.freeBranches = append(v.freeBranches, ref)
}

func (v *Volume[T]) allocLeaf(min [3]int) nodeRef {
	if n := len(v.freeLeaves); n > 0 {
		ref := v.freeLeaves[n-1]
		v.freeLeaves = v.freeLeaves[:n-1]
		v.leaves[ref] = leaf[T]{min: min}
		return ref
	}
	v.leaves = append(v.leaves, leaf[T]{min: min})
	return nodeRef(len(v.leaves) - 1)
}

func (v *Volume[T]) freeLeaf(ref nodeRef) {
	v.leaves[ref] = leaf[T]{}
	v.freeLeaves = append(v.freeLeaves, ref)
}

// Clone returns a deep copy of the volume
func (v *Volume[T]) Clone() *Volume[T] {
	return &Volume[T]{
		defaultValue: v.defaultValue,
		half:         v.half,
		root:         v.root,
		branches:     append([]branch(nil), v.branches...),
		leaves:       append([]leaf[T](nil), v.leaves...),
		freeBranches: append([]nodeRef(nil), v.freeBranches...),
		freeLeaves:   append([]nodeRef(nil), v.freeLeaves...),
	}
}
