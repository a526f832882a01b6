package octree

import "math/bits"

// Cell is one stored entry of a volume
type Cell[T any] struct {
	X, Y, Z int
	Value   T
}

type frame struct {
	ref  nodeRef
	next int
}

// Iterator walks every stored cell of a volume exactly once, leaf by leaf. The order is stable as
// long as the volume is not mutated, the result of mutating the volume during a walk is undefined.
type Iterator[T any] struct {
	volume *Volume[T]
	stack  []frame
	leaf   nodeRef
	bits   uint64
	cell   Cell[T]
}

// Iterator returns an iterator positioned before the first cell
func (v *Volume[T]) Iterator() *Iterator[T] {
	it := &Iterator[T]{volume: v, stack: make([]frame, 0, 16)}
	it.Reset()
	return it
}

// Reset restarts the walk from the first cell
func (it *Iterator[T]) Reset() {
	it.stack = it.stack[:0]
	it.leaf = nilRef
	it.bits = 0
	if it.volume.root != nilRef {
		it.stack = append(it.stack, frame{ref: it.volume.root})
	}
}

// Next advances to the next stored cell and returns false when the walk is over
func (it *Iterator[T]) Next() bool {
	for {
		if it.bits != 0 {
			i := bits.TrailingZeros64(it.bits)
			it.bits &= it.bits - 1
			l := &it.volume.leaves[it.leaf]
			x, y, z := l.cellAt(i)
			it.cell = Cell[T]{X: x, Y: y, Z: z, Value: l.values[i]}
			return true
		}
		if len(it.stack) == 0 {
			return false
		}
		top := &it.stack[len(it.stack)-1]
		if top.next == 8 {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		b := &it.volume.branches[top.ref]
		child := b.children[top.next]
		top.next++
		if child == nilRef {
			continue
		}
		if b.holdsLeaves() {
			it.leaf = child
			it.bits = it.volume.leaves[child].occupied
			continue
		}
		it.stack = append(it.stack, frame{ref: child})
	}
}

// Cell returns the cell the iterator is positioned on
func (it *Iterator[T]) Cell() Cell[T] {
	return it.cell
}

// Each calls fn for every stored cell until fn returns false
func (v *Volume[T]) Each(fn func(x, y, z int, value T) bool) {
	it := v.Iterator()
	for it.Next() {
		c := it.Cell()
		if !fn(c.X, c.Y, c.Z, c.Value) {
			return
		}
	}
}

// Cells returns all the stored cells in iteration order
func (v *Volume[T]) Cells() []Cell[T] {
	out := make([]Cell[T], 0, v.Len())
	v.Each(func(x, y, z int, value T) bool {
		out = append(out, Cell[T]{X: x, Y: y, Z: z, Value: value})
		return true
	})
	return out
}
