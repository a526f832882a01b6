package meshing

// Maps a principal axis to its two tangent axes. The order (axis, u, v) is a cyclic rotation of (x, y, z),
// so u x v points along +axis.
type permutation struct {
	axis int
	u    int
	v    int
}

var axisPermutations = [3]permutation{
	{axis: 0, u: 1, v: 2},
	{axis: 1, u: 2, v: 0},
	{axis: 2, u: 0, v: 1},
}

// Returns the cell coordinates of slab position a and tangent positions b, c
func (p permutation) point(a, b, c int) [3]int {
	var out [3]int
	out[p.axis] = a
	out[p.u] = b
	out[p.v] = c
	return out
}
