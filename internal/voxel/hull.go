package voxel

import (
	"github.com/ecopia-map/voxmesher/internal/octree"
)

// ReduceToHull removes every occupied cell none of whose six neighbors is exterior according to mask.
// The cells to remove are collected before any removal, so the sweep only ever reads the initial state.
// Returns the number of removed cells.
func ReduceToHull[T any](volume octree.IMutableVolume[T], mask *OutsideMask) int {
	if mask == nil {
		panic("voxel: outside mask not computed")
	}

	interior := make([][3]int, 0)
	volume.Each(func(x, y, z int, _ T) bool {
		if !touchesExterior(mask, x, y, z) {
			interior = append(interior, [3]int{x, y, z})
		}
		return true
	})

	for _, c := range interior {
		volume.Remove(c[0], c[1], c[2])
	}
	return len(interior)
}

func touchesExterior(mask *OutsideMask, x, y, z int) bool {
	for _, d := range Directions {
		o := d.Offset()
		if mask.Get(x+o[0], y+o[1], z+o[2]) {
			return true
		}
	}
	return false
}
