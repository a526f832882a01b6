package meshing

import (
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
)

type Options struct {
	// Treats every face as exposed and ignores the outside mask
	AllFaces bool
	// Lets the greedy mesher merge faces of different colors
	IgnoreColor bool
}

// Decides whether the face of a cell in direction d has to be emitted
type exposure struct {
	extent   octree.Bounds
	mask     *voxel.OutsideMask
	allFaces bool
}

func newExposure(extent octree.Bounds, mask *voxel.OutsideMask, opts Options) exposure {
	if mask == nil && !opts.AllFaces {
		panic("meshing: outside mask not computed")
	}
	return exposure{extent: extent, mask: mask, allFaces: opts.AllFaces}
}

func (e exposure) exposed(cell [3]int, d voxel.Direction) bool {
	if e.allFaces {
		return true
	}
	o := d.Offset()
	x, y, z := cell[0]+o[0], cell[1]+o[1], cell[2]+o[2]
	if !e.extent.Contains(x, y, z) {
		return true
	}
	return e.mask.Get(x, y, z)
}
