package meshing

import (
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
)

// Simple emits one unit quad for every exposed face of every occupied cell. A face is exposed when its
// neighbor lies outside extent or the mask reports the neighbor as exterior. The mask may be nil only
// with opts.AllFaces.
func Simple(volume octree.IVolume[uint8], mask *voxel.OutsideMask, extent octree.Bounds, opts Options) []Quad {
	e := newExposure(extent, mask, opts)
	quads := make([]Quad, 0)
	volume.Each(func(x, y, z int, color uint8) bool {
		cell := [3]int{x, y, z}
		for _, d := range voxel.Directions {
			if !e.exposed(cell, d) {
				continue
			}
			p := axisPermutations[d.Axis()]
			quads = append(quads, newQuad(d, cell[p.axis], cell[p.u], cell[p.v], 1, 1, color))
		}
		return true
	})
	return quads
}
