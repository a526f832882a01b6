package voxel

import (
	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/ecopia-map/voxmesher/internal/octree"
)

// Models one decoded shape: its declared size and the color index stored at every occupied cell
type Model struct {
	// declared width, depth and height, informational only
	Size   [3]int
	Voxels *octree.Volume[uint8]
	// distinct color indices used by the voxels, in ascending order
	Colors []uint8
}

// Builds a model from a size record and its voxel records. Later records overwrite earlier ones at the same cell.
func NewModel(size [3]int, voxels []data.Voxel) *Model {
	volume := octree.New[uint8](0)
	for _, v := range voxels {
		volume.Add(v.X, v.Y, v.Z, v.Color)
	}

	var used [256]bool
	volume.Each(func(x, y, z int, color uint8) bool {
		used[color] = true
		return true
	})
	colors := make([]uint8, 0)
	for c, ok := range used {
		if ok {
			colors = append(colors, uint8(c))
		}
	}

	return &Model{
		Size:   size,
		Voxels: volume,
		Colors: colors,
	}
}

// Extent returns the declared cell range [0, size-1] of the model
func (m *Model) Extent() octree.Bounds {
	return octree.NewBounds(0, 0, 0, m.Size[0]-1, m.Size[1]-1, m.Size[2]-1)
}

func (m *Model) IsEmpty() bool {
	return m.Voxels.Len() == 0
}
