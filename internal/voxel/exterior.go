package voxel

import (
	"github.com/ecopia-map/voxmesher/internal/octree"
)

// OutsideMask tells, for every cell, whether it is exterior. It holds false at the cells proven not to
// be exterior, every other cell reads as true.
type OutsideMask = octree.Volume[bool]

// Instantiates a mask where every cell is exterior
func NewOutsideMask() *OutsideMask {
	return octree.New(true)
}

// label value of occupied cells in the scratch grid
const occupiedLabel int32 = -1

// ClassifyExterior computes the outside mask of the volume over its bounds expanded by one cell on every
// side, so the outer shell of the scanned region is always empty and connected.
func ClassifyExterior[T any](volume octree.IVolume[T]) *OutsideMask {
	bounds, ok := volume.Bounds()
	if !ok {
		return NewOutsideMask()
	}
	return ClassifyRegion(volume, bounds.Expand(1))
}

// ClassifyRegion labels the connected components of the empty cells inside region with the
// Hoshen-Kopelman algorithm. The component of the first empty cell found on the region shell is the
// exterior; occupied cells and empty cells of any other component are stored as false.
//
// Two cases are approximated by a mask where everything is exterior: a region without empty cells and
// a region whose shell holds no empty cell. Both only cost hidden faces, never occupancy.
func ClassifyRegion[T any](volume octree.IVolume[T], region octree.Bounds) *OutsideMask {
	mask := NewOutsideMask()
	if volume.Len() == 0 {
		return mask
	}

	size := region.Size()
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return mask
	}
	strideY := size[0]
	strideZ := size[0] * size[1]
	labels := make([]int32, strideZ*size[2])

	occupied := 0
	volume.Each(func(x, y, z int, _ T) bool {
		if region.Contains(x, y, z) {
			labels[(z-region.Min[2])*strideZ+(y-region.Min[1])*strideY+(x-region.Min[0])] = occupiedLabel
			occupied++
		}
		return true
	})
	if occupied == len(labels) {
		return mask
	}

	sets := newLabelSets()
	i := 0
	for z := 0; z < size[2]; z++ {
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				if labels[i] == occupiedLabel {
					i++
					continue
				}
				var label int32
				if x > 0 {
					label = sets.merge(label, labels[i-1])
				}
				if y > 0 {
					label = sets.merge(label, labels[i-strideY])
				}
				if z > 0 {
					label = sets.merge(label, labels[i-strideZ])
				}
				if label == 0 {
					label = sets.add()
				}
				labels[i] = label
				i++
			}
		}
	}

	shellIndex, ok := firstEmptyOnShell(labels, size)
	if !ok {
		return mask
	}
	exterior := sets.find(labels[shellIndex])

	i = 0
	for z := region.Min[2]; z <= region.Max[2]; z++ {
		for y := region.Min[1]; y <= region.Max[1]; y++ {
			for x := region.Min[0]; x <= region.Max[0]; x++ {
				if labels[i] == occupiedLabel || sets.find(labels[i]) != exterior {
					mask.Add(x, y, z, false)
				}
				i++
			}
		}
	}
	return mask
}

// Scans the shell of the grid face by face: the two y faces, the two z faces, then the two x faces
func firstEmptyOnShell(labels []int32, size [3]int) (int, bool) {
	index := func(x, y, z int) int {
		return z*size[0]*size[1] + y*size[0] + x
	}
	last := [3]int{size[0] - 1, size[1] - 1, size[2] - 1}

	for z := 0; z < size[2]; z++ {
		for x := 0; x < size[0]; x++ {
			for _, i := range [2]int{index(x, 0, z), index(x, last[1], z)} {
				if labels[i] != occupiedLabel {
					return i, true
				}
			}
		}
	}
	for y := 0; y < size[1]; y++ {
		for x := 0; x < size[0]; x++ {
			for _, i := range [2]int{index(x, y, 0), index(x, y, last[2])} {
				if labels[i] != occupiedLabel {
					return i, true
				}
			}
		}
	}
	for y := 0; y < size[1]; y++ {
		for z := 0; z < size[2]; z++ {
			for _, i := range [2]int{index(0, y, z), index(last[0], y, z)} {
				if labels[i] != occupiedLabel {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// Union-find over labels. Label 0 is unused so it can mark "no label yet", and every set is
// represented by its minimum label.
type labelSets struct {
	parent []int32
}

func newLabelSets() *labelSets {
	return &labelSets{parent: []int32{0}}
}

func (s *labelSets) add() int32 {
	label := int32(len(s.parent))
	s.parent = append(s.parent, label)
	return label
}

func (s *labelSets) find(label int32) int32 {
	for s.parent[label] != label {
		s.parent[label] = s.parent[s.parent[label]]
		label = s.parent[label]
	}
	return label
}

// Combines the running label of a cell with the label of one of its neighbors. Occupied neighbors are
// ignored, otherwise the two sets are joined and the smaller label is kept.
func (s *labelSets) merge(label, neighbor int32) int32 {
	if neighbor == occupiedLabel {
		return label
	}
	if label == 0 {
		return neighbor
	}
	a, b := s.find(label), s.find(neighbor)
	if a != b {
		if a < b {
			s.parent[b] = a
		} else {
			s.parent[a] = b
		}
	}
	if neighbor < label {
		return neighbor
	}
	return label
}
