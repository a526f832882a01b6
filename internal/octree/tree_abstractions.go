package octree

// IVolume is the read side of a sparse volume. The exterior classifier, the
// hull reducer and the mesh extractors only need this view.
type IVolume[T any] interface {
	// Returns the stored value or the default value of the volume
	Get(x, y, z int) T
	Contains(x, y, z int) bool
	// Returns the tight bounds of the stored cells, false when the volume is empty
	Bounds() (Bounds, bool)
	// Number of stored cells
	Len() int
	// Calls fn for every stored cell until fn returns false
	Each(fn func(x, y, z int, value T) bool)
}

// IMutableVolume adds the mutating operations
type IMutableVolume[T any] interface {
	IVolume[T]
	Add(x, y, z int, value T)
	Remove(x, y, z int) bool
}

var _ IMutableVolume[uint8] = (*Volume[uint8])(nil)
