package vox

import (
	"sort"
	"strconv"

	"github.com/ecopia-map/voxmesher/internal/data"
)

// Dict is a string dictionary as stored in the chunks
type Dict map[string]string

// Shape is one model of the file, as read from a SIZE chunk and the following XYZI chunk
type Shape struct {
	// width, depth and height
	Size   [3]int
	Voxels []data.Voxel
}

type NodeType int

const (
	TransformNode NodeType = iota
	GroupNode
	ShapeNode
)

func (t NodeType) String() string {
	switch t {
	case TransformNode:
		return "transform"
	case GroupNode:
		return "group"
	case ShapeNode:
		return "shape"
	}
	return "unknown"
}

// ShapeRef is a model referenced by a shape node
type ShapeRef struct {
	ModelID    int
	Attributes Dict
}

// Node is a node of the scene graph. Transform nodes have exactly one child, group nodes any number of
// children and shape nodes none.
type Node struct {
	ID         int
	Type       NodeType
	Attributes Dict
	Children   []int
	LayerID    int
	Frames     []Dict
	Models     []ShapeRef
}

// Frame returns the attributes of the given frame: the frame whose "_f" attribute matches, otherwise the
// first one. Nodes without frames return an empty dict.
func (n *Node) Frame(frame int) Dict {
	key := strconv.Itoa(frame)
	for _, f := range n.Frames {
		if f["_f"] == key {
			return f
		}
	}
	if len(n.Frames) == 0 {
		return Dict{}
	}
	return n.Frames[0]
}

// Name returns the "_name" attribute of the node
func (n *Node) Name() string {
	return n.Attributes["_name"]
}

// Hidden returns true when the "_hidden" attribute is set
func (n *Node) Hidden() bool {
	return n.Attributes["_hidden"] == "1"
}

// File is the decoded content of a .vox file
type File struct {
	Version   int
	Shapes    []Shape
	Palette   Palette
	Materials map[int]Material
	Nodes     map[int]*Node
	Layers    map[int]Dict
	Cameras   map[int]Dict
	// render settings of the rOBJ chunks
	RenderAttributes []Dict
	ColorNames       []string
	// true when the palette comes from an RGBA chunk
	CustomPalette bool
}

func newFile(version int) *File {
	return &File{
		Version:   version,
		Shapes:    make([]Shape, 0),
		Palette:   DefaultPalette(),
		Materials: make(map[int]Material),
		Nodes:     make(map[int]*Node),
		Layers:    make(map[int]Dict),
		Cameras:   make(map[int]Dict),
	}
}

// MaterialIDs returns the ids of the decoded materials in ascending order
func (f *File) MaterialIDs() []int {
	ids := make([]int, 0, len(f.Materials))
	for id := range f.Materials {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Material returns the material of a color index, the default diffuse material when none was decoded
func (f *File) Material(index uint8) Material {
	if m, ok := f.Materials[int(index)]; ok {
		return m
	}
	return DefaultMaterial(int(index))
}
