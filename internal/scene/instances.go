package scene

import (
	"fmt"

	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/go-gl/mathgl/mgl32"
)

// Only frame 0 of animated transforms is applied
const frame = 0

// Instance is one placement of a model in the scene
type Instance struct {
	ModelID int
	// id of the shape node, -1 for files without scene graph
	NodeID int
	// name of the nearest named transform node
	Name    string
	LayerID int
	Hidden  bool
	// model space to scene space, in voxel units
	Transform mgl32.Mat4
}

// Apply transforms a point of model space
func (i Instance) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return i.Transform.Mul4x1(p.Vec4(1)).Vec3()
}

// Instances walks the scene graph from node 0 and returns one instance per model referenced by a shape
// node, with the transforms of its path composed. The transform of the root node is not applied. Files
// without a scene graph get one instance per model at the origin.
func Instances(file *vox.File) ([]Instance, error) {
	out := make([]Instance, 0)
	root, ok := file.Nodes[0]
	if !ok {
		for id := range file.Shapes {
			out = append(out, Instance{ModelID: id, NodeID: -1, LayerID: -1, Transform: mgl32.Ident4()})
		}
		return out, nil
	}

	w := &walker{file: file, visiting: make(map[int]bool)}
	if err := w.walk(root, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type walker struct {
	file     *vox.File
	visiting map[int]bool
}

func (w *walker) walk(node *vox.Node, path []*vox.Node, out *[]Instance) error {
	if w.visiting[node.ID] {
		return fmt.Errorf("scene: cycle through node %d", node.ID)
	}
	w.visiting[node.ID] = true
	defer delete(w.visiting, node.ID)

	if node.Type == vox.ShapeNode {
		return w.emit(node, path, out)
	}

	next := append(path[:len(path):len(path)], node)
	for _, id := range node.Children {
		child, ok := w.file.Nodes[id]
		if !ok {
			return fmt.Errorf("scene: node %d references missing node %d", node.ID, id)
		}
		if err := w.walk(child, next, out); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) emit(shape *vox.Node, path []*vox.Node, out *[]Instance) error {
	transform := mgl32.Ident4()
	name := ""
	layer := -1
	hidden := false
	for i := len(path) - 1; i >= 1; i-- {
		node := path[i]
		if node.Type != vox.TransformNode {
			continue
		}
		m, err := NodeMatrix(node, frame)
		if err != nil {
			return err
		}
		transform = m.Mul4(transform)
		if name == "" {
			name = node.Name()
		}
		if layer == -1 {
			layer = node.LayerID
		}
		hidden = hidden || node.Hidden()
	}
	if l, ok := w.file.Layers[layer]; ok && l["_hidden"] == "1" {
		hidden = true
	}

	for _, ref := range shape.Models {
		if ref.ModelID < 0 || ref.ModelID >= len(w.file.Shapes) {
			return fmt.Errorf("scene: node %d references missing model %d", shape.ID, ref.ModelID)
		}
		*out = append(*out, Instance{
			ModelID:   ref.ModelID,
			NodeID:    shape.ID,
			Name:      name,
			LayerID:   layer,
			Hidden:    hidden,
			Transform: transform,
		})
	}
	return nil
}
