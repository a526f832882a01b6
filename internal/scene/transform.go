package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation decodes a packed rotation byte. Bits 0-1 give the column of the non-zero entry of the first row,
// bits 2-3 the one of the second row, the third row takes the remaining column. Bits 4, 5 and 6 negate
// the entry of the first, second and third row.
func Rotation(r uint8) (mgl32.Mat4, error) {
	first := int(r & 3)
	second := int((r >> 2) & 3)
	if first > 2 || second > 2 || first == second {
		return mgl32.Ident4(), fmt.Errorf("invalid rotation %d", r)
	}
	third := 3 - first - second

	var rows [3]mgl32.Vec4
	for i, col := range [3]int{first, second, third} {
		sign := float32(1)
		if r&(1<<(4+i)) != 0 {
			sign = -1
		}
		rows[i][col] = sign
	}
	return mgl32.Mat4FromRows(rows[0], rows[1], rows[2], mgl32.Vec4{0, 0, 0, 1}), nil
}

// Translation parses a "_t" attribute, three integers in voxel units
func Translation(t string) (mgl32.Mat4, error) {
	parts := strings.Fields(t)
	if len(parts) != 3 {
		return mgl32.Ident4(), fmt.Errorf("invalid translation %q", t)
	}
	var v [3]float32
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return mgl32.Ident4(), fmt.Errorf("invalid translation %q: %w", t, err)
		}
		v[i] = float32(n)
	}
	return mgl32.Translate3D(v[0], v[1], v[2]), nil
}

// NodeMatrix returns the translation times the rotation of a transform node at the given frame
func NodeMatrix(node *vox.Node, frame int) (mgl32.Mat4, error) {
	attributes := node.Frame(frame)
	translation, rotation := mgl32.Ident4(), mgl32.Ident4()
	var err error
	if t, ok := attributes["_t"]; ok {
		if translation, err = Translation(t); err != nil {
			return mgl32.Ident4(), fmt.Errorf("node %d: %w", node.ID, err)
		}
	}
	if r, ok := attributes["_r"]; ok {
		value, convErr := strconv.ParseUint(r, 10, 8)
		if convErr != nil {
			return mgl32.Ident4(), fmt.Errorf("node %d: invalid rotation %q: %w", node.ID, r, convErr)
		}
		if rotation, err = Rotation(uint8(value)); err != nil {
			return mgl32.Ident4(), fmt.Errorf("node %d: %w", node.ID, err)
		}
	}
	return translation.Mul4(rotation), nil
}
