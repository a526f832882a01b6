package instance_converter

import (
	"math"

	"github.com/ecopia-map/voxmesher/internal/converters"
	"github.com/ecopia-map/voxmesher/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/shopspring/decimal"
)

// Places the lattice points of a model instance in the scene. Points are centered on the model, moved by
// the instance transform, scaled by the voxel size and finally passed to the elevation corrector.
//
// Instance transforms only hold axis permutations, sign flips and integer translations, so the transformed
// points are integers and the decimal scaling keeps them exact.
type InstanceConverter struct {
	center    [3]int
	transform mgl32.Mat4
	identity  bool
	mirrors   bool
	voxelSize decimal.Decimal
	corrector converters.ElevationCorrector
}

// Builds a converter for a model of the given declared size. The corrector may be nil.
func NewInstanceConverter(size [3]int, instance scene.Instance, voxelSize decimal.Decimal, corrector converters.ElevationCorrector) converters.CoordinateConverter {
	return &InstanceConverter{
		center:    [3]int{size[0] / 2, size[1] / 2, size[2] / 2},
		transform: instance.Transform,
		identity:  instance.Transform == mgl32.Ident4(),
		mirrors:   instance.Transform.Mat3().Det() < 0,
		voxelSize: voxelSize,
		corrector: corrector,
	}
}

func (c *InstanceConverter) ConvertVertex(p [3]int) [3]decimal.Decimal {
	local := [3]int{p[0] - c.center[0], p[1] - c.center[1], p[2] - c.center[2]}
	if !c.identity {
		v := c.transform.Mul4x1(mgl32.Vec4{float32(local[0]), float32(local[1]), float32(local[2]), 1})
		for i := 0; i < 3; i++ {
			local[i] = int(math.Round(float64(v[i])))
		}
	}

	var out [3]decimal.Decimal
	for i := 0; i < 3; i++ {
		out[i] = decimal.NewFromInt(int64(local[i])).Mul(c.voxelSize)
	}
	if c.corrector != nil {
		out[2] = c.corrector.CorrectElevation(out[2])
	}
	return out
}

func (c *InstanceConverter) ConvertNormal(n [3]int) [3]int {
	if c.identity {
		return n
	}
	v := c.transform.Mul4x1(mgl32.Vec4{float32(n[0]), float32(n[1]), float32(n[2]), 0})
	return [3]int{int(math.Round(float64(v[0]))), int(math.Round(float64(v[1]))), int(math.Round(float64(v[2])))}
}

func (c *InstanceConverter) Mirrors() bool {
	return c.mirrors
}
