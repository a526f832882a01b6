package meshing

import (
	"math/rand"
	"testing"

	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type face struct {
	direction voxel.Direction
	cell      [3]int
}

func unitFaces(quads []Quad) map[face]uint8 {
	out := make(map[face]uint8)
	for _, q := range quads {
		for i := 0; i < q.Width; i++ {
			for j := 0; j < q.Height; j++ {
				out[face{q.Direction, q.Cell(i, j)}] = q.Color
			}
		}
	}
	return out
}

func sub(a, b [3]int) [3]int {
	return [3]int{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]int) [3]int {
	return [3]int{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]int) int {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Checks the corners span Width x Height, lie on the face plane and wind around the normal
func requireWellFormed(t *testing.T, q Quad) {
	t.Helper()
	for i := 0; i < 4; i++ {
		e1 := sub(q.Corners[(i+1)%4], q.Corners[i])
		e2 := sub(q.Corners[(i+2)%4], q.Corners[(i+1)%4])
		require.Zero(t, dot(e1, q.Normal))
		require.Positive(t, dot(cross(e1, e2), q.Normal), "quad %+v", q)
	}
	n := cross(sub(q.Corners[1], q.Corners[0]), sub(q.Corners[3], q.Corners[0]))
	require.Equal(t, q.Width*q.Height, dot(n, q.Normal))
}

func randomVolume(rng *rand.Rand, size int, fill float64) *octree.Volume[uint8] {
	v := octree.New[uint8](0)
	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if rng.Float64() < fill {
					v.Add(x, y, z, uint8(1+rng.Intn(3)))
				}
			}
		}
	}
	return v
}

func box(sx, sy, sz int, color uint8) *octree.Volume[uint8] {
	v := octree.New[uint8](0)
	for z := 0; z < sz; z++ {
		for y := 0; y < sy; y++ {
			for x := 0; x < sx; x++ {
				v.Add(x, y, z, color)
			}
		}
	}
	return v
}

func TestSimpleSingleCell(t *testing.T) {
	v := octree.New[uint8](0)
	v.Add(0, 0, 0, 7)
	mask := voxel.ClassifyExterior[uint8](v)

	quads := Simple(v, mask, octree.CellBounds(0, 0, 0), Options{})
	require.Len(t, quads, 6)

	normals := make(map[[3]int]bool)
	for _, q := range quads {
		require.Equal(t, 1, q.Width)
		require.Equal(t, 1, q.Height)
		require.Equal(t, uint8(7), q.Color)
		require.Equal(t, [3]int{0, 0, 0}, q.Origin)
		requireWellFormed(t, q)
		normals[q.Normal] = true
	}
	require.Len(t, normals, 6)

	require.Equal(t, [4][3]int{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, quads[5].Corners)
	require.Equal(t, [4][3]int{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, quads[0].Corners)
}

func TestSimpleHidesInnerFaces(t *testing.T) {
	v := box(2, 1, 1, 1)
	mask := voxel.ClassifyExterior[uint8](v)
	quads := Simple(v, mask, octree.NewBounds(0, 0, 0, 1, 0, 0), Options{})
	require.Len(t, quads, 10)

	t.Run("faces leaving the extent are always exposed", func(t *testing.T) {
		hidden := voxel.NewOutsideMask()
		for z := -1; z <= 1; z++ {
			for y := -1; y <= 1; y++ {
				for x := -1; x <= 2; x++ {
					hidden.Add(x, y, z, false)
				}
			}
		}
		quads := Simple(v, hidden, octree.NewBounds(0, 0, 0, 1, 0, 0), Options{})
		require.Len(t, quads, 10)
	})

	t.Run("all faces", func(t *testing.T) {
		quads := Simple(v, nil, octree.NewBounds(0, 0, 0, 1, 0, 0), Options{AllFaces: true})
		require.Len(t, quads, 12)
	})

	t.Run("nil mask panics", func(t *testing.T) {
		require.Panics(t, func() {
			Simple(v, nil, octree.NewBounds(0, 0, 0, 1, 0, 0), Options{})
		})
	})
}

func TestGreedyBox(t *testing.T) {
	v := box(3, 2, 1, 4)
	extent := octree.NewBounds(0, 0, 0, 2, 1, 0)
	quads := Greedy(v, voxel.ClassifyExterior[uint8](v), extent, Options{})
	require.Len(t, quads, 6)

	areas := make(map[voxel.Direction]int)
	for _, q := range quads {
		requireWellFormed(t, q)
		areas[q.Direction] = q.Area()
	}
	require.Equal(t, map[voxel.Direction]int{
		voxel.NegX: 2, voxel.PosX: 2,
		voxel.NegY: 3, voxel.PosY: 3,
		voxel.NegZ: 6, voxel.PosZ: 6,
	}, areas)

	for _, q := range quads {
		if q.Direction == voxel.PosZ {
			require.Equal(t, [4][3]int{{0, 0, 1}, {3, 0, 1}, {3, 2, 1}, {0, 2, 1}}, q.Corners)
			require.Equal(t, 3, q.Width)
			require.Equal(t, 2, q.Height)
		}
	}
}

func TestGreedyColors(t *testing.T) {
	v := octree.New[uint8](0)
	v.Add(0, 0, 0, 1)
	v.Add(1, 0, 0, 2)
	mask := voxel.ClassifyExterior[uint8](v)
	extent := octree.NewBounds(0, 0, 0, 1, 0, 0)

	require.Len(t, Greedy(v, mask, extent, Options{}), 10)

	merged := Greedy(v, mask, extent, Options{IgnoreColor: true})
	require.Len(t, merged, 6)
	for _, q := range merged {
		if q.Direction.Axis() != 0 {
			require.Equal(t, 2, q.Area())
			require.Equal(t, uint8(1), q.Color)
		}
	}
}

func TestGreedyEmpty(t *testing.T) {
	v := octree.New[uint8](0)
	require.Empty(t, Greedy(v, voxel.ClassifyExterior[uint8](v), octree.CellBounds(0, 0, 0), Options{}))
	require.Empty(t, Simple(v, voxel.ClassifyExterior[uint8](v), octree.CellBounds(0, 0, 0), Options{}))
}

func TestGreedySkipsCavityFaces(t *testing.T) {
	v := box(5, 5, 5, 1)
	v.Remove(2, 2, 2)
	quads := Greedy(v, voxel.ClassifyExterior[uint8](v), octree.NewBounds(0, 0, 0, 4, 4, 4), Options{})
	require.Len(t, quads, 6)
	for _, q := range quads {
		require.Equal(t, 25, q.Area())
	}
}

func TestSimpleGreedyEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 20; run++ {
		size := 2 + rng.Intn(7)
		v := randomVolume(rng, size, 0.2+rng.Float64()*0.7)
		extent := octree.NewBounds(0, 0, 0, size-1, size-1, size-1)
		mask := voxel.ClassifyExterior[uint8](v)

		for _, opts := range []Options{{}, {IgnoreColor: true}, {AllFaces: true}} {
			simple := Simple(v, mask, extent, opts)
			greedy := Greedy(v, mask, extent, opts)
			require.LessOrEqual(t, len(greedy), len(simple))

			simpleFaces := unitFaces(simple)
			greedyFaces := unitFaces(greedy)
			if opts.IgnoreColor {
				for f := range greedyFaces {
					greedyFaces[f] = 0
				}
				for f := range simpleFaces {
					simpleFaces[f] = 0
				}
			}
			require.Len(t, simpleFaces, len(simple))
			total := 0
			for _, q := range greedy {
				total += q.Area()
				requireWellFormed(t, q)
			}
			require.Equal(t, total, len(greedyFaces), "greedy quads overlap")
			if diff := cmp.Diff(simpleFaces, greedyFaces); diff != "" {
				t.Fatalf("run %d %+v: faces mismatch (-simple +greedy):\n%s", run, opts, diff)
			}
		}
	}
}

func TestQuadTangent(t *testing.T) {
	v := box(3, 2, 1, 1)
	bounds, _ := v.Bounds()
	quads := Greedy(v, voxel.ClassifyExterior(v), bounds, Options{})
	require.Len(t, quads, 6)
	for _, q := range quads {
		offsets := make(map[[2]int]bool)
		for k := 0; k < 4; k++ {
			du, dv := q.Tangent(k)
			offsets[[2]int{du, dv}] = true
		}
		require.Equal(t, map[[2]int]bool{
			{0, 0}:              true,
			{q.Width, 0}:        true,
			{q.Width, q.Height}: true,
			{0, q.Height}:       true,
		}, offsets, "quad %+v", q)
	}
}
