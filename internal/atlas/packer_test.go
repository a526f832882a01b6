package atlas

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/ecopia-map/voxmesher/internal/meshing"
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
	"github.com/stretchr/testify/require"
)

func requireDisjoint(t *testing.T, rects []PackedRect, width, height int) {
	t.Helper()
	for i, r := range rects {
		require.GreaterOrEqual(t, r.X, 0)
		require.GreaterOrEqual(t, r.Y, 0)
		require.LessOrEqual(t, r.X+r.Width, width)
		require.LessOrEqual(t, r.Y+r.Height, height)
		for _, o := range rects[i+1:] {
			require.False(t, r.Overlaps(o), "%+v overlaps %+v", r, o)
		}
	}
}

func TestPackerUnitSquares(t *testing.T) {
	p := NewPacker(16)

	expected := []PackedRect{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 1, Y: 0, Width: 1, Height: 1},
		{X: 0, Y: 1, Width: 1, Height: 1},
		{X: 1, Y: 1, Width: 1, Height: 1},
	}
	sizes := [][2]int{{1, 1}, {2, 1}, {2, 2}, {2, 2}}
	for i, e := range expected {
		r, err := p.TryPack(1, 1)
		require.NoError(t, err)
		require.Equal(t, e, r)

		w, h := p.Size()
		require.Equal(t, sizes[i], [2]int{w, h})
	}
	require.Equal(t, expected, p.Rects())
}

func TestPackerSlidesIntoGaps(t *testing.T) {
	t.Run("left wins over up", func(t *testing.T) {
		p := NewPacker(4)
		p.width, p.height = 4, 4
		p.occupied = make([]bool, 16)
		p.anchors = []anchor{{3, 2}}

		r, err := p.TryPack(1, 1)
		require.NoError(t, err)
		require.Equal(t, PackedRect{X: 0, Y: 2, Width: 1, Height: 1}, r)
		// the slid placement no longer covers the anchor it was found at
		require.Equal(t, []anchor{{1, 2}, {0, 3}, {3, 2}}, p.anchors)
	})

	t.Run("up when the left column is taken", func(t *testing.T) {
		p := NewPacker(4)
		p.width, p.height = 4, 4
		p.occupied = make([]bool, 16)
		for y := 0; y < 4; y++ {
			p.occupied[y*4] = true
		}
		p.anchors = []anchor{{1, 3}}

		r, err := p.TryPack(2, 1)
		require.NoError(t, err)
		require.Equal(t, PackedRect{X: 1, Y: 0, Width: 2, Height: 1}, r)
		require.Equal(t, []anchor{{1, 1}, {3, 0}, {1, 3}}, p.anchors)
	})

	t.Run("consumed anchor is dropped when covered", func(t *testing.T) {
		p := NewPacker(4)
		r, err := p.TryPack(1, 1)
		require.NoError(t, err)
		require.Equal(t, PackedRect{X: 0, Y: 0, Width: 1, Height: 1}, r)
		require.Equal(t, []anchor{{1, 0}, {0, 1}}, p.anchors)
	})
}

func TestPackerFull(t *testing.T) {
	p := NewPacker(4)

	_, err := p.TryPack(5, 1)
	require.True(t, errors.Is(err, ErrAtlasFull))

	for i := 0; i < 4; i++ {
		_, err := p.TryPack(2, 2)
		require.NoError(t, err)
	}
	_, err = p.TryPack(1, 1)
	require.ErrorIs(t, err, ErrAtlasFull)

	w, h := p.Size()
	require.Equal(t, 4, w)
	require.Equal(t, 4, h)
	requireDisjoint(t, p.Rects(), w, h)

	_, err = p.TryPack(0, 3)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrAtlasFull))
}

func TestPackerNonPowerOfTwoLimit(t *testing.T) {
	p := NewPacker(100)

	r, err := p.TryPack(80, 80)
	require.NoError(t, err)
	require.Equal(t, PackedRect{X: 0, Y: 0, Width: 80, Height: 80}, r)
	w, h := p.Size()
	require.Equal(t, 100, w)
	require.Equal(t, 100, h)

	r, err = p.TryPack(20, 100)
	require.NoError(t, err)
	require.Equal(t, 80, r.X)
	r, err = p.TryPack(80, 20)
	require.NoError(t, err)
	require.Equal(t, 80, r.Y)

	_, err = p.TryPack(1, 1)
	require.ErrorIs(t, err, ErrAtlasFull)
	w, h = p.Size()
	require.Equal(t, 100, w)
	require.Equal(t, 100, h)
	requireDisjoint(t, p.Rects(), w, h)
}

func TestPackerRandomNoOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for run := 0; run < 10; run++ {
		p := NewPacker(1 << 12)
		for i := 0; i < 150; i++ {
			_, err := p.TryPack(1+rng.Intn(12), 1+rng.Intn(12))
			require.NoError(t, err)
		}
		w, h := p.Size()
		requireDisjoint(t, p.Rects(), w, h)
		require.Len(t, p.Rects(), 150)
	}
}

func TestPackQuads(t *testing.T) {
	v := octree.New[uint8](0)
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			v.Add(x, y, 0, uint8(1+x))
		}
	}
	v.Add(5, 5, 5, 1)
	mask := voxel.ClassifyExterior[uint8](v)
	quads := meshing.Greedy(v, mask, octree.NewBounds(0, 0, 0, 5, 5, 5), meshing.Options{IgnoreColor: true})

	a, err := PackQuads(quads, 256)
	require.NoError(t, err)
	require.Len(t, a.Rects, len(quads))
	for i, q := range quads {
		require.Equal(t, q.Width, a.Rects[i].Width)
		require.Equal(t, q.Height, a.Rects[i].Height)
	}
	requireDisjoint(t, a.Rects, a.Width, a.Height)

	u, vv := a.UV(a.Width, 0)
	require.Equal(t, "1", u.String())
	require.Equal(t, "1", vv.String())
	u, vv = a.UV(0, a.Height)
	require.True(t, u.IsZero())
	require.True(t, vv.IsZero())

	t.Run("empty", func(t *testing.T) {
		a, err := PackQuads(nil, 16)
		require.NoError(t, err)
		require.Empty(t, a.Rects)
	})

	t.Run("too small", func(t *testing.T) {
		_, err := PackQuads(quads, 2)
		require.ErrorIs(t, err, ErrAtlasFull)
	})
}

func TestRender(t *testing.T) {
	v := octree.New[uint8](0)
	for x := 0; x < 3; x++ {
		v.Add(x, 0, 0, uint8(1+x))
	}
	bounds, _ := v.Bounds()
	quads := meshing.Greedy(v, voxel.ClassifyExterior[uint8](v), bounds, meshing.Options{IgnoreColor: true})
	require.Len(t, quads, 6)

	a, err := PackQuads(quads, 64)
	require.NoError(t, err)

	colors := func(index uint8) color.NRGBA {
		return color.NRGBA{R: index, A: 255}
	}
	img := a.Render(quads, v, colors)
	require.Equal(t, image.Rect(0, 0, a.Width, a.Height), img.Bounds())

	for k, q := range quads {
		r := a.Rects[k]
		for j := 0; j < q.Height; j++ {
			for i := 0; i < q.Width; i++ {
				cell := q.Cell(i, j)
				require.Equal(t, colors(v.Get(cell[0], cell[1], cell[2])), img.NRGBAAt(r.X+i, r.Y+j))
			}
		}

		// corner 0 is the origin of the quad, the top-left texel corner of its rect
		u, vv := a.CornerUV(quads, k, 0)
		require.InDelta(t, float64(r.X)/float64(a.Width), u.InexactFloat64(), 1e-9)
		require.InDelta(t, 1-float64(r.Y)/float64(a.Height), vv.InexactFloat64(), 1e-9)
	}
}
