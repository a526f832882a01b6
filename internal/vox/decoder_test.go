package vox

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/ecopia-map/voxmesher/internal/vox/voxtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b *voxtest.Builder) *File {
	t.Helper()
	f, err := Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	return f
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestDecodeModels(t *testing.T) {
	f := decode(t, new(voxtest.Builder).
		Chunk("PACK", []byte{2, 0, 0, 0}).
		Model(2, 3, 4, [][4]uint8{{0, 0, 0, 1}, {1, 2, 3, 200}}).
		Model(1, 1, 1, [][4]uint8{{0, 0, 0, 7}}))

	require.Equal(t, 150, f.Version)
	require.Len(t, f.Shapes, 2)
	require.Equal(t, [3]int{2, 3, 4}, f.Shapes[0].Size)
	require.Equal(t, []data.Voxel{data.NewVoxel(0, 0, 0, 1), data.NewVoxel(1, 2, 3, 200)}, f.Shapes[0].Voxels)
	require.Equal(t, []data.Voxel{data.NewVoxel(0, 0, 0, 7)}, f.Shapes[1].Voxels)
	require.False(t, f.CustomPalette)
	require.Equal(t, DefaultPalette(), f.Palette)
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	f := decode(t, new(voxtest.Builder).
		Chunk("ABCD", []byte{1, 2, 3, 4, 5}).
		Model(1, 1, 1, [][4]uint8{{0, 0, 0, 3}}).
		Chunk("IMAP", make([]byte, 256)))
	require.Len(t, f.Shapes, 1)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte("RIFF\x96\x00\x00\x00")))
		require.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(nil))
		require.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("truncated chunk", func(t *testing.T) {
		raw := new(voxtest.Builder).Model(2, 2, 2, [][4]uint8{{0, 0, 0, 1}, {1, 1, 1, 1}}).Bytes()
		_, err := Decode(bytes.NewReader(raw[:len(raw)-3]))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("truncated content", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(new(voxtest.Builder).Chunk("SIZE", []byte{1, 0, 0, 0}).Bytes()))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("voxels before size", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(new(voxtest.Builder).Chunk("XYZI", []byte{0, 0, 0, 0}).Bytes()))
		require.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("voxel count larger than the chunk", func(t *testing.T) {
		raw := new(voxtest.Builder).
			Chunk("SIZE", []byte{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}).
			Chunk("XYZI", []byte{9, 0, 0, 0, 0, 0, 0, 1}).
			Bytes()
		_, err := Decode(bytes.NewReader(raw))
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("voxel list cut short", func(t *testing.T) {
		raw := new(voxtest.Builder).
			Chunk("SIZE", []byte{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}).
			Chunk("XYZI", []byte{2, 0, 0, 0, 0, 0, 0, 1}).
			Bytes()
		_, err := Decode(bytes.NewReader(raw))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	for name, c := range map[string]struct {
		id      string
		content []byte
		err     error
	}{
		"dictionary count larger than the chunk": {"MATL", []byte{1, 0, 0, 0, 0xe8, 0x03, 0, 0}, ErrMalformed},
		"negative child count":                   {"nGRP", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}, ErrMalformed},
		"string longer than the chunk":           {"LAYR", []byte{0, 0, 0, 0, 1, 0, 0, 0, 50, 0, 0, 0, 'a', 'b'}, io.ErrUnexpectedEOF},
		"missing legacy material value":          {"MATT", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0}, io.ErrUnexpectedEOF},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(new(voxtest.Builder).Chunk(c.id, c.content).Bytes()))
			require.ErrorIs(t, err, c.err)
			require.Contains(t, err.Error(), "chunk "+c.id)
		})
	}
}

func TestPalette(t *testing.T) {
	t.Run("default palette words are ABGR", func(t *testing.T) {
		p := DefaultPalette()
		require.Equal(t, data.Color{R: 0, G: 0, B: 0, A: 0}, p[0])
		require.Equal(t, data.Color{R: 255, G: 255, B: 255, A: 255}, p[1])
		require.Equal(t, data.Color{R: 255, G: 255, B: 0xcc, A: 255}, p[2])
		require.Equal(t, [4]float64{1, 1, 0.8, 1}, p.Float(2))
	})

	t.Run("rgba chunk shifts entries by one", func(t *testing.T) {
		var entries [256][4]uint8
		for i := range entries {
			entries[i] = [4]uint8{uint8(i), 0, 0, 255}
		}
		f := decode(t, new(voxtest.Builder).Palette(entries))
		require.True(t, f.CustomPalette)
		require.Equal(t, data.Color{R: 255, A: 255}, f.Palette[0])
		require.Equal(t, data.Color{R: 0, A: 255}, f.Palette[1])
		require.Equal(t, data.Color{R: 254, A: 255}, f.Palette[255])
		require.Equal(t, "#fe0000ff", f.Palette[255].Hex())
	})
}

func TestMaterials(t *testing.T) {
	f := decode(t, new(voxtest.Builder).
		Material(1, map[string]string{"_type": "_metal", "_rough": "0.4", "_metal": "0.8", "_ri": "1.5"}).
		Material(2, map[string]string{"_type": "_glass", "_metal": "0.8", "_trans": "0.5"}).
		Material(3, map[string]string{"_type": "_emit", "_emit": "0.39"}).
		LegacyMaterial(4, 1, 0.5, 1<<1|1<<3|1<<7, 0.25, 1.7))

	require.Equal(t, []int{1, 2, 3, 4}, f.MaterialIDs())

	metal := f.Materials[1]
	require.Equal(t, MaterialMetal, metal.Type)
	requireDecimal(t, "0.2", metal.Roughness)
	requireDecimal(t, "0.8", metal.Metallic)
	requireDecimal(t, "1.5", metal.IOR)

	glass := f.Materials[2]
	requireDecimal(t, "0.05", glass.Roughness)
	requireDecimal(t, "0", glass.Metallic)
	requireDecimal(t, "1.3", glass.IOR)
	requireDecimal(t, "0.5", glass.Transparency)

	require.True(t, f.Materials[3].IsEmissive())
	require.False(t, metal.IsEmissive())

	legacy := f.Materials[4]
	require.Equal(t, MaterialMetal, legacy.Type)
	requireDecimal(t, "0.125", legacy.Roughness)
	require.Equal(t, "1.7", legacy.Properties["_ior"])
	require.Equal(t, "1", legacy.Properties["_isTotalPower"])
	require.Equal(t, "0.5", legacy.Properties["_weight"])

	def := f.Material(9)
	require.Equal(t, MaterialDiffuse, def.Type)
	requireDecimal(t, "0.05", def.Roughness)

	t.Run("invalid property", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(new(voxtest.Builder).Material(1, map[string]string{"_rough": "rough"}).Bytes()))
		require.Error(t, err)
	})
}

func TestSceneChunks(t *testing.T) {
	f := decode(t, new(voxtest.Builder).
		Model(1, 1, 1, [][4]uint8{{0, 0, 0, 1}}).
		Transform(0, 1, -1, nil, nil).
		Group(1, 2).
		Transform(2, 3, 0, map[string]string{"_name": "tree", "_hidden": "1"}, map[string]string{"_t": "1 2 3", "_r": "4"}).
		Shape(3, 0).
		Layer(0, map[string]string{"_name": "ground"}).
		Camera(0, map[string]string{"_mode": "pers"}).
		Note("red", "green").
		Chunk("rOBJ", []byte{0, 0, 0, 0}))

	require.Len(t, f.Nodes, 4)
	require.Equal(t, GroupNode, f.Nodes[1].Type)
	require.Equal(t, []int{2}, f.Nodes[1].Children)

	trn := f.Nodes[2]
	require.Equal(t, TransformNode, trn.Type)
	require.Equal(t, "tree", trn.Name())
	require.True(t, trn.Hidden())
	require.Equal(t, 0, trn.LayerID)
	require.Equal(t, "1 2 3", trn.Frame(0)["_t"])
	require.Equal(t, "4", trn.Frame(5)["_r"])

	require.Equal(t, ShapeNode, f.Nodes[3].Type)
	require.Equal(t, []ShapeRef{{ModelID: 0, Attributes: Dict{}}}, f.Nodes[3].Models)

	require.Equal(t, Dict{"_name": "ground"}, f.Layers[0])
	require.Equal(t, Dict{"_mode": "pers"}, f.Cameras[0])
	require.Equal(t, []string{"red", "green"}, f.ColorNames)
	require.Equal(t, []Dict{{}}, f.RenderAttributes)
}

func TestNodeFrame(t *testing.T) {
	n := &Node{Frames: []Dict{{"_t": "0 0 0"}, {"_f": "3", "_t": "1 1 1"}}}
	require.Equal(t, "1 1 1", n.Frame(3)["_t"])
	require.Equal(t, "0 0 0", n.Frame(0)["_t"])
	require.Empty(t, (&Node{}).Frame(0))
	require.Equal(t, "transform", TransformNode.String())
}
