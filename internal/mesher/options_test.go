package mesher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for input, expected := range map[string]MeshingType{
		"greedy":        Greedy,
		" simple-cubes": SimpleCubes,
		"SIMPLE_QUADS":  SimpleQuads,
		"marching":      "",
	} {
		require.Equal(t, expected, ParseMeshingType(input), input)
	}

	for input, expected := range map[string]MaterialMode{
		"none":              MaterialNone,
		"vertex-color":      MaterialVertexColor,
		"vertex-color-prop": MaterialVertexColorProp,
		"mat_per_color":     MaterialPerColor,
		"atlas":             MaterialAtlas,
		"MAT_AS_TEX":        MaterialPaletteTexture,
		"mat_as_tex_prop":   MaterialPaletteTextureProp,
		"pbr":               "",
	} {
		require.Equal(t, expected, ParseMaterialMode(input), input)
	}

	require.False(t, MaterialVertexColor.HasLibrary())
	require.True(t, MaterialAtlas.HasLibrary())
	require.True(t, MaterialVertexColorProp.HasLibrary())
}

func TestCopy(t *testing.T) {
	opts := &MesherOptions{
		Input:       "in.vox",
		VoxelSize:   decimal.RequireFromString("0.5"),
		MeshingType: Greedy,
		MeshOptions: &MeshOptions{Output: "out"},
	}
	copied := opts.Copy()
	copied.MeshOptions.Output = "elsewhere"
	copied.Input = "other.vox"

	require.Equal(t, "out", opts.MeshOptions.Output)
	require.Equal(t, "in.vox", opts.Input)
	require.Nil(t, copied.InfoOptions)
	require.True(t, copied.VoxelSize.Equal(opts.VoxelSize))
}
