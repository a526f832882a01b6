package mesher

import (
	"strings"

	"github.com/shopspring/decimal"
)

type MeshingType string
type MaterialMode string

const (
	// One quad per exposed face of every voxel, interior faces included. Combine with
	// hull reduction to drop the voxels nobody can see.
	SimpleCubes MeshingType = "SIMPLE_CUBES"

	// One quad per voxel face that borders outside space.
	SimpleQuads MeshingType = "SIMPLE_QUADS"

	// Coplanar exposed faces of equal color merged into maximal rectangles.
	Greedy MeshingType = "GREEDY"
)

const (
	MaterialNone               MaterialMode = "NONE"
	MaterialVertexColor        MaterialMode = "VERTEX_COLOR"
	MaterialVertexColorProp    MaterialMode = "VERTEX_COLOR_PROP"
	MaterialPerColor           MaterialMode = "MAT_PER_COLOR"
	MaterialPerColorProp       MaterialMode = "MAT_PER_COLOR_PROP"
	MaterialPaletteTexture     MaterialMode = "MAT_AS_TEX"
	MaterialPaletteTextureProp MaterialMode = "MAT_AS_TEX_PROP"
	MaterialAtlas              MaterialMode = "ATLAS"
)

const DefaultMaxAtlasSize = 4096

var meshingTypes = []MeshingType{SimpleCubes, SimpleQuads, Greedy}

var materialModes = []MaterialMode{
	MaterialNone,
	MaterialVertexColor,
	MaterialVertexColorProp,
	MaterialPerColor,
	MaterialPerColorProp,
	MaterialPaletteTexture,
	MaterialPaletteTextureProp,
	MaterialAtlas,
}

func (e MeshingType) String() string {
	return string(e)
}

func (e MaterialMode) String() string {
	return string(e)
}

// Returns the empty MeshingType when value does not name a known type
func ParseMeshingType(value string) MeshingType {
	normalizedValue := normalize(value)
	for _, t := range meshingTypes {
		if string(t) == normalizedValue {
			return t
		}
	}
	return ""
}

// Returns the empty MaterialMode when value does not name a known mode
func ParseMaterialMode(value string) MaterialMode {
	normalizedValue := normalize(value)
	for _, m := range materialModes {
		if string(m) == normalizedValue {
			return m
		}
	}
	return ""
}

// Whether the mode writes an .mtl library next to the .obj file
func (e MaterialMode) HasLibrary() bool {
	return e != MaterialNone && e != MaterialVertexColor && e != ""
}

func normalize(value string) string {
	return strings.ReplaceAll(strings.Trim(strings.ToUpper(value), " "), "-", "_")
}

// Contains the options needed by the meshing commands
type MesherOptions struct {
	Input            string          // Input VOX file/folder
	FolderProcessing bool            // Enables the processing of all VOX files in folder
	Recursive        bool            // Recursive lookup of VOX files in subfolders
	VoxelSize        decimal.Decimal // Edge length of one voxel in output units
	ZOffset          decimal.Decimal // Vertical offset added to every output vertex
	MeshingType      MeshingType     // Surface extraction method
	MaterialMode     MaterialMode    // How colors reach the output files
	ReduceToHull     bool            // Drops voxels not touching outside space before meshing
	MergeModels      bool            // Writes all instances as a single OBJ object
	IncludeHidden    bool            // Also exports instances on hidden nodes or layers
	MaxAtlasSize     int             // Largest atlas edge in texels before falling back to the palette texture

	Command     string
	MeshOptions *MeshOptions
	InfoOptions *InfoOptions
}

type MeshOptions struct {
	Output      string // Output folder for .obj/.mtl/.png files
	Report      bool   // Writes report.json into the output folder
	MetricsFile string // Prometheus textfile with per stage timings, empty to disable
}

type InfoOptions struct {
	JSON bool // Prints the summary as JSON instead of text
}

func (opt *MesherOptions) Copy() *MesherOptions {
	newOpt := *opt
	newOpt.MeshOptions = nil
	newOpt.InfoOptions = nil

	if opt.MeshOptions != nil {
		meshOpt := *opt.MeshOptions
		newOpt.MeshOptions = &meshOpt
	}

	if opt.InfoOptions != nil {
		infoOpt := *opt.InfoOptions
		newOpt.InfoOptions = &infoOpt
	}

	return &newOpt
}
