package obj

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ecopia-map/voxmesher/internal/atlas"
	"github.com/ecopia-map/voxmesher/internal/converters"
	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/meshing"
	"github.com/ecopia-map/voxmesher/internal/scene"
	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/shopspring/decimal"
)

const (
	paletteMaterial    = "palette"
	propertiesMaterial = "properties"
)

var (
	paletteV       = decimal.RequireFromString("0.5")
	paletteTexels  = decimal.NewFromInt(512)
	mirroredCorner = [4]int{0, 3, 2, 1}
	white          = data.Color{R: 255, G: 255, B: 255, A: 255}
)

// ModelMesh is the surface of one model, shared by all its instances
type ModelMesh struct {
	ModelID int
	Size    [3]int
	Quads   []meshing.Quad
	// set in atlas mode when packing succeeded
	Atlas      *atlas.Atlas
	AtlasImage image.Image
}

type ExportOptions struct {
	// base name of the output files
	Name  string
	Mode  mesher.MaterialMode
	Merge bool
}

// Exporter turns model instances into a Scene according to the material mode
type Exporter struct {
	opts    ExportOptions
	palette vox.Palette
	file    *vox.File
	scene   *Scene
	atlases map[int]bool
	names   map[string]int
}

func NewExporter(file *vox.File, opts ExportOptions) *Exporter {
	return &Exporter{
		opts:    opts,
		palette: file.Palette,
		file:    file,
		scene:   NewScene(opts.Name),
		atlases: make(map[int]bool),
		names:   make(map[string]int),
	}
}

func (e *Exporter) Scene() *Scene {
	return e.scene
}

// PaletteImage returns the 256 x 1 texture holding one texel per color index
func PaletteImage(p vox.Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(p), 1))
	for i, c := range p {
		img.SetNRGBA(i, 0, c.NRGBA())
	}
	return img
}

// PropertyImages returns the 256 x 1 grayscale textures holding the roughness and the metallic
// factor of every color index
func PropertyImages(file *vox.File) (roughness, metallic *image.Gray) {
	roughness = image.NewGray(image.Rect(0, 0, len(file.Palette), 1))
	metallic = image.NewGray(image.Rect(0, 0, len(file.Palette), 1))
	for i := range file.Palette {
		m := file.Material(uint8(i))
		roughness.SetGray(i, 0, color.Gray{Y: unitByte(m.Roughness)})
		metallic.SetGray(i, 0, color.Gray{Y: unitByte(m.Metallic)})
	}
	return roughness, metallic
}

// Maps a factor in [0, 1] to a texel value, clamping outside values
func unitByte(v decimal.Decimal) uint8 {
	n := v.Mul(maxComponent).Round(0).IntPart()
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// PaletteColors adapts a palette to the color lookup of atlas rendering
func PaletteColors(p vox.Palette) func(index uint8) color.NRGBA {
	return func(index uint8) color.NRGBA {
		return p[index].NRGBA()
	}
}

func (e *Exporter) objectName(instance scene.Instance) string {
	if e.opts.Merge {
		return e.opts.Name
	}
	base := instance.Name
	if base == "" {
		base = fmt.Sprintf("model_%d", instance.ModelID)
	}
	n := e.names[base]
	e.names[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

// AddInstance places every quad of mesh in the scene through converter
func (e *Exporter) AddInstance(instance scene.Instance, mesh *ModelMesh, converter converters.CoordinateConverter) {
	object := e.scene.Object(e.objectName(instance))
	for i, q := range mesh.Quads {
		f := Face{Normal: converter.ConvertNormal(q.Normal)}
		for k := 0; k < 4; k++ {
			f.Corners[k] = converter.ConvertVertex(q.Corners[k])
		}
		e.decorate(&f, mesh, i)
		if converter.Mirrors() {
			f = mirrored(f)
		}
		e.scene.AddFace(object, f)
	}
}

func mirrored(f Face) Face {
	out := f
	var uvs [4][2]decimal.Decimal
	for k, from := range mirroredCorner {
		out.Corners[k] = f.Corners[from]
		if f.UVs != nil {
			uvs[k] = f.UVs[from]
		}
	}
	if f.UVs != nil {
		out.UVs = &uvs
	}
	return out
}

// Sets the color, material and texture coordinates of the face of quad i
func (e *Exporter) decorate(f *Face, mesh *ModelMesh, i int) {
	q := mesh.Quads[i]
	switch e.opts.Mode {
	case mesher.MaterialVertexColor:
		c := e.palette[q.Color]
		f.Color = &c
	case mesher.MaterialVertexColorProp:
		c := e.palette[q.Color]
		f.Color = &c
		e.propertiesFace(f, q.Color)
	case mesher.MaterialPerColor:
		f.Material = fmt.Sprintf("color_%d", q.Color)
		e.scene.AddMaterial(Material{Name: f.Material, Diffuse: e.palette[q.Color]})
	case mesher.MaterialPerColorProp:
		props := e.file.Material(q.Color)
		f.Material = fmt.Sprintf("material_%d", q.Color)
		e.scene.AddMaterial(Material{Name: f.Material, Diffuse: e.palette[q.Color], Props: &props})
	case mesher.MaterialPaletteTexture, mesher.MaterialPaletteTextureProp:
		e.paletteFace(f, q.Color)
	case mesher.MaterialAtlas:
		if mesh.Atlas == nil {
			e.paletteFace(f, q.Color)
			return
		}
		e.atlasFace(f, mesh, i)
	}
}

// Maps the whole face onto the center of the texel of its color
func (e *Exporter) paletteFace(f *Face, index uint8) {
	if !e.scene.HasMaterial(paletteMaterial) {
		texture := e.opts.Name + "_palette.png"
		e.scene.AddTexture(Texture{Name: texture, Image: PaletteImage(e.palette)})
		m := Material{
			Name:    paletteMaterial,
			Diffuse: white,
			Texture: texture,
		}
		if e.opts.Mode == mesher.MaterialPaletteTextureProp {
			m.RoughnessTexture, m.MetallicTexture = e.propertyTextures()
		}
		e.scene.AddMaterial(m)
	}
	f.Material = paletteMaterial
	f.UVs = texelUVs(index)
}

// Keeps the vertex color as base color and looks the properties up in the property textures
func (e *Exporter) propertiesFace(f *Face, index uint8) {
	if !e.scene.HasMaterial(propertiesMaterial) {
		m := Material{Name: propertiesMaterial, Diffuse: white}
		m.RoughnessTexture, m.MetallicTexture = e.propertyTextures()
		e.scene.AddMaterial(m)
	}
	f.Material = propertiesMaterial
	f.UVs = texelUVs(index)
}

func (e *Exporter) propertyTextures() (roughness, metallic string) {
	roughness = e.opts.Name + "_roughness.png"
	metallic = e.opts.Name + "_metallic.png"
	roughnessImage, metallicImage := PropertyImages(e.file)
	e.scene.AddTexture(Texture{Name: roughness, Image: roughnessImage})
	e.scene.AddTexture(Texture{Name: metallic, Image: metallicImage})
	return roughness, metallic
}

func texelUVs(index uint8) *[4][2]decimal.Decimal {
	// (2 * index + 1) / 512 is the center of texel index
	u := decimal.NewFromInt(2*int64(index) + 1).Div(paletteTexels)
	return &[4][2]decimal.Decimal{{u, paletteV}, {u, paletteV}, {u, paletteV}, {u, paletteV}}
}

func (e *Exporter) atlasFace(f *Face, mesh *ModelMesh, i int) {
	name := fmt.Sprintf("atlas_%d", mesh.ModelID)
	if !e.atlases[mesh.ModelID] {
		e.atlases[mesh.ModelID] = true
		texture := fmt.Sprintf("%s_atlas_%d.png", e.opts.Name, mesh.ModelID)
		e.scene.AddTexture(Texture{Name: texture, Image: mesh.AtlasImage})
		e.scene.AddMaterial(Material{
			Name:    name,
			Diffuse: white,
			Texture: texture,
		})
	}
	f.Material = name
	f.UVs = &[4][2]decimal.Decimal{}
	for k := 0; k < 4; k++ {
		u, v := mesh.Atlas.CornerUV(mesh.Quads, i, k)
		f.UVs[k] = [2]decimal.Decimal{u, v}
	}
}
