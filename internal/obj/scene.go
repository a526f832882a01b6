package obj

import (
	"image"

	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/shopspring/decimal"
)

// Material is one entry of the .mtl library
type Material struct {
	Name    string
	Diffuse data.Color
	// map_Kd file name, relative to the library
	Texture string
	// map_Pr and map_Pm file names, indexed like the palette texture
	RoughnessTexture string
	MetallicTexture  string
	// physically based properties, written when set
	Props *vox.Material
}

// Texture is an image written next to the .obj file
type Texture struct {
	Name  string
	Image image.Image
}

// Face is a quad given in output coordinates, wound counter-clockwise around its normal
type Face struct {
	Corners [4][3]decimal.Decimal
	Normal  [3]int
	// optional texture coordinates, one pair per corner
	UVs *[4][2]decimal.Decimal
	// optional vertex color
	Color *data.Color
	// material name, empty for none
	Material string
}

type face struct {
	material int
	vertices [4]int
	uvs      [4]int
	normal   int
}

// Object is a named group of faces sharing the vertex tables of its scene
type Object struct {
	Name  string
	faces []face
}

func (o *Object) Len() int {
	return len(o.faces)
}

type vertexKey struct {
	position [3]string
	color    data.Color
	colored  bool
}

type vertex struct {
	position [3]decimal.Decimal
	color    *data.Color
}

// Scene accumulates objects whose vertices, texture coordinates and normals are deduplicated across the
// whole file. Indices are 1-based like in OBJ.
type Scene struct {
	Name string

	vertices    []vertex
	vertexIndex map[vertexKey]int

	uvs     [][2]decimal.Decimal
	uvIndex map[[2]string]int

	normals     [][3]int
	normalIndex map[[3]int]int

	materials     []Material
	materialIndex map[string]int

	objects     []*Object
	objectIndex map[string]*Object

	textures []Texture
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:          name,
		vertexIndex:   make(map[vertexKey]int),
		uvIndex:       make(map[[2]string]int),
		normalIndex:   make(map[[3]int]int),
		materialIndex: make(map[string]int),
		objectIndex:   make(map[string]*Object),
	}
}

// Object returns the object of the given name, creating it on first use
func (s *Scene) Object(name string) *Object {
	if o, ok := s.objectIndex[name]; ok {
		return o
	}
	o := &Object{Name: name}
	s.objects = append(s.objects, o)
	s.objectIndex[name] = o
	return o
}

func (s *Scene) Objects() []*Object {
	return s.objects
}

// AddMaterial registers a material unless one of the same name exists
func (s *Scene) AddMaterial(m Material) {
	if _, ok := s.materialIndex[m.Name]; ok {
		return
	}
	s.materialIndex[m.Name] = len(s.materials)
	s.materials = append(s.materials, m)
}

func (s *Scene) HasMaterial(name string) bool {
	_, ok := s.materialIndex[name]
	return ok
}

func (s *Scene) Materials() []Material {
	return s.materials
}

func (s *Scene) AddTexture(t Texture) {
	s.textures = append(s.textures, t)
}

func (s *Scene) Textures() []Texture {
	return s.textures
}

// Counts returns the number of distinct vertices and of faces
func (s *Scene) Counts() (vertices int, faces int) {
	for _, o := range s.objects {
		faces += len(o.faces)
	}
	return len(s.vertices), faces
}

// AddFace appends a quad to an object. The material must have been registered.
func (s *Scene) AddFace(o *Object, f Face) {
	out := face{material: -1, normal: s.normal(f.Normal)}
	if f.Material != "" {
		index, ok := s.materialIndex[f.Material]
		if !ok {
			panic("obj: unknown material " + f.Material)
		}
		out.material = index
	}
	for k := 0; k < 4; k++ {
		out.vertices[k] = s.vertex(f.Corners[k], f.Color)
		if f.UVs != nil {
			out.uvs[k] = s.uv(f.UVs[k])
		}
	}
	o.faces = append(o.faces, out)
}

func (s *Scene) vertex(p [3]decimal.Decimal, c *data.Color) int {
	key := vertexKey{position: [3]string{p[0].String(), p[1].String(), p[2].String()}}
	if c != nil {
		key.color = *c
		key.colored = true
	}
	if index, ok := s.vertexIndex[key]; ok {
		return index
	}
	s.vertices = append(s.vertices, vertex{position: p, color: c})
	s.vertexIndex[key] = len(s.vertices)
	return len(s.vertices)
}

func (s *Scene) uv(uv [2]decimal.Decimal) int {
	key := [2]string{uv[0].String(), uv[1].String()}
	if index, ok := s.uvIndex[key]; ok {
		return index
	}
	s.uvs = append(s.uvs, uv)
	s.uvIndex[key] = len(s.uvs)
	return len(s.uvs)
}

func (s *Scene) normal(n [3]int) int {
	if index, ok := s.normalIndex[n]; ok {
		return index
	}
	s.normals = append(s.normals, n)
	s.normalIndex[n] = len(s.normals)
	return len(s.normals)
}
