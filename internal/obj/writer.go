package obj

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/voxmesher/internal/data"
	"github.com/shopspring/decimal"
)

var maxComponent = decimal.NewFromInt(255)

func component(c uint8) string {
	return decimal.NewFromInt(int64(c)).Div(maxComponent).StringFixed(4)
}

func rgb(c data.Color) string {
	return component(c.R) + " " + component(c.G) + " " + component(c.B)
}

func (s *Scene) LibraryName() string {
	return s.Name + ".mtl"
}

// WriteOBJ writes the geometry. Faces of an object are grouped by material in order of first use.
func (s *Scene) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", s.Name)
	if len(s.materials) > 0 {
		fmt.Fprintf(bw, "mtllib %s\n", s.LibraryName())
	}

	for _, v := range s.vertices {
		fmt.Fprintf(bw, "v %s %s %s", v.position[0], v.position[1], v.position[2])
		if v.color != nil {
			fmt.Fprintf(bw, " %s", rgb(*v.color))
		}
		bw.WriteByte('\n')
	}
	for _, uv := range s.uvs {
		fmt.Fprintf(bw, "vt %s %s\n", uv[0], uv[1])
	}
	for _, n := range s.normals {
		fmt.Fprintf(bw, "vn %d %d %d\n", n[0], n[1], n[2])
	}

	for _, o := range s.objects {
		fmt.Fprintf(bw, "o %s\n", o.Name)
		for _, material := range materialOrder(o.faces) {
			if material >= 0 {
				fmt.Fprintf(bw, "usemtl %s\n", s.materials[material].Name)
			}
			for _, f := range o.faces {
				if f.material == material {
					writeFace(bw, f)
				}
			}
		}
	}

	return bw.Flush()
}

func materialOrder(faces []face) []int {
	seen := make(map[int]bool)
	order := make([]int, 0)
	for _, f := range faces {
		if !seen[f.material] {
			seen[f.material] = true
			order = append(order, f.material)
		}
	}
	return order
}

func writeFace(w *bufio.Writer, f face) {
	w.WriteByte('f')
	for k := 0; k < 4; k++ {
		if f.uvs[k] != 0 {
			fmt.Fprintf(w, " %d/%d/%d", f.vertices[k], f.uvs[k], f.normal)
		} else {
			fmt.Fprintf(w, " %d//%d", f.vertices[k], f.normal)
		}
	}
	w.WriteByte('\n')
}

// WriteMTL writes the material library
func (s *Scene) WriteMTL(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for i, m := range s.materials {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Kd %s\n", rgb(m.Diffuse))
		alpha := decimal.NewFromInt(int64(m.Diffuse.A)).Div(maxComponent)

		if p := m.Props; p != nil {
			fmt.Fprintf(bw, "Pr %s\n", p.Roughness)
			fmt.Fprintf(bw, "Pm %s\n", p.Metallic)
			fmt.Fprintf(bw, "Ni %s\n", p.IOR)
			if p.IsEmissive() {
				fmt.Fprintf(bw, "Ke %s\n", scaled(m.Diffuse, p.Emission))
			}
			if p.Transparency.IsPositive() {
				alpha = alpha.Mul(decimal.NewFromInt(1).Sub(p.Transparency))
			}
		}
		if alpha.LessThan(decimal.NewFromInt(1)) {
			fmt.Fprintf(bw, "d %s\n", alpha.StringFixed(4))
		}
		if m.Texture != "" {
			fmt.Fprintf(bw, "map_Kd %s\n", m.Texture)
		}
		if m.RoughnessTexture != "" {
			fmt.Fprintf(bw, "map_Pr %s\n", m.RoughnessTexture)
		}
		if m.MetallicTexture != "" {
			fmt.Fprintf(bw, "map_Pm %s\n", m.MetallicTexture)
		}
	}

	return bw.Flush()
}

func scaled(c data.Color, factor decimal.Decimal) string {
	parts := make([]string, 3)
	for i, v := range []uint8{c.R, c.G, c.B} {
		parts[i] = decimal.NewFromInt(int64(v)).Div(maxComponent).Mul(factor).StringFixed(4)
	}
	return strings.Join(parts, " ")
}

// WriteFiles writes the .obj file, the .mtl library when materials exist and every texture into dir,
// and returns the paths written
func (s *Scene) WriteFiles(dir string) ([]string, error) {
	written := make([]string, 0, 2+len(s.textures))

	objPath := filepath.Join(dir, s.Name+".obj")
	if err := writeFile(objPath, s.WriteOBJ); err != nil {
		return written, err
	}
	written = append(written, objPath)

	if len(s.materials) > 0 {
		mtlPath := filepath.Join(dir, s.LibraryName())
		if err := writeFile(mtlPath, s.WriteMTL); err != nil {
			return written, err
		}
		written = append(written, mtlPath)
	}

	for _, t := range s.textures {
		texturePath := filepath.Join(dir, t.Name)
		err := writeFile(texturePath, func(w io.Writer) error {
			return png.Encode(w, t.Image)
		})
		if err != nil {
			return written, err
		}
		written = append(written, texturePath)
	}

	return written, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
