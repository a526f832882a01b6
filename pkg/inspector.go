package pkg

import (
	"fmt"
	stdio "io"
	"sort"

	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/scene"
	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/ecopia-map/voxmesher/internal/voxel"
	"github.com/ecopia-map/voxmesher/tools"
	"github.com/golang/glog"
)

type IInspector interface {
	RunInspector(opts *mesher.MesherOptions) error
}

// Prints what a VOX file holds without meshing it
type Inspector struct {
	fileFinder tools.FileFinder
	out        stdio.Writer
}

func NewInspector(fileFinder tools.FileFinder, out stdio.Writer) IInspector {
	return &Inspector{
		fileFinder: fileFinder,
		out:        out,
	}
}

type FileSummary struct {
	Input         string            `json:"input"`
	Version       int               `json:"version"`
	CustomPalette bool              `json:"custom_palette"`
	Models        []ModelSummary    `json:"models"`
	Materials     []MaterialSummary `json:"materials"`
	Layers        []LayerSummary    `json:"layers"`
	Cameras       []vox.Dict        `json:"cameras"`
	Instances     []InstanceSummary `json:"instances"`
	ColorNames    []string          `json:"color_names,omitempty"`
}

type ModelSummary struct {
	ID     int    `json:"id"`
	Size   [3]int `json:"size"`
	Voxels int    `json:"voxels"`
	// distinct colors, as #rrggbbaa
	Colors []string `json:"colors"`
}

type MaterialSummary struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Roughness    string `json:"roughness"`
	Metallic     string `json:"metallic"`
	IOR          string `json:"ior"`
	Emission     string `json:"emission"`
	Transparency string `json:"transparency"`
}

type LayerSummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

type InstanceSummary struct {
	ModelID     int    `json:"model"`
	NodeID      int    `json:"node"`
	Name        string `json:"name,omitempty"`
	LayerID     int    `json:"layer"`
	Hidden      bool   `json:"hidden"`
	Translation [3]int `json:"translation"`
}

func (i *Inspector) RunInspector(opts *mesher.MesherOptions) error {
	voxFiles, err := i.fileFinder.GetVoxFilesToProcess(opts)
	if err != nil {
		return err
	}

	for _, filePath := range voxFiles {
		glog.V(1).Infoln("inspecting", filePath)
		summary, err := Summarize(filePath)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
		if opts.InfoOptions != nil && opts.InfoOptions.JSON {
			fmt.Fprintln(i.out, tools.FmtIndentedJSONString(summary))
		} else {
			summary.print(i.out)
		}
	}
	return nil
}

// Decodes a VOX file and summarizes its content
func Summarize(filePath string) (*FileSummary, error) {
	file, err := vox.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	instances, err := scene.Instances(file)
	if err != nil {
		return nil, err
	}

	summary := &FileSummary{
		Input:         filePath,
		Version:       file.Version,
		CustomPalette: file.CustomPalette,
		Models:        make([]ModelSummary, 0, len(file.Shapes)),
		Materials:     make([]MaterialSummary, 0, len(file.Materials)),
		Layers:        make([]LayerSummary, 0, len(file.Layers)),
		Cameras:       make([]vox.Dict, 0, len(file.Cameras)),
		Instances:     make([]InstanceSummary, 0, len(instances)),
		ColorNames:    file.ColorNames,
	}

	for id, shape := range file.Shapes {
		model := voxel.NewModel(shape.Size, shape.Voxels)
		colors := make([]string, len(model.Colors))
		for k, c := range model.Colors {
			colors[k] = file.Palette[c].Hex()
		}
		summary.Models = append(summary.Models, ModelSummary{ID: id, Size: shape.Size, Voxels: model.Voxels.Len(), Colors: colors})
	}

	for _, id := range file.MaterialIDs() {
		m := file.Materials[id]
		summary.Materials = append(summary.Materials, MaterialSummary{
			ID:           m.ID,
			Type:         m.Type,
			Roughness:    m.Roughness.String(),
			Metallic:     m.Metallic.String(),
			IOR:          m.IOR.String(),
			Emission:     m.Emission.String(),
			Transparency: m.Transparency.String(),
		})
	}

	for _, id := range sortedKeys(file.Layers) {
		layer := file.Layers[id]
		summary.Layers = append(summary.Layers, LayerSummary{ID: id, Name: layer["_name"], Hidden: layer["_hidden"] == "1"})
	}
	for _, id := range sortedKeys(file.Cameras) {
		summary.Cameras = append(summary.Cameras, file.Cameras[id])
	}

	for _, instance := range instances {
		origin := instance.Transform.Col(3)
		summary.Instances = append(summary.Instances, InstanceSummary{
			ModelID:     instance.ModelID,
			NodeID:      instance.NodeID,
			Name:        instance.Name,
			LayerID:     instance.LayerID,
			Hidden:      instance.Hidden,
			Translation: [3]int{int(origin[0]), int(origin[1]), int(origin[2])},
		})
	}
	return summary, nil
}

func sortedKeys(m map[int]vox.Dict) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (s *FileSummary) print(w stdio.Writer) {
	fmt.Fprintf(w, "%s (version %d)\n", s.Input, s.Version)
	fmt.Fprintf(w, "  palette: %s\n", map[bool]string{true: "custom", false: "default"}[s.CustomPalette])
	for _, m := range s.Models {
		fmt.Fprintf(w, "  model %d: %dx%dx%d, %d voxels, %d colors\n", m.ID, m.Size[0], m.Size[1], m.Size[2], m.Voxels, len(m.Colors))
	}
	for _, m := range s.Materials {
		fmt.Fprintf(w, "  material %d: %s rough=%s metal=%s ior=%s emit=%s trans=%s\n",
			m.ID, m.Type, m.Roughness, m.Metallic, m.IOR, m.Emission, m.Transparency)
	}
	for _, l := range s.Layers {
		fmt.Fprintf(w, "  layer %d: %q hidden=%t\n", l.ID, l.Name, l.Hidden)
	}
	fmt.Fprintf(w, "  cameras: %d\n", len(s.Cameras))
	for _, inst := range s.Instances {
		fmt.Fprintf(w, "  instance of model %d at %v, node %d layer %d hidden=%t %s\n",
			inst.ModelID, inst.Translation, inst.NodeID, inst.LayerID, inst.Hidden, inst.Name)
	}
}
