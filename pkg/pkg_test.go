package pkg

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/internal/vox/voxtest"
	"github.com/ecopia-map/voxmesher/pkg/algorithm_manager"
	"github.com/ecopia-map/voxmesher/tools"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// two voxels of the same color, placed twice with the second placement hidden
func writeScene(t *testing.T, dir string) string {
	t.Helper()
	bar := [][4]uint8{{0, 0, 0, 7}, {1, 0, 0, 7}}
	content := new(voxtest.Builder).
		Model(2, 1, 1, bar).
		Transform(0, 1, -1, nil, nil).
		Group(1, 2, 4).
		Transform(2, 3, 0, map[string]string{"_name": "bar"}, map[string]string{"_t": "0 0 0"}).
		Shape(3, 0).
		Transform(4, 5, 0, map[string]string{"_hidden": "1"}, map[string]string{"_t": "10 0 0"}).
		Shape(5, 0).
		Layer(0, map[string]string{"_name": "base"}).
		Camera(0, map[string]string{"_mode": "pers"}).
		Note("steel").
		Bytes()

	path := filepath.Join(dir, "my bar.vox")
	require.NoError(t, os.WriteFile(path, content, 0666))
	return path
}

func meshOptions(input, output string) *mesher.MesherOptions {
	return &mesher.MesherOptions{
		Input:        input,
		VoxelSize:    decimal.NewFromInt(1),
		MeshingType:  mesher.Greedy,
		MaterialMode: mesher.MaterialPerColor,
		MaxAtlasSize: mesher.DefaultMaxAtlasSize,
		Command:      tools.CommandMesh,
		MeshOptions:  &mesher.MeshOptions{Output: output, Report: true},
	}
}

func TestRunMesher(t *testing.T) {
	input := writeScene(t, t.TempDir())
	output := t.TempDir()
	opts := meshOptions(input, output)

	hook := metrics.NewPrometheusHook()
	m := NewMesher(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(opts, hook))
	report, err := m.RunMesher(opts)
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, "GREEDY", report.MeshingType)
	require.Equal(t, "1", report.VoxelSize)
	require.Len(t, report.Files, 1)

	expected := &FileReport{
		Input:     input,
		Outputs:   []string{filepath.Join(output, "my_bar.obj"), filepath.Join(output, "my_bar.mtl")},
		Models:    1,
		Instances: 1,
		Voxels:    2,
		Quads:     6,
		Vertices:  8,
		Faces:     6,
	}
	if diff := cmp.Diff(expected, report.Files[0]); diff != "" {
		t.Errorf("unexpected file report (-want +got):\n%s", diff)
	}

	objContent, err := os.ReadFile(filepath.Join(output, "my_bar.obj"))
	require.NoError(t, err)
	require.Contains(t, string(objContent), "mtllib my_bar.mtl")
	require.Contains(t, string(objContent), "o bar")
	require.Contains(t, string(objContent), "usemtl color_7")

	raw, err := os.ReadFile(filepath.Join(output, reportFileName))
	require.NoError(t, err)
	var written Report
	require.NoError(t, json.Unmarshal(raw, &written))
	require.Equal(t, report.RunID, written.RunID)
	require.Equal(t, 6, written.Files[0].Faces)

	var text bytes.Buffer
	require.NoError(t, hook.WriteTextfile(filepath.Join(output, "metrics.prom")))
	raw, err = os.ReadFile(filepath.Join(output, "metrics.prom"))
	require.NoError(t, err)
	text.Write(raw)
	require.Contains(t, text.String(), `voxmesher_items_total{kind="voxels"} 2`)
}

func TestRunMesherIncludeHidden(t *testing.T) {
	input := writeScene(t, t.TempDir())
	opts := meshOptions(input, t.TempDir())
	opts.IncludeHidden = true
	opts.MeshOptions.Report = false
	opts.MaterialMode = mesher.MaterialVertexColor

	m := NewMesher(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(opts, nil))
	report, err := m.RunMesher(opts)
	require.NoError(t, err)

	file := report.Files[0]
	require.Equal(t, 1, file.Models)
	require.Equal(t, 2, file.Instances)
	// the model is meshed once and placed twice
	require.Equal(t, 6, file.Quads)
	require.Equal(t, 12, file.Faces)
	require.Equal(t, 16, file.Vertices)
	// no material library with vertex colors
	require.Len(t, file.Outputs, 1)

	_, err = os.Stat(filepath.Join(opts.MeshOptions.Output, reportFileName))
	require.True(t, os.IsNotExist(err))
}

func TestRunMesherInvalidInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.vox")
	require.NoError(t, os.WriteFile(input, []byte("VOX nothing"), 0666))

	opts := meshOptions(input, t.TempDir())
	m := NewMesher(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(opts, nil))
	_, err := m.RunMesher(opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken.vox")
}

func TestInspector(t *testing.T) {
	input := writeScene(t, t.TempDir())
	opts := &mesher.MesherOptions{Input: input, Command: tools.CommandInfo, InfoOptions: &mesher.InfoOptions{}}

	var out bytes.Buffer
	require.NoError(t, NewInspector(tools.NewStandardFileFinder(), &out).RunInspector(opts))
	text := out.String()
	require.Contains(t, text, "(version 150)")
	require.Contains(t, text, "palette: default")
	require.Contains(t, text, "model 0: 2x1x1, 2 voxels, 1 colors")
	require.Contains(t, text, `layer 0: "base" hidden=false`)
	require.Contains(t, text, "cameras: 1")
	require.Equal(t, 2, strings.Count(text, "instance of model 0"))

	out.Reset()
	opts.InfoOptions.JSON = true
	require.NoError(t, NewInspector(tools.NewStandardFileFinder(), &out).RunInspector(opts))
	var summary FileSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	require.Equal(t, []string{"steel"}, summary.ColorNames)
	require.Len(t, summary.Instances, 2)
	require.Equal(t, [3]int{10, 0, 0}, summary.Instances[1].Translation)
	require.True(t, summary.Instances[1].Hidden)
	require.Equal(t, "bar", summary.Instances[0].Name)
}
