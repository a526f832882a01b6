package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ecopia-map/voxmesher/internal/io"
	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/internal/obj"
	"github.com/ecopia-map/voxmesher/internal/scene"
	"github.com/ecopia-map/voxmesher/internal/vox"
	"github.com/ecopia-map/voxmesher/pkg/algorithm_manager"
	"github.com/ecopia-map/voxmesher/tools"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

const reportFileName = "report.json"

type IMesher interface {
	RunMesher(opts *mesher.MesherOptions) (*Report, error)
}

type Mesher struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewMesher(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) IMesher {
	return &Mesher{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Summary of a run, written to report.json when requested
type Report struct {
	RunID       string        `json:"run_id"`
	Started     time.Time     `json:"started"`
	Elapsed     string        `json:"elapsed"`
	MeshingType string        `json:"meshing"`
	Material    string        `json:"material"`
	VoxelSize   string        `json:"voxel_size"`
	Files       []*FileReport `json:"files"`
}

type FileReport struct {
	Input          string   `json:"input"`
	Outputs        []string `json:"outputs"`
	Models         int      `json:"models"`
	Instances      int      `json:"instances"`
	Voxels         int      `json:"voxels"`
	HullRemoved    int      `json:"hull_removed"`
	Quads          int      `json:"quads"`
	Vertices       int      `json:"vertices"`
	Faces          int      `json:"faces"`
	AtlasFallbacks []int    `json:"atlas_fallbacks,omitempty"`
}

// Starts the meshing process
func (m *Mesher) RunMesher(opts *mesher.MesherOptions) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		Started:     time.Now(),
		MeshingType: opts.MeshingType.String(),
		Material:    opts.MaterialMode.String(),
		VoxelSize:   opts.VoxelSize.String(),
		Files:       make([]*FileReport, 0),
	}
	glog.Infoln("Preparing list of files to process, run", report.RunID)

	// Prepare list of files to process
	voxFiles, err := m.fileFinder.GetVoxFilesToProcess(opts)
	if err != nil {
		return nil, err
	}
	for i, filePath := range voxFiles {
		glog.Infof("vox_file path %d [%s]", i+1, filePath)
	}

	for i, filePath := range voxFiles {
		tools.LogOutput("Processing file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(voxFiles)))
		fileReport, err := m.processVoxFile(filePath, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
		report.Files = append(report.Files, fileReport)
	}
	report.Elapsed = time.Since(report.Started).String()

	if opts.MeshOptions.Report {
		reportPath := filepath.Join(opts.MeshOptions.Output, reportFileName)
		if err := os.WriteFile(reportPath, []byte(tools.FmtIndentedJSONString(report)), 0666); err != nil {
			return nil, err
		}
		tools.LogOutput("> report written to", reportPath)
	}

	return report, nil
}

func (m *Mesher) processVoxFile(filePath string, opts *mesher.MesherOptions) (*FileReport, error) {
	hook := m.algorithmManager.GetMetricsHook()
	fileReport := &FileReport{Input: filePath}

	tools.LogOutput("> reading data from vox file...", filepath.Base(filePath))
	done := metrics.Timed(hook, metrics.StageDecode)
	file, err := vox.ReadFile(filePath)
	done()
	if err != nil {
		return nil, err
	}

	instances, err := visibleInstances(file, opts.IncludeHidden)
	if err != nil {
		return nil, err
	}
	models := make(map[int]bool)
	for _, instance := range instances {
		models[instance.ModelID] = true
	}
	fileReport.Models = len(models)
	fileReport.Instances = len(instances)

	tools.LogOutput("> meshing", len(models), "models...")
	results, err := m.meshModels(file, opts, models)
	if err != nil {
		return nil, err
	}
	for id, result := range results {
		fileReport.Voxels += result.Voxels
		fileReport.HullRemoved += result.HullRemoved
		fileReport.Quads += len(result.Mesh.Quads)
		if result.AtlasFallback {
			fileReport.AtlasFallbacks = append(fileReport.AtlasFallbacks, id)
		}
	}

	tools.LogOutput("> exporting data...")
	name := tools.SanitizeName(tools.GetFilenameWithoutExtension(filePath))
	exporter := obj.NewExporter(file, obj.ExportOptions{Name: name, Mode: opts.MaterialMode, Merge: opts.MergeModels})
	for _, instance := range instances {
		mesh := results[instance.ModelID].Mesh
		converter := m.algorithmManager.GetCoordinateConverterAlgorithm(mesh.Size, instance)
		exporter.AddInstance(instance, mesh, converter)
	}

	done = metrics.Timed(hook, metrics.StageWrite)
	fileReport.Outputs, err = exporter.Scene().WriteFiles(opts.MeshOptions.Output)
	done()
	if err != nil {
		return nil, err
	}
	fileReport.Vertices, fileReport.Faces = exporter.Scene().Counts()

	tools.LogOutput("> done processing", filepath.Base(filePath))
	return fileReport, nil
}

func visibleInstances(file *vox.File, includeHidden bool) ([]scene.Instance, error) {
	all, err := scene.Instances(file)
	if err != nil {
		return nil, err
	}
	if includeHidden {
		return all, nil
	}
	visible := make([]scene.Instance, 0, len(all))
	for _, instance := range all {
		if !instance.Hidden {
			visible = append(visible, instance)
		}
	}
	return visible, nil
}

// Meshes the given models of the file with a consumer goroutine per CPU
func (m *Mesher) meshModels(file *vox.File, opts *mesher.MesherOptions, models map[int]bool) (map[int]*io.Result, error) {
	// a consumer goroutine per CPU
	numConsumers := runtime.NumCPU()

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)

	// every model yields at most one result
	resultChannel := make(chan *io.Result, len(models))

	// init channel where consumers can eventually submit errors that prevented them to finish the job
	errorChannel := make(chan error, numConsumers)

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)
	producer := io.NewStandardProducer(opts, models)
	go producer.Produce(workChannel, &waitGroup, file)

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer(m.algorithmManager.GetMetricsHook())
		go consumer.Consume(workChannel, resultChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()

	close(errorChannel)
	close(resultChannel)

	// find if there are errors in the error channel buffer
	var errs []error
	for err := range errorChannel {
		glog.Errorln(err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	results := make(map[int]*io.Result, len(models))
	for result := range resultChannel {
		results[result.Mesh.ModelID] = result
	}
	for id := range models {
		if _, ok := results[id]; !ok {
			return nil, fmt.Errorf("model %d was not meshed", id)
		}
	}
	return results, nil
}
