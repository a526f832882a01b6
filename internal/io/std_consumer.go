package io

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ecopia-map/voxmesher/internal/atlas"
	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/meshing"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/internal/obj"
	"github.com/ecopia-map/voxmesher/internal/octree"
	"github.com/ecopia-map/voxmesher/internal/voxel"
	"github.com/golang/glog"
)

// Outcome of meshing one model
type Result struct {
	Mesh        *obj.ModelMesh
	Voxels      int
	HullRemoved int
	// true when atlas packing failed and the model falls back to the palette texture
	AtlasFallback bool
}

type StandardConsumer struct {
	hook metrics.Hook
}

func NewStandardConsumer(hook metrics.Hook) *StandardConsumer {
	if hook == nil {
		hook = metrics.NopHook{}
	}
	return &StandardConsumer{
		hook: hook,
	}
}

// Continually consumes WorkUnits submitted to a work channel and submits the meshed models to the results
// channel. Continues working until the work channel is closed or an error is raised. In this last case
// submits the error to the error channel before quitting.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, results chan *Result, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for work := range workchan {
		result, err := c.doWork(work)
		if err != nil {
			errchan <- fmt.Errorf("model %d: %w", work.ModelID, err)
			glog.Errorf("exception in consumer meshing model %d", work.ModelID)
			// keep draining so that the producer never blocks
			for range workchan {
			}
			return
		}
		results <- result
	}
}

// Takes a WorkUnit and extracts the surface of its model
func (c *StandardConsumer) doWork(work *WorkUnit) (*Result, error) {
	opts := work.Opts
	model := voxel.NewModel(work.Shape.Size, work.Shape.Voxels)
	result := &Result{
		Mesh:   &obj.ModelMesh{ModelID: work.ModelID, Size: work.Shape.Size, Quads: make([]meshing.Quad, 0)},
		Voxels: model.Voxels.Len(),
	}
	c.hook.Count(metrics.CounterVoxels, result.Voxels)
	if model.IsEmpty() {
		return result, nil
	}

	extent := model.Extent()
	if bounds, ok := model.Voxels.Bounds(); ok {
		extent = extent.Union(bounds)
	}

	var mask *voxel.OutsideMask
	if opts.MeshingType != mesher.SimpleCubes || opts.ReduceToHull {
		done := metrics.Timed(c.hook, metrics.StageClassify)
		mask = voxel.ClassifyRegion[uint8](model.Voxels, extent.Expand(1))
		done()
	}

	if opts.ReduceToHull {
		done := metrics.Timed(c.hook, metrics.StageHull)
		result.HullRemoved = voxel.ReduceToHull[uint8](model.Voxels, mask)
		done()
		c.hook.Count(metrics.CounterHullRemoved, result.HullRemoved)
	}

	result.Mesh.Quads = c.mesh(model.Voxels, mask, extent, opts)
	c.hook.Count(metrics.CounterQuads, len(result.Mesh.Quads))

	if opts.MaterialMode == mesher.MaterialAtlas {
		if err := c.pack(result, model.Voxels, work); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *StandardConsumer) mesh(volume octree.IVolume[uint8], mask *voxel.OutsideMask, extent octree.Bounds, opts *mesher.MesherOptions) []meshing.Quad {
	defer metrics.Timed(c.hook, metrics.StageMesh)()

	meshOpts := meshing.Options{IgnoreColor: opts.MaterialMode == mesher.MaterialAtlas}
	switch opts.MeshingType {
	case mesher.SimpleCubes:
		meshOpts.AllFaces = true
		return meshing.Simple(volume, mask, extent, meshOpts)
	case mesher.SimpleQuads:
		return meshing.Simple(volume, mask, extent, meshOpts)
	default:
		return meshing.Greedy(volume, mask, extent, meshOpts)
	}
}

// Packs the quads of the model and renders its atlas. A full atlas is not an error, the model is
// exported with the palette texture instead.
func (c *StandardConsumer) pack(result *Result, volume octree.IVolume[uint8], work *WorkUnit) error {
	defer metrics.Timed(c.hook, metrics.StagePack)()

	packed, err := atlas.PackQuads(result.Mesh.Quads, work.Opts.MaxAtlasSize)
	if errors.Is(err, atlas.ErrAtlasFull) {
		glog.Warningf("model %d: %v, falling back to the palette texture", work.ModelID, err)
		result.AtlasFallback = true
		c.hook.Count(metrics.CounterAtlasFallbacks, 1)
		return nil
	}
	if err != nil {
		return err
	}
	result.Mesh.Atlas = &packed
	result.Mesh.AtlasImage = packed.Render(result.Mesh.Quads, volume, obj.PaletteColors(*work.Palette))
	return nil
}
