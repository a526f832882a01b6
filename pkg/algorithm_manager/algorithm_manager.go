package algorithm_manager

import (
	"github.com/ecopia-map/voxmesher/internal/converters"
	"github.com/ecopia-map/voxmesher/internal/converters/elevation/offset_elevation_corrector"
	"github.com/ecopia-map/voxmesher/internal/converters/instance_converter"
	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/internal/scene"
)

type AlgorithmManager interface {
	GetCoordinateConverterAlgorithm(size [3]int, instance scene.Instance) converters.CoordinateConverter
	GetMetricsHook() metrics.Hook
}

type StandardAlgorithmManager struct {
	options             *mesher.MesherOptions
	elevationCorrection converters.ElevationCorrector
	hook                metrics.Hook
}

// Picks the algorithms matching the options. A nil hook only logs stage timings at verbosity 1.
func NewAlgorithmManager(opts *mesher.MesherOptions, hook metrics.Hook) AlgorithmManager {
	var elevationCorrection converters.ElevationCorrector
	if !opts.ZOffset.IsZero() {
		elevationCorrection = offset_elevation_corrector.NewOffsetElevationCorrector(opts.ZOffset)
	}

	if hook == nil {
		hook = metrics.LogHook{}
	} else {
		hook = metrics.Hooks(metrics.LogHook{}, hook)
	}

	return &StandardAlgorithmManager{
		options:             opts,
		elevationCorrection: elevationCorrection,
		hook:                hook,
	}
}

// The converter shifts every vertex by the configured vertical offset, if any
func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm(size [3]int, instance scene.Instance) converters.CoordinateConverter {
	return instance_converter.NewInstanceConverter(size, instance, m.options.VoxelSize, m.elevationCorrection)
}

func (m *StandardAlgorithmManager) GetMetricsHook() metrics.Hook {
	return m.hook
}
