package algorithm_manager

import (
	"testing"
	"time"

	"github.com/ecopia-map/voxmesher/internal/mesher"
	"github.com/ecopia-map/voxmesher/internal/metrics"
	"github.com/ecopia-map/voxmesher/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCoordinateConverterOffset(t *testing.T) {
	instance := scene.Instance{Transform: mgl32.Ident4()}

	opts := &mesher.MesherOptions{VoxelSize: decimal.NewFromInt(2)}
	c := NewAlgorithmManager(opts, nil).GetCoordinateConverterAlgorithm([3]int{1, 1, 1}, instance)
	require.Equal(t, "2", c.ConvertVertex([3]int{0, 0, 1})[2].String())

	opts.ZOffset = decimal.RequireFromString("-0.5")
	c = NewAlgorithmManager(opts, nil).GetCoordinateConverterAlgorithm([3]int{1, 1, 1}, instance)
	require.Equal(t, "1.5", c.ConvertVertex([3]int{0, 0, 1})[2].String())
}

func TestMetricsHook(t *testing.T) {
	opts := &mesher.MesherOptions{VoxelSize: decimal.NewFromInt(1)}
	require.Equal(t, metrics.LogHook{}, NewAlgorithmManager(opts, nil).GetMetricsHook())

	prometheus := metrics.NewPrometheusHook()
	hook := NewAlgorithmManager(opts, prometheus).GetMetricsHook()
	hook.Observe(metrics.StageDecode, time.Millisecond)
	hook.Count(metrics.CounterVoxels, 3)

	families, err := prometheus.Gatherer().Gather()
	require.NoError(t, err)
	require.Len(t, families, 2)
}
