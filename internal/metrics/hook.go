package metrics

import (
	"time"

	"github.com/golang/glog"
)

type Stage string
type Counter string

const (
	StageDecode   Stage = "decode"
	StageClassify Stage = "classify"
	StageHull     Stage = "hull"
	StageMesh     Stage = "mesh"
	StagePack     Stage = "pack"
	StageWrite    Stage = "write"
)

const (
	CounterVoxels         Counter = "voxels"
	CounterHullRemoved    Counter = "hull_removed"
	CounterQuads          Counter = "quads"
	CounterAtlasFallbacks Counter = "atlas_fallbacks"
)

// Receives stage timings and item counts from the meshing pipeline.
// Implementations must be safe for concurrent use.
type Hook interface {
	Observe(stage Stage, elapsed time.Duration)
	Count(counter Counter, n int)
}

// Starts timing a stage, the returned func reports the elapsed time to hook.
//
//	defer metrics.Timed(hook, metrics.StageMesh)()
func Timed(hook Hook, stage Stage) func() {
	start := time.Now()
	return func() {
		hook.Observe(stage, time.Since(start))
	}
}

type NopHook struct{}

func (NopHook) Observe(Stage, time.Duration) {}
func (NopHook) Count(Counter, int)           {}

// Logs every observation at verbosity 1
type LogHook struct{}

func (LogHook) Observe(stage Stage, elapsed time.Duration) {
	glog.V(1).Infof("stage %s took %s", stage, elapsed)
}

func (LogHook) Count(counter Counter, n int) {
	glog.V(1).Infof("%s += %d", counter, n)
}

type multiHook []Hook

// Fans observations out to every given hook
func Hooks(hooks ...Hook) Hook {
	if len(hooks) == 1 {
		return hooks[0]
	}
	return multiHook(hooks)
}

func (m multiHook) Observe(stage Stage, elapsed time.Duration) {
	for _, h := range m {
		h.Observe(stage, elapsed)
	}
}

func (m multiHook) Count(counter Counter, n int) {
	for _, h := range m {
		h.Count(counter, n)
	}
}
