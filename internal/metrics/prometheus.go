package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace    = "voxmesher"
	stageLabel   = "stage"
	counterLabel = "kind"
)

// Collects observations in a private registry that can be dumped as a
// node-exporter textfile once the run completes.
type PrometheusHook struct {
	registry  *prometheus.Registry
	durations *prometheus.HistogramVec
	counts    *prometheus.CounterVec
}

func NewPrometheusHook() *PrometheusHook {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusHook{
		registry: registry,
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "The time spent in each meshing stage, per model.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{
			stageLabel,
		}),
		counts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "The number of voxels, quads and fallbacks processed.",
		}, []string{
			counterLabel,
		}),
	}
}

func (h *PrometheusHook) Observe(stage Stage, elapsed time.Duration) {
	h.durations.With(prometheus.Labels{
		stageLabel: string(stage),
	}).Observe(elapsed.Seconds())
}

func (h *PrometheusHook) Count(counter Counter, n int) {
	h.counts.With(prometheus.Labels{
		counterLabel: string(counter),
	}).Add(float64(n))
}

func (h *PrometheusHook) Gatherer() prometheus.Gatherer {
	return h.registry
}

// Writes all collected metrics to path in the text exposition format
func (h *PrometheusHook) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}
