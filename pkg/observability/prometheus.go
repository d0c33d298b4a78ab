package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromHooks records extraction metrics in a private Prometheus registry.
// It implements PipelineHooks, CacheHooks and ReportHooks.
type PromHooks struct {
	registry *prometheus.Registry

	LayerPolygons *prometheus.GaugeVec
	LayerLoads    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	StageOutput   *prometheus.GaugeVec
	StageErrors   *prometheus.CounterVec
	CacheEvents   *prometheus.CounterVec
	CacheBytes    prometheus.Counter
	Warnings      *prometheus.CounterVec
	Fatal         *prometheus.CounterVec
}

// NewPromHooks creates hooks backed by a fresh registry.
func NewPromHooks() *PromHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &PromHooks{
		registry: reg,
		LayerPolygons: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dienet_layer_polygons",
			Help: "Polygons loaded from each layer file",
		}, []string{"layer"}),
		LayerLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dienet_layer_loads_total",
			Help: "Layer files loaded, by cache outcome",
		}, []string{"layer", "cache"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dienet_stage_duration_seconds",
			Help:    "Duration of each extraction stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		}, []string{"stage"}),
		StageOutput: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dienet_stage_output",
			Help: "Main output count of the last run of each stage",
		}, []string{"stage"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dienet_stage_errors_total",
			Help: "Stages that ended in an error",
		}, []string{"stage"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dienet_cache_events_total",
			Help: "Cache hits, misses and writes",
		}, []string{"key_type", "event"}),
		CacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "dienet_cache_written_bytes_total",
			Help: "Bytes written to the cache before compression",
		}),
		Warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dienet_warnings_total",
			Help: "Non-fatal extraction warnings by kind",
		}, []string{"kind"}),
		Fatal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dienet_fatal_errors_total",
			Help: "Runs aborted by a fatal error, by code",
		}, []string{"code"}),
	}
}

// Registry returns the underlying Prometheus registry.
func (h *PromHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector.
func (h *PromHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *PromHooks) OnLayerLoaded(_ context.Context, layer string, polygons int, cacheHit bool, _ time.Duration) {
	h.LayerPolygons.WithLabelValues(layer).Set(float64(polygons))
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	h.LayerLoads.WithLabelValues(layer, outcome).Inc()
}

func (h *PromHooks) OnStageStart(context.Context, Stage) {}

func (h *PromHooks) OnStageComplete(_ context.Context, stage Stage, count int, duration time.Duration, err error) {
	h.StageDuration.WithLabelValues(string(stage)).Observe(duration.Seconds())
	if err != nil {
		h.StageErrors.WithLabelValues(string(stage)).Inc()
		return
	}
	h.StageOutput.WithLabelValues(string(stage)).Set(float64(count))
}

func (h *PromHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PromHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PromHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEvents.WithLabelValues(keyType, "set").Inc()
	h.CacheBytes.Add(float64(size))
}

func (h *PromHooks) OnWarning(_ context.Context, kind string) {
	h.Warnings.WithLabelValues(kind).Inc()
}

func (h *PromHooks) OnFatal(_ context.Context, code string) {
	h.Fatal.WithLabelValues(code).Inc()
}
