package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLayerLoaded(ctx, "metal", 100, false, time.Second)
	p.OnStageStart(ctx, StageConnect)
	p.OnStageComplete(ctx, StageConnect, 42, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layer")
	c.OnCacheMiss(ctx, "layer")
	c.OnCacheSet(ctx, "layer", 1024)

	// Report hooks
	r := NoopReportHooks{}
	r.OnWarning(ctx, "NOT_HIT")
	r.OnFatal(ctx, "SHORT_CIRCUIT")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Report().(NoopReportHooks); !ok {
		t.Error("Report() should return NoopReportHooks by default")
	}

	prom := NewPromHooks()
	SetPipelineHooks(prom)
	SetCacheHooks(prom)
	SetReportHooks(prom)
	if Pipeline() != PipelineHooks(prom) || Cache() != CacheHooks(prom) || Report() != ReportHooks(prom) {
		t.Error("setters should register custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter != nil {
		return metric.Counter.GetValue()
	}
	return metric.Gauge.GetValue()
}

func TestPromHooksRecord(t *testing.T) {
	ctx := context.Background()
	h := NewPromHooks()

	h.OnLayerLoaded(ctx, "metal", 120, false, time.Millisecond)
	h.OnLayerLoaded(ctx, "metal", 120, true, time.Millisecond)
	h.OnStageComplete(ctx, StageConnect, 37, time.Second, nil)
	h.OnStageComplete(ctx, StageAnalyze, 0, time.Second, errors.New("boom"))
	h.OnCacheSet(ctx, "layer", 2048)
	h.OnWarning(ctx, "NOT_HIT")
	h.OnWarning(ctx, "NOT_HIT")
	h.OnFatal(ctx, "SHORT_CIRCUIT")

	if v := counterValue(t, h.LayerPolygons.WithLabelValues("metal")); v != 120 {
		t.Errorf("layer polygons = %v, want 120", v)
	}
	if v := counterValue(t, h.LayerLoads.WithLabelValues("metal", "hit")); v != 1 {
		t.Errorf("cache-hit loads = %v, want 1", v)
	}
	if v := counterValue(t, h.StageOutput.WithLabelValues("connect")); v != 37 {
		t.Errorf("connect output = %v, want 37", v)
	}
	if v := counterValue(t, h.StageErrors.WithLabelValues("analyze")); v != 1 {
		t.Errorf("analyze errors = %v, want 1", v)
	}
	if v := counterValue(t, h.CacheBytes); v != 2048 {
		t.Errorf("cache bytes = %v, want 2048", v)
	}
	if v := counterValue(t, h.Warnings.WithLabelValues("NOT_HIT")); v != 2 {
		t.Errorf("warnings = %v, want 2", v)
	}
}

func TestPromHooksTextfile(t *testing.T) {
	h := NewPromHooks()
	h.OnFatal(context.Background(), "SHORT_CIRCUIT")

	path := filepath.Join(t.TempDir(), "dienet.prom")
	if err := h.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `dienet_fatal_errors_total{code="SHORT_CIRCUIT"} 1`) {
		t.Errorf("textfile missing fatal counter:\n%s", data)
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
