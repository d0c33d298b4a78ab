package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dieshot/dienet/pkg/buildinfo"
	"github.com/dieshot/dienet/pkg/cache"
	"github.com/dieshot/dienet/pkg/connect"
	"github.com/dieshot/dienet/pkg/emit"
	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/geom"
	dio "github.com/dieshot/dienet/pkg/io"
	"github.com/dieshot/dienet/pkg/layer"
	"github.com/dieshot/dienet/pkg/netlist"
	"github.com/dieshot/dienet/pkg/observability"
	"github.com/dieshot/dienet/pkg/transistor"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Input is the loaded, not yet connected state of a run.
type Input struct {
	Netlist  *netlist.Netlist
	Vias     []netlist.Connector
	Contacts []netlist.Connector
	Report   *netlist.Report

	// CacheHits counts layer files served from the cache.
	CacheHits int
}

// Execute runs the complete load → connect → analyze → emit pipeline.
// A fatal error in any stage returns before any output file is written.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.execute(ctx, opts)
	if err != nil {
		if code := errors.GetCode(err); code != "" {
			observability.Report().OnFatal(ctx, string(code))
		}
		return nil, err
	}
	for _, w := range result.Report.Warnings {
		observability.Report().OnWarning(ctx, string(w.Kind))
	}
	return result, nil
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	start := time.Now()
	var in *Input
	err := runStage(ctx, observability.StageLoad, func() (int, error) {
		var err error
		in, err = r.Load(ctx, opts)
		if err != nil {
			return 0, err
		}
		return len(in.Netlist.Nodes), nil
	})
	if err != nil {
		return nil, err
	}
	nl := in.Netlist
	result.Netlist = nl
	result.Report = in.Report
	result.Stats.LoadTime = time.Since(start)
	result.Stats.Nodes = len(nl.Nodes)
	result.Stats.Connectors = len(in.Vias) + len(in.Contacts)
	result.Stats.Transistors = len(nl.Transistors)
	result.Stats.CacheHits = in.CacheHits

	logger.Info("loaded layers",
		"nodes", result.Stats.Nodes,
		"connectors", result.Stats.Connectors,
		"transistors", result.Stats.Transistors,
		"cache_hits", in.CacheHits,
		"duration", result.Stats.LoadTime)

	// Stage 2: Connect
	start = time.Now()
	err = runStage(ctx, observability.StageConnect, func() (int, error) {
		stats, report, err := connect.New(logger).Connect(ctx, nl, in.Vias, in.Contacts)
		if err != nil {
			return 0, err
		}
		result.Connect = stats
		result.Report.Merge(report)
		return stats.Nets, nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.ConnectTime = time.Since(start)

	logger.Info("connected nodes",
		"nets", result.Connect.Nets,
		"merges", result.Connect.Merges,
		"not_hit", result.Connect.NotHit(),
		"duration", result.Stats.ConnectTime)

	// Stage 3: Analyze
	start = time.Now()
	err = runStage(ctx, observability.StageAnalyze, func() (int, error) {
		stats, report, err := transistor.New(transistor.Process(opts.Process), logger).Analyze(ctx, nl)
		if err != nil {
			return 0, err
		}
		result.Analyze = stats
		result.Report.Merge(report)
		return stats.Emitted, nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.AnalyzeTime = time.Since(start)
	result.Geometry = Summarize(nl)

	logger.Info("analyzed transistors",
		"emitted", result.Analyze.Emitted,
		"pullups", result.Analyze.PullUps,
		"disabled", result.Analyze.Disabled,
		"duration", result.Stats.AnalyzeTime)

	// Stage 4: Emit
	start = time.Now()
	err = runStage(ctx, observability.StageEmit, func() (int, error) {
		meta := dio.Meta{
			RunID:    result.RunID,
			Version:  buildinfo.Short(),
			Process:  opts.Process,
			Warnings: result.Report.Warnings,
		}
		artifacts, err := Render(ctx, nl, meta, opts)
		if err != nil {
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		files, err := emit.WriteFiles(opts.Output, artifacts)
		if err != nil {
			return 0, err
		}
		result.Files = files
		return len(files), nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.EmitTime = time.Since(start)

	logger.Info("wrote outputs",
		"files", len(result.Files),
		"dir", opts.Output,
		"warnings", len(result.Report.Warnings),
		"duration", result.Stats.EmitTime)

	return result, nil
}

// RenderFile re-emits a netlist.json written by an earlier run in the
// formats of opts, without touching any layer file.
func (r *Runner) RenderFile(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	nl, meta, err := dio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID:    meta.RunID,
		Netlist:  nl,
		Report:   &netlist.Report{Warnings: meta.Warnings},
		Geometry: Summarize(nl),
	}
	result.Stats.Nodes = len(nl.Nodes)
	result.Stats.Transistors = len(nl.Transistors)

	start := time.Now()
	err = runStage(ctx, observability.StageEmit, func() (int, error) {
		artifacts, err := Render(ctx, nl, meta, opts)
		if err != nil {
			return 0, err
		}
		files, err := emit.WriteFiles(opts.Output, artifacts)
		if err != nil {
			return 0, err
		}
		result.Files = files
		return len(files), nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.EmitTime = time.Since(start)

	opts.Logger.Info("rendered netlist",
		"source", path,
		"files", len(result.Files),
		"duration", result.Stats.EmitTime)
	return result, nil
}

// runStage brackets fn with the pipeline stage hooks. count is the stage's
// main output size.
func runStage(ctx context.Context, stage observability.Stage, fn func() (count int, err error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	count, err := fn()
	hooks.OnStageComplete(ctx, stage, count, time.Since(start), err)
	return err
}

// Load reads every layer file named by opts and builds the node arena, the
// connector lists and the transistor outlines. Unterminated polygons are
// reported as warnings; each power plane file must hold exactly one polygon.
func (r *Runner) Load(ctx context.Context, opts Options) (*Input, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	loader, err := layer.NewLoader(r.Cache, r.Keyer, opts.Logger)
	if err != nil {
		return nil, err
	}
	in := &Input{Report: &netlist.Report{}}

	read := func(name string, kind layer.Kind) ([]geom.Polygon, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		lopts := layer.Options{Scale: opts.Scale, ChipHeight: opts.ChipHeight, Kind: kind}
		shapes, hit, err := loader.Load(ctx, opts.Path(name), lopts)
		if err != nil {
			return nil, err
		}
		if hit {
			in.CacheHits++
		}
		if shapes.Dangling > 0 {
			in.Report.Warn(netlist.WarnUnterminated, name,
				"%d trailing vertices do not close a polygon", shapes.Dangling)
		}
		observability.Pipeline().OnLayerLoaded(ctx, name, shapes.Len(), hit, time.Since(start))
		opts.Logger.Debug("loaded layer", "file", name, "polygons", shapes.Len(), "cached", hit)
		return shapes.Polygons, nil
	}

	plane := func(name string) (geom.Polygon, error) {
		polys, err := read(name, layer.Plane)
		if err != nil {
			return geom.Polygon{}, err
		}
		if len(polys) != 1 {
			return geom.Polygon{}, errors.New(errors.ErrCodePlaneNodeCount,
				"%s: expected exactly one polygon, found %d", name, len(polys))
		}
		return polys[0], nil
	}

	l := opts.Layers
	power, err := plane(l.Power)
	if err != nil {
		return nil, err
	}
	ground, err := plane(l.Ground)
	if err != nil {
		return nil, err
	}

	var metal, poly, diff []geom.Polygon
	for _, f := range []struct {
		name string
		dst  *[]geom.Polygon
	}{
		{l.Metal, &metal},
		{l.Poly, &poly},
		{l.Diffusion, &diff},
	} {
		if *f.dst, err = read(f.name, layer.Plane); err != nil {
			return nil, err
		}
	}
	in.Netlist = netlist.New(netlist.DefaultRails(), power, ground, metal, poly, diff)

	for _, f := range []struct {
		name string
		dst  *[]netlist.Connector
	}{
		{l.Vias, &in.Vias},
		{l.BuriedContacts, &in.Contacts},
	} {
		polys, err := read(f.name, layer.Connector)
		if err != nil {
			return nil, err
		}
		*f.dst = connectors(polys)
	}

	outlines, err := read(l.Transistors, layer.Connector)
	if err != nil {
		return nil, err
	}
	in.Netlist.Transistors = appendTransistors(in.Netlist.Transistors, outlines, netlist.NChannel)

	if opts.IsCMOS() {
		outlines, err := read(l.PTransistors, layer.Connector)
		if err != nil {
			return nil, err
		}
		in.Netlist.Transistors = appendTransistors(in.Netlist.Transistors, outlines, netlist.PChannel)
	}

	return in, nil
}

func connectors(polys []geom.Polygon) []netlist.Connector {
	out := make([]netlist.Connector, len(polys))
	for i, p := range polys {
		out[i] = netlist.NewConnector(p)
	}
	return out
}

func appendTransistors(dst []netlist.Transistor, polys []geom.Polygon, pol netlist.Polarity) []netlist.Transistor {
	for _, p := range polys {
		dst = append(dst, netlist.NewTransistor(p, pol))
	}
	return dst
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
