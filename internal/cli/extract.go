package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/observability"
	"github.com/dieshot/dienet/pkg/pipeline"
)

// maxWarnings caps how many warnings are listed individually.
const maxWarnings = 20

// extractFlags holds the command-line overrides for the extract command.
type extractFlags struct {
	output      string
	formats     string
	process     string
	scale       int
	chipHeight  int
	graphRails  bool
	noCache     bool
	cacheDir    string
	redisURL    string
	metricsFile string
}

// extractCommand creates the extract command, which runs the whole pipeline.
func (c *CLI) extractCommand() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract [project]",
		Short: "Extract a netlist from a directory of layer files",
		Long: `Extract a netlist from a directory of layer files.

The project argument is a directory or a project file (dienet.toml,
dienet.yaml). A directory is searched for a project file; without one the
directory itself holds the layer files under their default names:

  metal_vcc.dat  metal_gnd.dat  metal.dat  polysilicon.dat  diffusion.dat
  vias.dat  buried_contacts.dat  transistors.dat  transistors_p.dat (cmos)

The default output is segdefs.js and transdefs.js in <project>/out. Nothing
is written when the extraction fails. Parsed layers are cached locally so
re-runs only parse the layers that changed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := "."
			if len(args) == 1 {
				project = args[0]
			}
			opts, err := pipeline.LoadOptions(project)
			if err != nil {
				return err
			}
			flags.apply(cmd, &opts)
			return c.runExtract(cmd.Context(), opts)
		},
	}

	flags.bind(cmd)
	return cmd
}

// bind registers the flags on cmd.
func (f *extractFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default <project>/out)")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): js (default), json, dot, svg (comma-separated)")
	fs.StringVar(&f.process, "process", "", "fabrication process: nmos (default), cmos")
	fs.IntVar(&f.scale, "scale", 0, "pixel to layer-unit scale factor")
	fs.IntVar(&f.chipHeight, "chip-height", 0, "die image height in pixels")
	fs.BoolVar(&f.graphRails, "graph-rails", false, "include power and ground in the net graph")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the layer cache")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "layer cache directory (default ~/.cache/dienet)")
	fs.StringVar(&f.redisURL, "redis", "", "use a shared Redis layer cache at this URL")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
}

// apply copies every flag the user set onto opts. Unset flags keep the
// project file value.
func (f *extractFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("output") {
		opts.Output = f.output
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("process") {
		opts.Process = f.process
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	if changed("chip-height") {
		opts.ChipHeight = f.chipHeight
	}
	if changed("graph-rails") {
		opts.GraphRails = f.graphRails
	}
	if changed("no-cache") {
		opts.Cache.Disabled = f.noCache
	}
	if changed("cache-dir") {
		opts.Cache.Dir = f.cacheDir
	}
	if changed("redis") {
		opts.Cache.RedisURL = f.redisURL
	}
	if changed("metrics-file") {
		opts.MetricsFile = f.metricsFile
	}
}

// runExtract executes the pipeline and prints the run summary.
func (c *CLI) runExtract(ctx context.Context, opts pipeline.Options) error {
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var hooks *observability.PromHooks
	if opts.MetricsFile != "" {
		hooks = observability.NewPromHooks()
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetReportHooks(hooks)
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, opts.Cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Extracting %s...", opts.Dir))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(fmt.Sprintf("Extraction failed: %s", errors.UserMessage(err)))
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Extracted %d transistors", result.Analyze.Emitted))

	// Written only for successful runs.
	if hooks != nil {
		if err := hooks.WriteTextfile(opts.MetricsFile); err != nil {
			c.Logger.Warn("write metrics", "file", opts.MetricsFile, "err", err)
		}
	}

	printExtractResult(result)
	return nil
}

func printExtractResult(r *pipeline.Result) {
	printSuccess("Extracted %s", StyleNumber.Render(fmt.Sprintf("%d transistors", r.Analyze.Emitted)))
	printStats(r.Stats.Nodes, r.Connect.Nets, r.Stats.CacheHits)

	printKeyValue("vias", fmt.Sprintf("%d/%d hit", r.Connect.ViasHit, r.Connect.Vias))
	printKeyValue("contacts", fmt.Sprintf("%d/%d hit", r.Connect.ContactsHit, r.Connect.Contacts))
	printKeyValue("pull-ups", fmt.Sprintf("%d", r.Analyze.PullUps))
	printKeyValue("disabled", fmt.Sprintf("%d", r.Analyze.Disabled))
	if g := r.Geometry; g.Devices > 0 {
		printKeyValue("width", fmt.Sprintf("%.1f ± %.1f (median %.1f)", g.MeanWidth, g.StdDevWidth, g.MedianWidth))
		printKeyValue("length", fmt.Sprintf("%.1f ± %.1f (median %.1f)", g.MeanLength, g.StdDevLength, g.MedianLength))
	}

	printWarnings(r)

	printNewline()
	for _, f := range r.Files {
		printFile(f)
	}
}

func printWarnings(r *pipeline.Result) {
	warnings := r.Report.Warnings
	if len(warnings) == 0 {
		return
	}
	printNewline()
	for i, w := range warnings {
		if i == maxWarnings {
			printDetail("... and %d more", len(warnings)-maxWarnings)
			break
		}
		printWarning("%s", w)
	}
}
