package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dieshot/dienet/pkg/pipeline"
)

// renderCommand creates the render command, which re-emits a saved netlist.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		graphRails bool
	)

	cmd := &cobra.Command{
		Use:   "render [netlist.json]",
		Short: "Render a saved netlist to other formats",
		Long: `Render a saved netlist to other formats.

The render command reads a netlist.json written by 'extract --format json'
and writes the requested formats without reading any layer file. Use it to
produce the net graph (dot, svg) or the simulator tables (js) again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Dir:        filepath.Dir(args[0]),
				Output:     output,
				Formats:    parseFormats(formatsStr),
				GraphRails: graphRails,
			}
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if opts.Output == "" {
				opts.Output = filepath.Dir(args[0])
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: next to the input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, js, json (comma-separated)")
	cmd.Flags().BoolVar(&graphRails, "graph-rails", false, "include power and ground in the net graph")

	return cmd
}

// runRender loads the netlist and writes the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner := pipeline.NewRunner(nil, nil, logger)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %v...", opts.Formats))
	spinner.Start()

	result, err := runner.RenderFile(ctx, input, opts)
	if err != nil {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %d nodes, %d transistors", result.Stats.Nodes, result.Stats.Transistors)
	for _, f := range result.Files {
		printFile(f)
	}
	return nil
}
