package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// renderCommand creates the render command for producing visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a flattened graph as SVG, PNG, or DOT",
		Long: `Render a flattened graph as SVG, PNG, or DOT.

The render command flattens the document and lays the result out with
graphviz. Nodes are labeled with their instance paths; in detailed mode
every socket appears as its own port.

Defaults for format, layout direction, and detail level come from the
config file; flags take precedence.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if formatsStr == "" {
				formatsStr = cfg.Render.Formats
			}
			if !cmd.Flags().Changed("rankdir") {
				opts.RankDir = cfg.Render.RankDir
			}
			if !cmd.Flags().Changed("detailed") {
				opts.Detailed = cfg.Render.Detailed
			}

			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateRankDir(opts.RankDir); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.RankDir, "rankdir", pipeline.DefaultRankDir, "layout direction: LR, TB, RL, BT")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "draw socket-level edges")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "entry graph (default: the document's default graph)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum group nesting depth, negative disables the limit")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runRender executes the pipeline and writes the rendered artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Path = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(ctx, artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Graph)
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.DiagnosticCount, result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Inspect", "flatgraph inspect "+input)

	return nil
}
