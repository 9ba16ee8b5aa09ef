package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// flattenCommand creates the flatten command for expanding a graph document.
func (c *CLI) flattenCommand() *cobra.Command {
	var (
		output  string
		asDOT   bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "flatten [document]",
		Short: "Expand group references into a flat instance graph",
		Long: `Expand group references into a flat instance graph.

The flatten command loads a graph document (JSON, YAML, or HCL), expands
every group node into the contents of the graph it references, and writes
the flattened result as JSON to stdout or a file.

Links that cannot be resolved are reported as warnings and the affected
connections are dropped; the rest of the graph is still produced. A graph
that contains itself, directly or through other groups, is an error.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFlatten(cmd.Context(), args[0], opts, output, asDOT, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Flatten flags
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "entry graph (default: the document's default graph)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum group nesting depth, negative disables the limit")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&asDOT, "dot", false, "write DOT instead of JSON")

	return cmd
}

// runFlatten executes the pipeline and writes the flattened encoding.
// Decorations are only printed when writing to a file, so stdout stays
// clean for piping.
func (c *CLI) runFlatten(ctx context.Context, input string, opts pipeline.Options, output string, asDOT, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	format := pipeline.FormatJSON
	if asDOT {
		format = pipeline.FormatDOT
	}
	opts.Path = input
	opts.Formats = []string{format}
	opts.Logger = c.Logger

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	data := result.Artifacts[format]
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(out)
	}

	if output != "" {
		printSuccess("Flattened %s", result.Graph)
		printFile(output)
		printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.DiagnosticCount, result.CacheInfo.FlattenHit)
		printNewline()
		printNextStep("Render", "flatgraph render "+input)
	}

	return nil
}
