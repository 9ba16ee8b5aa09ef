package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// inspectCommand creates the inspect command for interactive browsing.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Browse a flattened graph interactively",
		Long: `Browse a flattened graph interactively.

The inspect command flattens the document and opens a terminal browser
over the result. The list shows every node instance with its path and
frame; enter shows the socket connections of the selected node and the
chain of group expansions it came through.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Graph, "graph", "", "entry graph (default: the document's default graph)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum group nesting depth, negative disables the limit")

	return cmd
}

// runInspect flattens the document and starts the browser.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Path = input
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = c.Logger

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewInspectModel(result.Graph, result.FlatDoc))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
