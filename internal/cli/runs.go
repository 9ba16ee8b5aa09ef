package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// runsCommand creates the runs command for browsing pipeline history.
func (c *CLI) runsCommand() *cobra.Command {
	var (
		limit int
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs",
		Long: `Show recent pipeline runs.

Every flatten and render records a run with its source, entry graph, node
count, warnings, and cache outcome. Records live under
~/.config/flatgraph/history/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := pipeline.NewFileHistory("")
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer history.Close()

			if clear {
				if err := history.Prune(cmd.Context(), 0); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				printSuccess("Cleared run history")
				return nil
			}

			recs, err := history.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(recs) == 0 {
				printInfo("No runs recorded")
				return nil
			}

			fmt.Println(runsTable(recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show (0 shows all)")
	cmd.Flags().BoolVar(&clear, "clear", false, "drop all recorded runs")

	return cmd
}

// runsTable renders run records as a bordered table, newest first.
func runsTable(recs []*pipeline.RunRecord) string {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		id := rec.ID
		if len(id) > 8 {
			id = id[:8]
		}
		cached := "fresh"
		if rec.FlattenHit || rec.RenderHit {
			cached = "cached"
		}
		rows = append(rows, []string{
			id,
			rec.Source,
			rec.Graph,
			fmt.Sprintf("%d", rec.NodeCount),
			fmt.Sprintf("%d", rec.Diagnostics),
			strings.Join(rec.Formats, ","),
			cached,
			rec.Duration.Round(time.Millisecond).String(),
			age(rec.CreatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Run", "Source", "Graph", "Nodes", "Warnings", "Formats", "Cache", "Duration", "Age").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// age formats how long ago t was, in the largest sensible unit.
func age(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
