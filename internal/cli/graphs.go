package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/pkg/document"
)

// graphsCommand creates the graphs command for managing stored documents.
func (c *CLI) graphsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage graph documents in the configured store",
		Long: `Manage graph documents in the configured store.

Documents are stored by name in the backend selected by the config file
(file by default; memory, redis, and mongo suit server setups). A stored
document can be flattened over HTTP without shipping its body in every
request.`,
	}

	cmd.AddCommand(c.graphsListCommand())
	cmd.AddCommand(c.graphsAddCommand())
	cmd.AddCommand(c.graphsShowCommand())
	cmd.AddCommand(c.graphsRemoveCommand())

	return cmd
}

// graphsListCommand creates the "graphs list" subcommand.
func (c *CLI) graphsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graph documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if len(names) == 0 {
				printInfo("No documents stored")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// graphsAddCommand creates the "graphs add" subcommand.
func (c *CLI) graphsAddCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [document]",
		Short: "Store a graph document under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			// Reject documents that do not decode; the store holds raw
			// bytes and would happily keep garbage.
			format := document.DetectFormat(path, data)
			doc, err := document.Decode(data, format)
			if err != nil {
				return fmt.Errorf("invalid document %s: %w", path, err)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Put(cmd.Context(), name, data); err != nil {
				return fmt.Errorf("store document: %w", err)
			}

			printSuccess("Stored %s", name)
			if !doc.SelfContained() {
				printWarning("References graphs it does not define; they must be in the store when it is flattened")
			}
			printNewline()
			printNextStep("Serve it", "flatgraph serve")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name to store under (default: file name without extension)")

	return cmd
}

// graphsShowCommand creates the "graphs show" subcommand.
func (c *CLI) graphsShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a stored graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			defer out.Close()

			if _, err := out.Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// graphsRemoveCommand creates the "graphs rm" subcommand.
func (c *CLI) graphsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [name]",
		Short: "Remove a stored graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}
