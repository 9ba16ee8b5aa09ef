package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flatgraph/internal/api"
	"github.com/matzehuels/flatgraph/pkg/buildinfo"
	"github.com/matzehuels/flatgraph/pkg/pipeline"
	"github.com/matzehuels/flatgraph/pkg/store"
)

// serveCommand creates the serve command running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the flatgraph HTTP service",
		Long: `Run the flatgraph HTTP service.

The service flattens posted documents, manages stored documents in the
configured backend, and exposes Prometheus metrics.

Endpoints:
  POST   /v1/flatten              flatten the posted document
  GET    /v1/graphs               list stored documents
  PUT    /v1/graphs/{name}        store a document
  GET    /v1/graphs/{name}        fetch a document
  DELETE /v1/graphs/{name}        remove a document
  GET    /v1/graphs/{name}/flat   flatten a stored document
  GET    /v1/graphs/{name}/dot    DOT export of a stored document
  GET    /healthz                 liveness probe
  GET    /metrics                 Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if backend != "" {
				cfg.Store.Backend = backend
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", `listen address (default from config, ":8080")`)
	cmd.Flags().StringVar(&backend, "store", "", "store backend override: file, memory, redis, mongo")

	return cmd
}

// runServe builds the server and blocks until the context is canceled or
// the listener fails.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	docs, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	observed := store.NewObserved(docs)
	defer observed.Close()

	resultCache, err := newCache(false)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	server, err := api.NewServer(api.Options{
		Store:  observed,
		Runner: runner,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}
	server.RegisterHooks()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	uptime := newProgress(c.Logger)

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "version", buildinfo.Short())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	uptime.done("Server stopped")
	return nil
}
