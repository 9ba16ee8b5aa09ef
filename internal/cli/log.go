// Package cli implements the flatgraph command-line interface.
//
// This package provides commands for flattening nested graph documents,
// rendering them as visualizations, managing stored documents, and running
// the HTTP service. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - flatten: Expand group references in a graph document into a flat graph
//   - render: Generate SVG or PNG visualizations via graphviz
//   - inspect: Browse a flattened graph interactively
//   - graphs: Manage named documents in the configured store
//   - runs: Show recent pipeline runs
//   - serve: Run the HTTP service
//   - cache: Manage the local result cache
//
// All commands support --verbose (-v) for debug-level logging. The root
// command attaches the logger to the command context, so helpers that
// only receive a context can still log via loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger: stderr-style text output with
// sub-second timestamps, filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress stamps the start of a long-running operation; done logs the
// completion message with the elapsed time appended.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message followed by the elapsed duration,
// rounded to milliseconds: "Server stopped (2m31s)".
func (p *progress) done(format string, args ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Infof(format+" (%s)", append(args, elapsed)...)
}

// loggerKey carries the CLI logger through a context.
type loggerKey struct{}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or the
// package default when the context carries none, so callers never get a
// nil logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
