// Package api implements the flatgraph HTTP service.
//
// The service exposes the flattening pipeline over REST: documents can be
// flattened directly (POST /v1/flatten) or managed by name in the
// configured document store (/v1/graphs). Group references a document
// does not define itself resolve against the store, so stored documents
// compose by name. Every response that leaves the pipeline carries the
// flattened JSON including its diagnostics, so clients always see
// dangling-link and interface-mismatch warnings alongside the result.
package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flatgraph/pkg/pipeline"
	"github.com/matzehuels/flatgraph/pkg/store"
)

// maxDocumentBytes bounds request bodies. Graph documents are small; the
// limit exists so a misdirected upload cannot exhaust memory.
const maxDocumentBytes = 8 << 20

// =============================================================================
// Server
// =============================================================================

// Options configures a Server.
type Options struct {
	// Store holds the named graph documents. Required.
	Store store.Store

	// Runner executes the flattening pipeline. If nil, an uncached
	// runner is created.
	Runner *pipeline.Runner

	// Logger receives request and error logs. If nil, log.Default is
	// used.
	Logger *log.Logger
}

// Server is the flatgraph HTTP service. It implements http.Handler.
type Server struct {
	store   store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *metrics
	router  chi.Router
}

// NewServer creates the HTTP service with its routes registered.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("api: store is required")
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{
		store:   opts.Store,
		runner:  opts.Runner,
		logger:  opts.Logger,
		metrics: newMetrics(),
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP dispatches to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/flatten", s.handleFlatten)
		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleGraphList)
			r.Route("/{name}", func(r chi.Router) {
				r.Put("/", s.handleGraphPut)
				r.Get("/", s.handleGraphGet)
				r.Delete("/", s.handleGraphDelete)
				r.Get("/flat", s.handleGraphFlat)
				r.Get("/dot", s.handleGraphDOT)
			})
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// instrument records request metrics and logs each request. The route
// label uses the chi route pattern, not the raw path, so metric
// cardinality stays bounded by the route table.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)

		s.metrics.observeRequest(r.Method, route, status, duration)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return data, nil
}
