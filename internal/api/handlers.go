package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flatgraph/pkg/buildinfo"
	"github.com/matzehuels/flatgraph/pkg/document"
	apperrors "github.com/matzehuels/flatgraph/pkg/errors"
	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// =============================================================================
// Health
// =============================================================================

// handleHealth reports service liveness and the running build.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

// =============================================================================
// Flatten
// =============================================================================

// handleFlatten flattens the document carried in the request body.
//
// The body is the graph document itself; its format comes from the
// Content-Type header, falling back to content sniffing. Query
// parameters:
//
//	graph     entry graph name (default: first graph in the document)
//	format    output format: json, dot, svg or png (default json)
//	max_depth expansion depth limit; negative disables it
//	refresh   bypass cached results
//	detailed  include socket detail in DOT-derived output
//	rankdir   layout direction: TB, LR, BT or RL
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "%v", err))
		return
	}

	outFormat := r.URL.Query().Get("format")
	if outFormat == "" {
		outFormat = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(outFormat); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidFormat, "%v", err))
		return
	}

	s.flatten(w, r, body, "", formatFromContentType(r.Header.Get("Content-Type")), outFormat)
}

// handleGraphFlat flattens a stored document and returns the flat JSON.
func (s *Server) handleGraphFlat(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flatten(w, r, data, name, "", pipeline.FormatJSON)
}

// handleGraphDOT flattens a stored document and returns DOT text.
func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.flatten(w, r, data, name, "", pipeline.FormatDOT)
}

// flatten runs the pipeline over doc and writes the requested artifact.
// name scopes format detection for store-backed documents; docFormat
// overrides detection when the client declared a content type.
func (s *Server) flatten(w http.ResponseWriter, r *http.Request, doc []byte, name, docFormat, outFormat string) {
	q := r.URL.Query()

	if docFormat == "" {
		docFormat = string(document.DetectFormat(name, doc))
	}

	// Decode up front so malformed documents map to a client error
	// instead of surfacing as a pipeline failure.
	parsed, err := document.Decode(doc, document.Format(docFormat))
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidDocument, "%v", err))
		return
	}
	if parsed.DefaultGraph() == "" && q.Get("graph") == "" {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidDocument, "document has no graphs"))
		return
	}

	maxDepth, err := intParam(q.Get("max_depth"))
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "max_depth must be an integer"))
		return
	}
	refresh, err := boolParam(q.Get("refresh"))
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "refresh must be a boolean"))
		return
	}
	detailed, err := boolParam(q.Get("detailed"))
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "detailed must be a boolean"))
		return
	}
	rankdir := q.Get("rankdir")
	if rankdir != "" {
		if err := pipeline.ValidateRankDir(rankdir); err != nil {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "%v", err))
			return
		}
	}

	opts := pipeline.Options{
		Document: doc,
		Format:   docFormat,
		Graph:    q.Get("graph"),
		MaxDepth: maxDepth,
		Refresh:  refresh,
		Formats:  []string{outFormat},
		Detailed: detailed,
		RankDir:  rankdir,
		Logger:   s.logger,
		Provider: s.storeProvider(r.Context()),
	}

	result, err := s.runner.Execute(r.Context(), opts)
	s.metrics.observeFlatten(result, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(outFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[outFormat]); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// =============================================================================
// Graph store
// =============================================================================

type graphListResponse struct {
	Graphs []string `json:"graphs"`
}

// handleGraphList returns the names of all stored documents.
func (s *Server) handleGraphList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, graphListResponse{Graphs: names})
}

// handleGraphPut stores the request body under the given name. The
// document must decode; stores hold raw bytes, so this is the one place
// invalid content can be rejected before it is persisted.
func (s *Server) handleGraphPut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "%v", err))
		return
	}

	format := document.DetectFormat(name, body)
	if _, err := document.Decode(body, format); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidDocument, "%v", err))
		return
	}

	if err := s.store.Put(r.Context(), name, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored graph document", "name", name, "bytes", len(body))
	w.WriteHeader(http.StatusNoContent)
}

// handleGraphGet returns the stored document bytes unchanged.
func (s *Server) handleGraphGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeForDocument(document.DetectFormat(name, data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// handleGraphDelete removes a stored document.
func (s *Server) handleGraphDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted graph document", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// writeJSON writes v as a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// formatFromContentType maps a declared request content type to a
// document format name. Unknown types return "" so detection falls back
// to content sniffing.
func formatFromContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	switch ct {
	case "application/json":
		return string(document.FormatJSON)
	case "application/yaml", "application/x-yaml", "text/yaml":
		return string(document.FormatYAML)
	case "application/hcl", "text/hcl":
		return string(document.FormatHCL)
	default:
		return ""
	}
}

// contentTypeFor maps an output format to its response content type.
func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

// contentTypeForDocument maps a stored document format to its response
// content type.
func contentTypeForDocument(format document.Format) string {
	switch format {
	case document.FormatYAML:
		return "application/yaml"
	case document.FormatHCL:
		return "application/hcl"
	default:
		return "application/json"
	}
}
