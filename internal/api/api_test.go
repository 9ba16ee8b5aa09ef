package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flatgraph/pkg/cache"
	"github.com/matzehuels/flatgraph/pkg/observability"
	"github.com/matzehuels/flatgraph/pkg/pipeline"
	"github.com/matzehuels/flatgraph/pkg/store"
)

const testDoc = `{
	"graphs": [
		{
			"name": "main",
			"nodes": [
				{"name": "a", "outputs": ["value"]},
				{"name": "g", "group": "blur", "inputs": ["image"], "outputs": ["image"]},
				{"name": "b", "inputs": ["in"]}
			],
			"links": [
				{"from": "a.value", "to": "g.image"},
				{"from": "g.image", "to": "b.in"}
			]
		},
		{
			"name": "blur",
			"group_inputs": ["image"],
			"group_outputs": ["image"],
			"nodes": [{"name": "f", "inputs": ["in"], "outputs": ["out"]}],
			"links": [
				{"from": "$image", "to": "f.in"},
				{"from": "f.out", "to": "$image"}
			]
		}
	]
}`

const testDocYAML = `graphs:
  - name: main
    nodes:
      - name: a
        outputs: [value]
      - name: g
        group: blur
        inputs: [image]
        outputs: [image]
    links:
      - {from: a.value, to: g.image}
  - name: blur
    group_inputs: [image]
    group_outputs: [image]
    nodes:
      - name: f
        inputs: [in]
        outputs: [out]
    links:
      - {from: $image, to: f.in}
      - {from: f.out, to: $image}
`

const cyclicDoc = `{
	"graphs": [
		{
			"name": "main",
			"nodes": [{"name": "g", "group": "main"}]
		}
	]
}`

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore()
	srv, err := NewServer(Options{
		Store:  st,
		Runner: pipeline.NewRunner(cache.NewMemoryCache(), nil, logger),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv, st
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("error response is not JSON: %v\n%s", err, body)
	}
	return resp.Error
}

func doRequest(t *testing.T, srv *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresStore(t *testing.T) {
	if _, err := NewServer(Options{}); err == nil {
		t.Fatal("NewServer() with no store should fail")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
	if body["version"] == "" {
		t.Error("version field should be set")
	}
}

func TestFlatten(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", testDoc)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var flat struct {
		Root  string `json:"root"`
		Nodes []struct {
			Path string `json:"path"`
		} `json:"nodes"`
		Diagnostics []any `json:"diagnostics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &flat); err != nil {
		t.Fatalf("response is not flat JSON: %v", err)
	}
	if flat.Root != "main" {
		t.Errorf("root = %q, want %q", flat.Root, "main")
	}
	if len(flat.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(flat.Nodes))
	}
	found := false
	for _, n := range flat.Nodes {
		if n.Path == "g/f" {
			found = true
		}
	}
	if !found {
		t.Errorf("no node with path g/f in %s", rec.Body.String())
	}
	if len(flat.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", flat.Diagnostics)
	}
}

func TestFlattenYAML(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/yaml", testDocYAML)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"path": "g/f"`) {
		t.Errorf("flat output missing inlined node:\n%s", rec.Body.String())
	}
}

func TestFlattenDOT(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/v1/flatten?format=dot&rankdir=TB", "application/json", testDoc)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "digraph") {
		t.Errorf("DOT output missing digraph:\n%s", body)
	}
	if !strings.Contains(body, "rankdir=TB") {
		t.Errorf("DOT output missing rankdir=TB:\n%s", body)
	}
}

func TestFlattenErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed document",
			target:     "/v1/flatten",
			body:       `{"graphs": [`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DOCUMENT",
		},
		{
			name:       "empty document",
			target:     "/v1/flatten",
			body:       `{"graphs": []}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DOCUMENT",
		},
		{
			name:       "unknown output format",
			target:     "/v1/flatten?format=tiff",
			body:       testDoc,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "unknown entry graph",
			target:     "/v1/flatten?graph=absent",
			body:       testDoc,
			wantStatus: http.StatusNotFound,
			wantCode:   "GRAPH_NOT_FOUND",
		},
		{
			name:       "cyclic groups",
			target:     "/v1/flatten",
			body:       cyclicDoc,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "CYCLE",
		},
		{
			name:       "bad max_depth",
			target:     "/v1/flatten?max_depth=lots",
			body:       testDoc,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "bad rankdir",
			target:     "/v1/flatten?rankdir=XX",
			body:       testDoc,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, tt.target, "application/json", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d\n%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := decodeError(t, rec.Body.Bytes()); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (message %q)", got.Code, tt.wantCode, got.Message)
			}
		})
	}
}

func TestGraphCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	// Store a document.
	rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/demo", "application/json", testDoc)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT status = %d, want %d\n%s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	// It shows up in the listing.
	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET list status = %d, want %d", rec.Code, http.StatusOK)
	}
	var list graphListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Graphs) != 1 || list.Graphs[0] != "demo" {
		t.Errorf("graphs = %v, want [demo]", list.Graphs)
	}

	// The raw bytes round-trip.
	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs/demo", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != testDoc {
		t.Errorf("stored document did not round-trip")
	}

	// Flatten by name.
	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs/demo/flat", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET flat status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"path": "g/f"`) {
		t.Errorf("flat output missing inlined node")
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs/demo/dot", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET dot status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "digraph") {
		t.Errorf("dot output missing digraph")
	}

	// Delete and verify it is gone.
	rec = doRequest(t, srv, http.MethodDelete, "/v1/graphs/demo", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs/demo", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := decodeError(t, rec.Body.Bytes()); got.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", got.Code)
	}
}

func TestGraphPutRejectsInvalid(t *testing.T) {
	srv, st := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/broken", "application/json", `{"graphs": [`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rec.Body.Bytes()); got.Code != "INVALID_DOCUMENT" {
		t.Errorf("code = %q, want INVALID_DOCUMENT", got.Code)
	}

	// Nothing was stored.
	if _, err := st.Get(context.Background(), "broken"); err == nil {
		t.Error("invalid document was stored")
	}

	// Names the store rejects map to INVALID_NAME.
	rec = doRequest(t, srv, http.MethodPut, "/v1/graphs/bad%20name", "application/json", testDoc)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rec.Body.Bytes()); got.Code != "INVALID_NAME" {
		t.Errorf("code = %q, want INVALID_NAME", got.Code)
	}
}

func TestGraphDeleteMissing(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodDelete, "/v1/graphs/absent", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// Generate some traffic first.
	doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", testDoc)
	doRequest(t, srv, http.MethodGet, "/healthz", "", "")

	rec := doRequest(t, srv, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		"flatgraph_http_requests_total",
		"flatgraph_http_request_duration_seconds",
		"flatgraph_flatten_total",
		"flatgraph_flatten_nodes",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}

func TestRegisterHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv, err := NewServer(Options{
		Store:  store.NewObserved(store.NewMemoryStore()),
		Runner: pipeline.NewRunner(cache.NewMemoryCache(), nil, logger),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	srv.RegisterHooks()

	doRequest(t, srv, http.MethodPut, "/v1/graphs/demo", "application/json", testDoc)
	doRequest(t, srv, http.MethodGet, "/v1/graphs/demo", "", "")
	doRequest(t, srv, http.MethodGet, "/v1/graphs/missing", "", "")
	doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", testDoc)

	rec := doRequest(t, srv, http.MethodGet, "/metrics", "", "")
	body := rec.Body.String()

	for _, want := range []string{
		`flatgraph_store_ops_total{op="put",outcome="ok"} 1`,
		`flatgraph_store_ops_total{op="get",outcome="ok"} 1`,
		`flatgraph_store_ops_total{op="get",outcome="missing"} 1`,
		`flatgraph_cache_ops_total{kind="flat",outcome="set"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestFlattenCacheAcrossRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	first := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", testDoc)
	second := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", testDoc)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d/%d, want 200/200", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached response differs from fresh response")
	}
}

func TestFlattenResolvesStoredGraphs(t *testing.T) {
	srv, _ := newTestServer(t)

	blurDoc := `{
		"graphs": [
			{
				"name": "blur",
				"group_inputs": ["image"],
				"group_outputs": ["image"],
				"nodes": [{"name": "f", "inputs": ["in"], "outputs": ["out"]}],
				"links": [
					{"from": "$image", "to": "f.in"},
					{"from": "f.out", "to": "$image"}
				]
			}
		]
	}`
	if rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/blur", "application/json", blurDoc); rec.Code != http.StatusNoContent {
		t.Fatalf("store blur: status = %d\n%s", rec.Code, rec.Body.String())
	}

	// The posted document references "blur" without defining it.
	appDoc := `{
		"graphs": [
			{
				"name": "main",
				"nodes": [
					{"name": "a", "outputs": ["value"]},
					{"name": "g", "group": "blur", "inputs": ["image"], "outputs": ["image"]}
				],
				"links": [{"from": "a.value", "to": "g.image"}]
			}
		]
	}`
	rec := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", appDoc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"path": "g/f"`) {
		t.Errorf("flat output missing node from stored graph:\n%s", rec.Body.String())
	}

	// A stored document composes with other stored documents the same way.
	if rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/app", "application/json", appDoc); rec.Code != http.StatusNoContent {
		t.Fatalf("store app: status = %d\n%s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/graphs/app/flat", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stored flatten: status = %d\n%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"path": "g/f"`) {
		t.Errorf("stored flatten missing node from stored graph:\n%s", rec.Body.String())
	}
}

func TestFlattenUnresolvedReference(t *testing.T) {
	srv, _ := newTestServer(t)

	doc := `{"graphs": [{"name": "main", "nodes": [{"name": "g", "group": "nowhere"}]}]}`
	rec := doRequest(t, srv, http.MethodPost, "/v1/flatten", "application/json", doc)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
	if got := decodeError(t, rec.Body.Bytes()); got.Code != "GRAPH_NOT_FOUND" {
		t.Errorf("code = %q, want GRAPH_NOT_FOUND (message %q)", got.Code, got.Message)
	}
}

func TestFlattenCrossDocumentCycle(t *testing.T) {
	srv, _ := newTestServer(t)

	ping := `{"graphs": [{"name": "ping", "nodes": [{"name": "g", "group": "pong"}]}]}`
	pong := `{"graphs": [{"name": "pong", "nodes": [{"name": "g", "group": "ping"}]}]}`
	if rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/ping", "application/json", ping); rec.Code != http.StatusNoContent {
		t.Fatalf("store ping: status = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodPut, "/v1/graphs/pong", "application/json", pong); rec.Code != http.StatusNoContent {
		t.Fatalf("store pong: status = %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/graphs/ping/flat", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if got := decodeError(t, rec.Body.Bytes()); got.Code != "CYCLE" {
		t.Errorf("code = %q, want CYCLE (message %q)", got.Code, got.Message)
	}
}
