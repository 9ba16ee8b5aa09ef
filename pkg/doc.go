// Package pkg provides the core libraries for Flatgraph graph flattening.
//
// # Overview
//
// Flatgraph expands hierarchical graph documents into flat instance
// graphs: every group node is replaced by a copy of the graph it
// references, recursively, until only primitive nodes remain. The pkg
// directory is organized into five main areas:
//
//  1. [logical] - The authored graph model (graphs, nodes, links, libraries)
//  2. [document] - On-disk document formats (YAML, JSON, HCL) and flat output
//  3. [inline] - The flattening engine (expansion, frames, diagnostics, DOT)
//  4. [render] - Graphviz rendering (SVG, PNG)
//  5. [pipeline] - Orchestration (load → flatten → render) with caching
//
// # Architecture
//
// The typical data flow through Flatgraph:
//
//	YAML/JSON/HCL document
//	         ↓
//	    [document] package (decode + validate)
//	         ↓
//	    [logical] package (graph library, group references)
//	         ↓
//	    [inline] package (flatten groups into instances)
//	         ↓
//	    [render] package (DOT layout)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Decode a document and flatten its main graph:
//
//	import (
//	    "github.com/matzehuels/flatgraph/pkg/document"
//	    "github.com/matzehuels/flatgraph/pkg/inline"
//	)
//
//	// 1. Decode the document
//	data, _ := os.ReadFile("app.yaml")
//	doc, _ := document.Decode(data, document.DetectFormat("app.yaml", data))
//
//	// 2. Build the graph library
//	lib, _ := doc.Library()
//	root, _ := lib.Resolve(doc.DefaultGraph())
//
//	// 3. Flatten
//	flat, _ := inline.Flatten(root, lib, inline.WithMaxDepth(64))
//
//	// 4. Export
//	dot := flat.DOT(inline.DOTOptions{})
//
// # Main Packages
//
// ## Graph Model
//
// [logical] - The authored form of a graph: named graphs holding
// primitive and group nodes, input/output connectors, and links between
// them. A [logical.Library] collects graphs by name and validates that
// group references resolve and contain no reference cycles.
//
// [document] - Decoding of graph documents from YAML, JSON, and HCL
// into the logical model, plus the serializable flat-graph form that
// the CLI and API emit as JSON.
//
// ## Flattening
//
// [inline] - The core engine. Flatten walks the root graph, copies
// primitive nodes into a flat instance graph with dense per-kind IDs,
// and expands each group node by inlining the referenced graph under a
// new parent frame. Unresolvable links become diagnostics; group
// reference cycles abort with a [inline.CycleError].
//
// ## Rendering
//
// [render] - Layout of DOT text via Graphviz with SVG and PNG
// encodings. DOT itself is a passthrough format, so pipelines can
// treat "write the DOT" as one more output.
//
// ## Infrastructure
//
// [pipeline] - Complete flattening pipeline (load → flatten → render)
// used by CLI and API. Content-addressed caching at each stage, run
// records for the CLI's history view.
//
// [cache] - Result cache with memory, file, and null backends, keyed
// by input hashes so that unchanged documents skip work.
//
// [store] - Document stores holding raw graph documents by name:
// memory, file, Redis, and MongoDB backends behind one interface.
//
// [observability] - Process-global hooks that surface cache and store
// activity to whoever wants to count it (the API server's Prometheus
// metrics, tests).
//
// [errors] - Error kinds shared across packages, carrying a code the
// API maps onto HTTP statuses.
//
// # Common Workflows
//
// Flatten through the pipeline with caching and artifacts:
//
//	r := pipeline.NewRunner(cache.NewFileCache(""), nil, logger)
//	res, _ := r.Execute(ctx, pipeline.Options{
//	    Path:    "app.yaml",
//	    Formats: []string{"svg", "json"},
//	})
//	os.WriteFile("app.svg", res.Artifacts["svg"], 0o644)
//
// Inspect diagnostics without rendering:
//
//	flat, err := inline.Flatten(root, lib)
//	var cerr *inline.CycleError
//	if errors.As(err, &cerr) {
//	    fmt.Println("cycle:", strings.Join(cerr.Path, " -> "))
//	}
//	for _, d := range flat.Diagnostics {
//	    fmt.Println(d)
//	}
//
// Serve stored documents over HTTP:
//
//	store := store.NewFileStore("")
//	// see internal/api for the server wiring
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/inline/...    # Specific package
//	go test -run Example        # Examples only
//
// [logical]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/logical
// [document]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/document
// [inline]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/inline
// [render]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/errors
// [logical.Library]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/logical#Library
// [inline.CycleError]: https://pkg.go.dev/github.com/matzehuels/flatgraph/pkg/inline#CycleError
package pkg
