// Package pipeline provides the core flattening pipeline for Flatgraph.
//
// This package implements the complete load → flatten → output pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode a graph document (JSON, YAML, or HCL)
//  2. Flatten: Expand group references into a flat instance graph
//  3. Output: Encode the flat graph and render requested artifacts
//     (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "app.yaml",
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	doc, raw, err := runner.Load(ctx, opts)
//
//	// Flatten with a loaded document
//	g, err := runner.Flatten(ctx, doc, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flatgraph/pkg/cache"
	"github.com/matzehuels/flatgraph/pkg/document"
	"github.com/matzehuels/flatgraph/pkg/inline"
	"github.com/matzehuels/flatgraph/pkg/logical"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the maximum group nesting depth for the pipeline.
	// Cycle detection already rejects recursive references, so the limit
	// only guards against absurdly deep legitimate nesting. API and CLI
	// users can disable it by setting MaxDepth to a negative value.
	DefaultMaxDepth = 64

	// DefaultRankDir is the default DOT layout direction.
	DefaultRankDir = "LR"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidRankDirs is the set of DOT layout directions graphviz accepts.
var ValidRankDirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the flattening pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Path     string `json:"path,omitempty"`     // document file to read
	Document []byte `json:"document,omitempty"` // raw document bytes; used instead of Path when set
	Format   string `json:"format,omitempty"`   // json, yaml or hcl; empty means detect

	// Flatten options
	Graph    string `json:"graph,omitempty"`     // entry graph name; empty means the document default
	MaxDepth int    `json:"max_depth,omitempty"` // 0 means DefaultMaxDepth, negative disables the limit
	Refresh  bool   `json:"refresh,omitempty"`   // bypass cached results

	// Output options
	Formats  []string `json:"formats,omitempty"` // outputs to produce; defaults to json
	Detailed bool     `json:"detailed,omitempty"`
	RankDir  string   `json:"rankdir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Provider supplies graphs for group references the document itself
	// does not define; the document's own graphs always win. Documents
	// that need it bypass the flat cache, since the cache key only
	// covers the document bytes.
	Provider logical.Provider `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs and history.
	RunID string

	// Document is the decoded graph document.
	Document *document.Document

	// Graph is the name of the entry graph that was flattened.
	Graph string

	// Flat is the flattened instance graph. It is nil when the flatten
	// stage was served from the cache; FlatDoc is always populated.
	Flat *inline.Graph

	// FlatDoc is the serialization form of the flattened graph.
	FlatDoc document.FlatGraph

	// FlatHash is the content hash of the flat JSON encoding.
	FlatHash string

	// Artifacts contains produced outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	LinkCount       int
	DiagnosticCount int
	LoadTime        time.Duration
	FlattenTime     time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FlattenHit bool // Whether the flat encoding came from cache
	RenderHit  bool // Whether all image artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRankDir checks that a DOT layout direction is valid.
func ValidateRankDir(rankdir string) error {
	if !ValidRankDirs[rankdir] {
		return fmt.Errorf("invalid rankdir: %q (must be one of: TB, LR, BT, RL)", rankdir)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetFlattenDefaults()
	if err := o.ValidateForOutput(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a document.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && len(o.Document) == 0 {
		return fmt.Errorf("path or document is required")
	}
	if o.Format != "" {
		if _, err := document.ParseFormat(o.Format); err != nil {
			return err
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetFlattenDefaults sets default values for flattening.
func (o *Options) SetFlattenDefaults() {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetOutputDefaults sets default values for the output stage.
func (o *Options) SetOutputDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForOutput validates and sets defaults for the output stage.
func (o *Options) ValidateForOutput() error {
	o.SetOutputDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateRankDir(o.RankDir)
}

// NeedsGraph reports whether any requested format requires the in-memory
// instance graph. JSON can be served from the cached flat encoding alone;
// DOT and the image formats cannot.
func (o *Options) NeedsGraph() bool {
	for _, f := range o.Formats {
		if f != FormatJSON {
			return true
		}
	}
	return false
}

// Source names the document origin for logs and history.
func (o *Options) Source() string {
	if o.Path != "" {
		return o.Path
	}
	return "inline"
}

// depthLimit translates the user-facing MaxDepth into the engine's
// convention, where 0 disables the limit.
func (o *Options) depthLimit() int {
	if o.MaxDepth < 0 {
		return 0
	}
	return o.MaxDepth
}

// DOTOptions returns the DOT export options.
func (o *Options) DOTOptions() inline.DOTOptions {
	return inline.DOTOptions{
		Detailed: o.Detailed,
		RankDir:  o.RankDir,
	}
}

// FlatKeyOpts returns cache key options for the flatten stage.
func (o *Options) FlatKeyOpts() cache.FlatKeyOpts {
	return cache.FlatKeyOpts{
		Graph:    o.Graph,
		MaxDepth: o.MaxDepth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		RankDir:  o.RankDir,
	}
}
