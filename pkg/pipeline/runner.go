package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flatgraph/pkg/cache"
	"github.com/matzehuels/flatgraph/pkg/document"
	"github.com/matzehuels/flatgraph/pkg/inline"
	"github.com/matzehuels/flatgraph/pkg/logical"
	"github.com/matzehuels/flatgraph/pkg/observability"
	"github.com/matzehuels/flatgraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, history, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// History records completed runs when set. Recording failures are
	// logged and never fail the run.
	History History
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → flatten → output pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	started := time.Now()

	result := &Result{
		RunID:     runID,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, raw, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)

	docHash := cache.Hash(raw)
	result.Graph = opts.Graph
	if result.Graph == "" {
		result.Graph = doc.DefaultGraph()
	}

	// Stage 2: Flatten
	flattenStart := time.Now()
	flatJSON, err := r.flattenStage(ctx, doc, docHash, opts, result)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	result.FlatHash = cache.Hash(flatJSON)
	result.Stats.FlattenTime = time.Since(flattenStart)
	fillStats(result)

	logger.Info("flattened graph",
		"graph", result.Graph,
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"diagnostics", result.Stats.DiagnosticCount,
		"duration", result.Stats.FlattenTime)

	// Stage 3: Output
	renderStart := time.Now()
	renderHit, err := r.outputStage(ctx, flatJSON, opts, result)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("produced artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.record(ctx, opts, result, time.Since(started))
	return result, nil
}

// Load reads and decodes the graph document named by the options. The
// raw document bytes are returned alongside for content hashing.
func (r *Runner) Load(ctx context.Context, opts Options) (*document.Document, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}
	r.applyLogger(&opts)

	source := opts.Source()
	observability.Pipeline().OnLoadStart(ctx, source)

	start := time.Now()
	doc, raw, format, err := loadDocument(opts)
	observability.Pipeline().OnLoadComplete(ctx, source, string(format), graphCount(doc), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	opts.Logger.Debug("loaded document",
		"source", source,
		"format", format,
		"graphs", len(doc.Graphs))
	return doc, raw, nil
}

// Flatten expands the entry graph of a loaded document into a flat
// instance graph. No caching happens here: flattening is a pure
// in-memory transform, and only its encodings are worth caching.
func (r *Runner) Flatten(ctx context.Context, doc *document.Document, opts Options) (*inline.Graph, error) {
	opts.SetFlattenDefaults()
	r.applyLogger(&opts)

	lib, err := doc.Library()
	if err != nil {
		return nil, fmt.Errorf("build library: %w", err)
	}
	provider := logical.Provider(lib)
	if opts.Provider != nil {
		provider = logical.Chain(lib, opts.Provider)
	}

	name := opts.Graph
	if name == "" {
		name = doc.DefaultGraph()
	}
	if name == "" {
		return nil, fmt.Errorf("document has no graphs")
	}
	root, err := lib.Resolve(name)
	if err != nil {
		return nil, err
	}

	observability.Pipeline().OnFlattenStart(ctx, name)
	start := time.Now()
	g, err := inline.Flatten(root, provider,
		inline.WithLogger(opts.Logger),
		inline.WithMaxDepth(opts.depthLimit()))
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Pipeline().OnFlattenComplete(ctx, name, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// flattenStage produces the flat JSON encoding, probing the cache first
// when no format needs the in-memory graph. On a miss (or whenever DOT or
// an image was requested) it flattens for real and fills result.Flat.
func (r *Runner) flattenStage(ctx context.Context, doc *document.Document, docHash string, opts Options, result *Result) ([]byte, error) {
	// A document that leans on an external provider pulls in graphs the
	// document hash does not cover, so its flat cache entries cannot be
	// trusted either way. Self-contained documents never consult the
	// provider and stay cacheable.
	cacheable := opts.Provider == nil || doc.SelfContained()
	flatKey := r.Keyer.FlatKey(docHash, opts.FlatKeyOpts())

	if cacheable && !opts.Refresh && !opts.NeedsGraph() {
		if data, hit, err := r.Cache.Get(ctx, flatKey); err == nil && hit {
			var fd document.FlatGraph
			if json.Unmarshal(data, &fd) == nil {
				observability.Cache().OnCacheHit(ctx, "flat")
				result.FlatDoc = fd
				result.CacheInfo.FlattenHit = true
				return data, nil
			}
			// Corrupt entry - fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "flat")
	}

	g, err := r.Flatten(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Flat = g
	result.FlatDoc = document.Flat(g)

	data, err := document.MarshalFlat(g)
	if err != nil {
		return nil, fmt.Errorf("encode flat graph: %w", err)
	}
	if cacheable {
		if err := r.Cache.Set(ctx, flatKey, data, cache.TTLFlat); err == nil {
			observability.Cache().OnCacheSet(ctx, "flat", len(data))
		}
	}
	return data, nil
}

// outputStage fills result.Artifacts for every requested format. Image
// formats go through the artifact cache; the returned bool reports
// whether every requested image came from it.
func (r *Runner) outputStage(ctx context.Context, flatJSON []byte, opts Options, result *Result) (bool, error) {
	var dot string
	dotText := func() string {
		if dot == "" {
			// result.Flat is non-nil here: flattenStage only serves from
			// cache when no format needs the graph.
			dot = result.Flat.DOT(opts.DOTOptions())
		}
		return dot
	}

	images := 0
	cached := 0
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			result.Artifacts[FormatJSON] = flatJSON

		case FormatDOT:
			result.Artifacts[FormatDOT] = []byte(dotText())

		case FormatSVG, FormatPNG:
			images++
			key := r.Keyer.ArtifactKey(result.FlatHash, opts.ArtifactKeyOpts(format))
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					observability.Cache().OnCacheHit(ctx, "artifact")
					result.Artifacts[format] = data
					cached++
					continue
				}
				observability.Cache().OnCacheMiss(ctx, "artifact")
			}

			observability.Pipeline().OnRenderStart(ctx, format)
			start := time.Now()
			data, err := render.Render(ctx, dotText(), render.Format(format))
			observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
			if err != nil {
				return false, fmt.Errorf("render %s: %w", format, err)
			}
			result.Artifacts[format] = data
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return images > 0 && cached == images, nil
}

// record appends the run to the history, if one is configured.
func (r *Runner) record(ctx context.Context, opts Options, result *Result, total time.Duration) {
	if r.History == nil {
		return
	}
	rec := &RunRecord{
		ID:          result.RunID,
		Source:      opts.Source(),
		Graph:       result.Graph,
		Formats:     opts.Formats,
		NodeCount:   result.Stats.NodeCount,
		Diagnostics: result.Stats.DiagnosticCount,
		FlattenHit:  result.CacheInfo.FlattenHit,
		RenderHit:   result.CacheInfo.RenderHit,
		Duration:    total,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.History.Append(ctx, rec); err != nil {
		r.Logger.Warn("record run", "err", err)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.History != nil {
		_ = r.History.Close()
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// loadDocument reads the raw bytes and decodes them, honoring an explicit
// format before falling back to detection.
func loadDocument(opts Options) (*document.Document, []byte, document.Format, error) {
	raw := opts.Document
	if len(raw) == 0 {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, nil, "", fmt.Errorf("read %s: %w", opts.Path, err)
		}
		raw = data
	}

	var format document.Format
	if opts.Format != "" {
		f, err := document.ParseFormat(opts.Format)
		if err != nil {
			return nil, nil, "", err
		}
		format = f
	} else {
		format = document.DetectFormat(opts.Path, raw)
	}

	doc, err := document.Decode(raw, format)
	if err != nil {
		return nil, raw, format, err
	}
	return doc, raw, format, nil
}

// fillStats derives counts from the flat serialization so they are
// correct on both the computed and the cached path.
func fillStats(result *Result) {
	fd := &result.FlatDoc
	result.Stats.NodeCount = len(fd.Nodes)
	result.Stats.DiagnosticCount = len(fd.Diagnostics)

	links := 0
	for i := range fd.Nodes {
		for j := range fd.Nodes[i].Inputs {
			in := &fd.Nodes[i].Inputs[j]
			links += len(in.Sources) + len(in.Placeholders)
		}
	}
	result.Stats.LinkCount = links
}

func graphCount(doc *document.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Graphs)
}
