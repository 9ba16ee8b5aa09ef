package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/flatgraph/pkg/document"
	"github.com/matzehuels/flatgraph/pkg/logical"
	"github.com/matzehuels/flatgraph/pkg/store"
)

// storeProvider resolves group references against stored documents, so a
// served document can use graphs it does not define itself. A reference
// "name" loads the stored document "name" and yields the graph "name"
// inside it when defined, its default graph otherwise. Every graph of a
// loaded document joins the namespace, so sibling references inside
// multi-graph documents resolve without one stored document per graph.
//
// Resolution is memoized, first load wins on name collisions. One
// provider serves one request: the same name always yields the same
// *logical.Graph within a flatten, which cycle detection relies on.
type storeProvider struct {
	ctx   context.Context
	store store.Store
	memo  map[string]*logical.Graph
}

// storeProvider builds the per-request provider for group references
// into stored documents.
func (s *Server) storeProvider(ctx context.Context) logical.Provider {
	return &storeProvider{
		ctx:   ctx,
		store: s.store,
		memo:  make(map[string]*logical.Graph),
	}
}

func (p *storeProvider) Resolve(name string) (*logical.Graph, error) {
	if g, ok := p.memo[name]; ok {
		return g, nil
	}

	data, err := p.store.Get(p.ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no stored document %q: %w", name, logical.ErrUnknownGraph)
	}
	if err != nil {
		return nil, fmt.Errorf("load stored document %q: %w", name, err)
	}

	doc, err := document.Decode(data, document.DetectFormat(name, data))
	if err != nil {
		return nil, fmt.Errorf("stored document %q: %w", name, err)
	}
	lib, err := doc.Library()
	if err != nil {
		return nil, fmt.Errorf("stored document %q: %w", name, err)
	}
	for _, g := range lib.Graphs() {
		if _, ok := p.memo[g.Name()]; !ok {
			p.memo[g.Name()] = g
		}
	}

	if g, ok := p.memo[name]; ok {
		return g, nil
	}
	def := doc.DefaultGraph()
	if def == "" {
		return nil, fmt.Errorf("stored document %q has no graphs: %w", name, logical.ErrUnknownGraph)
	}
	g, err := lib.Resolve(def)
	if err != nil {
		return nil, err
	}
	p.memo[name] = g
	return g, nil
}

var _ logical.Provider = (*storeProvider)(nil)
