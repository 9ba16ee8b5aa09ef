package logical

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownGraph is returned by providers when no graph with the
	// requested name exists.
	ErrUnknownGraph = errors.New("unknown graph")

	// ErrDuplicateGraph is returned by [Library.Add] when a graph with the
	// same name is already registered.
	ErrDuplicateGraph = errors.New("duplicate graph name")

	// ErrCyclicReference is returned by [Library.Validate] when group
	// references form a cycle. A graph that reaches itself through any chain
	// of group nodes can never be expanded.
	ErrCyclicReference = errors.New("cyclic group reference")
)

// Provider resolves group references to graph definitions. Implementations
// must be pure: repeated calls with the same name return the same
// definition for the lifetime of a build.
type Provider interface {
	Resolve(name string) (*Graph, error)
}

// Chain combines providers into one. Resolve asks each in order and
// moves on only for [ErrUnknownGraph], so earlier providers shadow later
// ones and a real failure stops the chain. Chaining pure providers
// yields a pure provider.
func Chain(providers ...Provider) Provider {
	return chainProvider(providers)
}

type chainProvider []Provider

func (c chainProvider) Resolve(name string) (*Graph, error) {
	var err error
	for _, p := range c {
		var g *Graph
		g, err = p.Resolve(name)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, ErrUnknownGraph) {
			return nil, err
		}
	}
	if err == nil {
		err = fmt.Errorf("graph %q: %w", name, ErrUnknownGraph)
	}
	return nil, err
}

// Library is an in-memory [Provider] holding a set of graph definitions,
// typically every graph of one loaded document. Registration order is
// preserved for iteration.
//
// Library is safe for concurrent reads once fully populated. Add must not
// race with Resolve.
type Library struct {
	graphs map[string]*Graph
	order  []string
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{graphs: make(map[string]*Graph)}
}

// Add registers a graph under its name. Returns ErrDuplicateGraph if the
// name is taken.
func (l *Library) Add(g *Graph) error {
	if err := checkName(g.Name()); err != nil {
		return fmt.Errorf("graph %q: %w", g.Name(), err)
	}
	if _, exists := l.graphs[g.Name()]; exists {
		return fmt.Errorf("graph %q: %w", g.Name(), ErrDuplicateGraph)
	}
	l.graphs[g.Name()] = g
	l.order = append(l.order, g.Name())
	return nil
}

// Resolve returns the graph registered under name, or ErrUnknownGraph.
func (l *Library) Resolve(name string) (*Graph, error) {
	g, ok := l.graphs[name]
	if !ok {
		return nil, fmt.Errorf("graph %q: %w", name, ErrUnknownGraph)
	}
	return g, nil
}

// Graphs returns all registered graphs in registration order.
func (l *Library) Graphs() []*Graph {
	out := make([]*Graph, len(l.order))
	for i, name := range l.order {
		out[i] = l.graphs[name]
	}
	return out
}

// Names returns the registered graph names in registration order.
// The returned slice is a read-only view.
func (l *Library) Names() []string { return l.order }

// Validate checks the library's group references as a whole and returns
// nil if every graph can be expanded:
//
//  1. Every group node references a graph registered in the library.
//  2. The reference digraph between graphs is acyclic.
//
// Cycle detection runs in O(N+E) time using depth-first search with
// white/gray/black coloring. A returned cycle error names the reference
// chain, e.g. "main -> blur -> main".
//
// Flattening performs the same checks lazily for the graphs it actually
// visits; Validate is for failing fast right after loading.
func (l *Library) Validate() error {
	for _, name := range l.order {
		for _, n := range l.graphs[name].Nodes() {
			if !n.IsGroup() {
				continue
			}
			if _, ok := l.graphs[n.GroupRef()]; !ok {
				return fmt.Errorf("graph %q node %q references graph %q: %w",
					name, n.Name(), n.GroupRef(), ErrUnknownGraph)
			}
		}
	}
	return l.detectCycles()
}

func (l *Library) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(l.graphs))
	var cycle []string

	var dfs func(name string, path []string)
	dfs = func(name string, path []string) {
		color[name] = gray
		path = append(path, name)
		for _, ref := range l.references(name) {
			switch color[ref] {
			case white:
				dfs(ref, path)
			case gray:
				if cycle == nil {
					cycle = append(append([]string{}, path...), ref)
				}
			}
			if cycle != nil {
				return
			}
		}
		color[name] = black
	}

	for _, name := range l.order {
		if color[name] == white {
			dfs(name, nil)
			if cycle != nil {
				return fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(cycle, " -> "))
			}
		}
	}
	return nil
}

// references returns the distinct graph names referenced by group nodes of
// the named graph, in first-reference order.
func (l *Library) references(name string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, n := range l.graphs[name].Nodes() {
		if n.IsGroup() && !seen[n.GroupRef()] {
			seen[n.GroupRef()] = true
			refs = append(refs, n.GroupRef())
		}
	}
	return refs
}
