package inline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

// Option configures a [Flatten] call.
type Option func(*flattener)

// WithLogger attaches a logger. Flattening logs per-instance progress at
// debug level and every collected diagnostic at warn level. Without this
// option nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(f *flattener) { f.logger = logger }
}

// WithMaxDepth limits how deep group expansions may nest. Zero, the
// default, means unlimited: cyclic references are caught regardless, so a
// limit is only needed to bound providers that synthesize graphs on the
// fly. Exceeding the limit aborts the build with [ErrMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(f *flattener) { f.maxDepth = depth }
}

// Flatten recursively expands every group reference of root into a single
// flat instance graph. Group references are resolved through provider;
// a nil provider is valid for graphs without group nodes.
//
// Plain nodes become instances in definition order, group contents inlined
// at the position of their group node. Group nodes themselves produce no
// instances. After all instances exist, every input socket is resolved
// across group boundaries: it ends up connected to its producing output
// sockets and to one group-input placeholder per boundary crossed.
//
// Cyclic group references abort the build with a [*CycleError] and no
// partial graph. Stale links and interface mismatches do not abort; they
// are skipped and reported through [Graph.Diagnostics].
//
// Flatten itself is single-threaded. Concurrent calls are safe as long as
// the provider is, even for the same root.
func Flatten(root *logical.Graph, provider logical.Provider, opts ...Option) (*Graph, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	f := &flattener{
		graph:    newGraph(root),
		provider: provider,
		logger:   log.New(io.Discard),
		memo:     make(map[placeholderKey]*GroupInput),
	}
	for _, opt := range opts {
		opt(f)
	}

	top, err := f.expand(root, nil, nil)
	if err != nil {
		return nil, err
	}
	f.resolveLevel(top)

	f.logger.Debug("flatten complete",
		"root", root.Name(),
		"nodes", f.graph.NodeCount(),
		"sockets", f.graph.SocketCount(),
		"placeholders", len(f.graph.groupInputs),
		"diagnostics", len(f.graph.diags))
	return f.graph, nil
}

// flattener drives one build. It is discarded when Flatten returns; only
// the graph survives.
type flattener struct {
	graph    *Graph
	provider logical.Provider
	logger   *log.Logger
	maxDepth int

	// active is the stack of graphs currently being expanded, used to
	// detect cyclic group references.
	active []*logical.Graph

	// memo holds the one placeholder per (frame, interface input) pair.
	memo map[placeholderKey]*GroupInput
}

type placeholderKey struct {
	frame *ParentFrame
	input *logical.InterfaceSocket
}

// level is one expanded graph: the root graph at the top, or a group's
// contents under the frame pushed for it. Levels index everything the
// resolver needs to walk link chains up and down the frame tree.
type level struct {
	tree   *logical.Graph
	frame  *ParentFrame
	parent *level

	// nodes holds this level's plain-node instances by logical name.
	nodes map[string]*Node
	// groups holds the expanded sub-level per group node name.
	groups map[string]*level
	// into indexes this level's valid links by node-input destination;
	// intoOut by interface-output destination. Dangling links are
	// diagnosed while indexing and excluded.
	into    map[*logical.SocketDef][]logical.Endpoint
	intoOut map[*logical.InterfaceSocket][]logical.Endpoint
}

// expand instantiates tree and, recursively, every group it references.
// Link resolution is deferred until the whole level tree exists so that
// forward references, sibling groups included, resolve the same way
// regardless of definition order.
func (f *flattener) expand(tree *logical.Graph, frame *ParentFrame, parent *level) (*level, error) {
	for _, a := range f.active {
		if a == tree {
			return nil, f.cycleError(tree)
		}
	}
	if f.maxDepth > 0 && len(f.active) > f.maxDepth {
		return nil, fmt.Errorf("graph %q nested %d deep: %w", tree.Name(), len(f.active), ErrMaxDepth)
	}
	f.active = append(f.active, tree)
	defer func() { f.active = f.active[:len(f.active)-1] }()

	lv := &level{
		tree:    tree,
		frame:   frame,
		parent:  parent,
		nodes:   make(map[string]*Node),
		groups:  make(map[string]*level),
		into:    make(map[*logical.SocketDef][]logical.Endpoint),
		intoOut: make(map[*logical.InterfaceSocket][]logical.Endpoint),
	}
	f.indexLinks(lv)

	for _, ln := range tree.Nodes() {
		if ln.IsGroup() {
			if err := f.expandGroup(lv, ln); err != nil {
				return nil, err
			}
			continue
		}
		f.instantiate(lv, ln)
	}
	return lv, nil
}

// instantiate creates the instance for one plain node with one socket
// instance per declared socket, inputs first.
func (f *flattener) instantiate(lv *level, ln *logical.Node) {
	n := f.graph.addNode(ln, lv.frame)
	for _, sd := range ln.Inputs() {
		f.graph.addInputSocket(n, sd)
	}
	for _, sd := range ln.Outputs() {
		f.graph.addOutputSocket(n, sd)
	}
	lv.nodes[ln.Name()] = n
	f.logger.Debug("instantiated node", "node", n.Path(), "id", n.ID())
}

// expandGroup resolves a group node's referenced graph, pushes a frame and
// expands the contents under it.
func (f *flattener) expandGroup(lv *level, gn *logical.Node) error {
	sub, err := f.resolveGroup(lv, gn)
	if err != nil {
		return err
	}
	f.checkInterface(lv, gn, sub)
	frame := f.graph.addFrame(gn, lv.frame)
	child, err := f.expand(sub, frame, lv)
	if err != nil {
		return err
	}
	lv.groups[gn.Name()] = child
	f.logger.Debug("expanded group", "node", gn.Name(), "graph", sub.Name(), "frame", frame.Path())
	return nil
}

func (f *flattener) resolveGroup(lv *level, gn *logical.Node) (*logical.Graph, error) {
	if f.provider == nil {
		return nil, fmt.Errorf("group node %q references %q: %w", gn.Name(), gn.GroupRef(), ErrNoProvider)
	}
	sub, err := f.provider.Resolve(gn.GroupRef())
	if err != nil {
		where := lv.frame.Path()
		if where == "" {
			where = "root"
		}
		return nil, fmt.Errorf("group node %q at %s: resolve %q: %w",
			gn.Name(), where, gn.GroupRef(), err)
	}
	return sub, nil
}

// checkInterface diagnoses group node sockets with no counterpart in the
// referenced graph's interface. Such sockets stay legal but any link
// through them carries no data, which is worth a warning.
func (f *flattener) checkInterface(lv *level, gn *logical.Node, sub *logical.Graph) {
	for _, s := range gn.Inputs() {
		if _, ok := sub.GroupInput(s.Name()); !ok {
			f.diagnose(Diagnostic{
				Code:   DiagInterfaceMismatch,
				Graph:  lv.tree.Name(),
				Frame:  lv.frame.Path(),
				Detail: fmt.Sprintf("group node %q input %q has no group input in %q", gn.Name(), s.Name(), sub.Name()),
			})
		}
	}
	for _, s := range gn.Outputs() {
		if _, ok := sub.GroupOutput(s.Name()); !ok {
			f.diagnose(Diagnostic{
				Code:   DiagInterfaceMismatch,
				Graph:  lv.tree.Name(),
				Frame:  lv.frame.Path(),
				Detail: fmt.Sprintf("group node %q output %q has no group output in %q", gn.Name(), s.Name(), sub.Name()),
			})
		}
	}
}

// indexLinks resolves both ends of every link of the level's graph and
// indexes the valid ones by destination. Links that do not resolve are
// diagnosed and dropped from the build, never failing it.
func (f *flattener) indexLinks(lv *level) {
	for _, l := range lv.tree.Links() {
		src, err := lv.tree.Source(l.From)
		if err != nil {
			f.diagnoseLink(lv, l, err)
			continue
		}
		dst, err := lv.tree.Dest(l.To)
		if err != nil {
			f.diagnoseLink(lv, l, err)
			continue
		}
		if dst.Socket != nil {
			lv.into[dst.Socket] = append(lv.into[dst.Socket], src)
		} else {
			lv.intoOut[dst.Interface] = append(lv.intoOut[dst.Interface], src)
		}
	}
}

func (f *flattener) diagnoseLink(lv *level, l logical.Link, err error) {
	f.diagnose(Diagnostic{
		Code:   DiagDanglingLink,
		Graph:  lv.tree.Name(),
		Frame:  lv.frame.Path(),
		Link:   l.String(),
		Detail: err.Error(),
	})
}

func (f *flattener) diagnose(d Diagnostic) {
	f.graph.diags = append(f.graph.diags, d)
	f.logger.Warn("flatten diagnostic", "code", d.Code, "detail", d.String())
}

func (f *flattener) cycleError(repeat *logical.Graph) *CycleError {
	path := make([]string, 0, len(f.active)+1)
	for _, t := range f.active {
		path = append(path, t.Name())
	}
	path = append(path, repeat.Name())
	return &CycleError{Graph: repeat.Name(), Path: path}
}
