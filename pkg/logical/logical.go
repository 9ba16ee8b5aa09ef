package logical

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrInvalidName is returned when a graph, node or socket name is empty
	// or contains characters reserved by the endpoint syntax.
	ErrInvalidName = errors.New("invalid name")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same name already exists in the graph. Node names must be unique.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrDuplicateSocket is returned when a node declares two sockets of the
	// same direction with the same name, or when a graph declares two
	// interface sockets of the same direction with the same name.
	ErrDuplicateSocket = errors.New("duplicate socket name")

	// ErrUnknownNode is returned when an endpoint names a node that does not
	// exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSocket is returned when an endpoint names a socket that the
	// node (or the graph interface) does not declare in the required
	// direction.
	ErrUnknownSocket = errors.New("unknown socket")
)

// Metadata stores arbitrary key-value pairs attached to nodes or graphs.
// It typically carries authoring information and rendering hints that flow
// through flattening untouched.
type Metadata map[string]any

// Direction distinguishes the two socket kinds.
type Direction int

const (
	// In marks a socket that consumes data.
	In Direction = iota
	// Out marks a socket that produces data.
	Out
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == In {
		return "input"
	}
	return "output"
}

// Graph is a logical node graph definition: an ordered set of named nodes,
// an ordered group interface, and directed data links between endpoints.
//
// Graphs are built once and then treated as read-only. Flattening never
// mutates a Graph, so a single definition can back any number of group
// references, including several within one build.
//
// Node, interface and link order is preserved exactly as added. Consumers
// that promise deterministic output rely on this order.
type Graph struct {
	name    string
	nodes   []*Node
	byName  map[string]*Node
	inputs  []*InterfaceSocket
	outputs []*InterfaceSocket
	inIdx   map[string]*InterfaceSocket
	outIdx  map[string]*InterfaceSocket
	links   []Link
	meta    Metadata
}

// NewGraph creates an empty graph definition with the given name.
// The name identifies the graph to a [Provider]; group nodes reference
// sub-graphs by this name.
func NewGraph(name string) *Graph {
	return &Graph{
		name:   name,
		byName: make(map[string]*Node),
		inIdx:  make(map[string]*InterfaceSocket),
		outIdx: make(map[string]*InterfaceSocket),
		meta:   Metadata{},
	}
}

// Name returns the graph's identity.
func (g *Graph) Name() string { return g.name }

// Meta returns the graph-level metadata map. Never nil.
func (g *Graph) Meta() Metadata { return g.meta }

// NodeSpec describes one node to add to a graph.
type NodeSpec struct {
	// Name is the node's unique identity within its graph.
	Name string
	// Group names the sub-graph this node expands to. Empty for plain nodes.
	Group string
	// Inputs and Outputs declare the node's sockets in order.
	Inputs  []string
	Outputs []string
	// Meta carries optional key-value data (labels, render hints).
	Meta Metadata
}

// Node is one logical node inside a [Graph]. A node is either plain (it
// becomes an instance when flattened) or a group reference (it expands to
// the contents of another graph and itself produces no instance).
type Node struct {
	graph   *Graph
	name    string
	group   string
	inputs  []*SocketDef
	outputs []*SocketDef
	inIdx   map[string]*SocketDef
	outIdx  map[string]*SocketDef
	meta    Metadata
}

// AddNode adds a node to the graph. Returns ErrInvalidName for an unusable
// node or socket name, ErrDuplicateNode if the name is taken, or
// ErrDuplicateSocket if two sockets of the same direction share a name.
func (g *Graph) AddNode(spec NodeSpec) (*Node, error) {
	if err := checkName(spec.Name); err != nil {
		return nil, fmt.Errorf("node %q: %w", spec.Name, err)
	}
	if _, exists := g.byName[spec.Name]; exists {
		return nil, fmt.Errorf("node %q: %w", spec.Name, ErrDuplicateNode)
	}
	meta := spec.Meta
	if meta == nil {
		meta = Metadata{}
	}
	n := &Node{
		graph:  g,
		name:   spec.Name,
		group:  spec.Group,
		inIdx:  make(map[string]*SocketDef),
		outIdx: make(map[string]*SocketDef),
		meta:   meta,
	}
	for i, name := range spec.Inputs {
		if err := checkName(name); err != nil {
			return nil, fmt.Errorf("node %q input %q: %w", spec.Name, name, err)
		}
		if _, dup := n.inIdx[name]; dup {
			return nil, fmt.Errorf("node %q input %q: %w", spec.Name, name, ErrDuplicateSocket)
		}
		s := &SocketDef{node: n, name: name, dir: In, index: i}
		n.inputs = append(n.inputs, s)
		n.inIdx[name] = s
	}
	for i, name := range spec.Outputs {
		if err := checkName(name); err != nil {
			return nil, fmt.Errorf("node %q output %q: %w", spec.Name, name, err)
		}
		if _, dup := n.outIdx[name]; dup {
			return nil, fmt.Errorf("node %q output %q: %w", spec.Name, name, ErrDuplicateSocket)
		}
		s := &SocketDef{node: n, name: name, dir: Out, index: i}
		n.outputs = append(n.outputs, s)
		n.outIdx[name] = s
	}
	g.nodes = append(g.nodes, n)
	g.byName[n.name] = n
	return n, nil
}

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// Name returns the node's identity within its graph.
func (n *Node) Name() string { return n.name }

// IsGroup reports whether the node references a sub-graph.
func (n *Node) IsGroup() bool { return n.group != "" }

// GroupRef returns the referenced sub-graph name, or "" for plain nodes.
func (n *Node) GroupRef() string { return n.group }

// Inputs returns the node's input sockets in declaration order.
// The returned slice is a read-only view.
func (n *Node) Inputs() []*SocketDef { return n.inputs }

// Outputs returns the node's output sockets in declaration order.
// The returned slice is a read-only view.
func (n *Node) Outputs() []*SocketDef { return n.outputs }

// Input returns the input socket with the given name.
func (n *Node) Input(name string) (*SocketDef, bool) {
	s, ok := n.inIdx[name]
	return s, ok
}

// Output returns the output socket with the given name.
func (n *Node) Output(name string) (*SocketDef, bool) {
	s, ok := n.outIdx[name]
	return s, ok
}

// Meta returns the node's metadata map. Never nil.
func (n *Node) Meta() Metadata { return n.meta }

// SocketDef is one declared socket on a node.
type SocketDef struct {
	node  *Node
	name  string
	dir   Direction
	index int
}

// Node returns the owning node.
func (s *SocketDef) Node() *Node { return s.node }

// Name returns the socket name, unique per node and direction.
func (s *SocketDef) Name() string { return s.name }

// Direction reports whether the socket consumes or produces data.
func (s *SocketDef) Direction() Direction { return s.dir }

// Index returns the socket's position among the node's sockets of the
// same direction.
func (s *SocketDef) Index() int { return s.index }

// Ref returns the endpoint reference for this socket ("node.socket").
func (s *SocketDef) Ref() Ref { return Ref{Node: s.node.name, Socket: s.name} }

// InterfaceSocket is one declared socket of a graph's group interface.
// Interface inputs are the values a group receives from its enclosing
// level; interface outputs are the values it exposes back.
type InterfaceSocket struct {
	graph *Graph
	name  string
	dir   Direction
	index int
}

// Graph returns the graph whose interface declares the socket.
func (s *InterfaceSocket) Graph() *Graph { return s.graph }

// Name returns the interface socket name.
func (s *InterfaceSocket) Name() string { return s.name }

// Direction reports whether the socket is an interface input or output.
func (s *InterfaceSocket) Direction() Direction { return s.dir }

// Index returns the socket's position among interface sockets of the same
// direction.
func (s *InterfaceSocket) Index() int { return s.index }

// Ref returns the endpoint reference for this socket ("$socket").
func (s *InterfaceSocket) Ref() Ref { return Ref{Iface: s.name} }

// AddGroupInput declares an interface input on the graph.
func (g *Graph) AddGroupInput(name string) (*InterfaceSocket, error) {
	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("group input %q: %w", name, err)
	}
	if _, dup := g.inIdx[name]; dup {
		return nil, fmt.Errorf("group input %q: %w", name, ErrDuplicateSocket)
	}
	s := &InterfaceSocket{graph: g, name: name, dir: In, index: len(g.inputs)}
	g.inputs = append(g.inputs, s)
	g.inIdx[name] = s
	return s, nil
}

// AddGroupOutput declares an interface output on the graph.
func (g *Graph) AddGroupOutput(name string) (*InterfaceSocket, error) {
	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("group output %q: %w", name, err)
	}
	if _, dup := g.outIdx[name]; dup {
		return nil, fmt.Errorf("group output %q: %w", name, ErrDuplicateSocket)
	}
	s := &InterfaceSocket{graph: g, name: name, dir: Out, index: len(g.outputs)}
	g.outputs = append(g.outputs, s)
	g.outIdx[name] = s
	return s, nil
}

// Link records a directed data link from one endpoint reference to another.
// The source must be output-capable when resolved (a node output or an
// interface input) and the destination input-capable (a node input or an
// interface output).
//
// Link only checks reference syntax. Whether the endpoints exist is decided
// when the link is resolved during flattening, so stale links survive
// loading and are reported as diagnostics rather than hard failures.
func (g *Graph) Link(from, to string) error {
	src, err := ParseRef(from)
	if err != nil {
		return fmt.Errorf("link source %q: %w", from, err)
	}
	dst, err := ParseRef(to)
	if err != nil {
		return fmt.Errorf("link destination %q: %w", to, err)
	}
	g.links = append(g.links, Link{From: src, To: dst})
	return nil
}

// Nodes returns all nodes in the order they were added.
// The returned slice is a read-only view.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Links returns all links in the order they were added.
// The returned slice is a read-only view.
func (g *Graph) Links() []Link { return g.links }

// GroupInputs returns the interface inputs in declaration order.
func (g *Graph) GroupInputs() []*InterfaceSocket { return g.inputs }

// GroupOutputs returns the interface outputs in declaration order.
func (g *Graph) GroupOutputs() []*InterfaceSocket { return g.outputs }

// GroupInput returns the interface input with the given name.
func (g *Graph) GroupInput(name string) (*InterfaceSocket, bool) {
	s, ok := g.inIdx[name]
	return s, ok
}

// GroupOutput returns the interface output with the given name.
func (g *Graph) GroupOutput(name string) (*InterfaceSocket, bool) {
	s, ok := g.outIdx[name]
	return s, ok
}

// Endpoint is a resolved link endpoint: exactly one of Socket or Interface
// is non-nil.
type Endpoint struct {
	// Socket is set for node endpoints.
	Socket *SocketDef
	// Interface is set for graph interface endpoints.
	Interface *InterfaceSocket
}

// IsInterface reports whether the endpoint is a graph interface socket.
func (e Endpoint) IsInterface() bool { return e.Interface != nil }

// Source resolves r as a data source within the graph: a node output
// socket, or an interface input. Returns ErrUnknownNode or ErrUnknownSocket
// (wrapped with the offending reference) when the endpoint does not exist
// or has the wrong direction.
func (g *Graph) Source(r Ref) (Endpoint, error) {
	if r.IsInterface() {
		s, ok := g.inIdx[r.Iface]
		if !ok {
			return Endpoint{}, fmt.Errorf("source %s: %w", r, ErrUnknownSocket)
		}
		return Endpoint{Interface: s}, nil
	}
	n, ok := g.byName[r.Node]
	if !ok {
		return Endpoint{}, fmt.Errorf("source %s: %w", r, ErrUnknownNode)
	}
	s, ok := n.outIdx[r.Socket]
	if !ok {
		return Endpoint{}, fmt.Errorf("source %s: %w", r, ErrUnknownSocket)
	}
	return Endpoint{Socket: s}, nil
}

// Dest resolves r as a data destination within the graph: a node input
// socket, or an interface output. Returns ErrUnknownNode or
// ErrUnknownSocket (wrapped with the offending reference) when the endpoint
// does not exist or has the wrong direction.
func (g *Graph) Dest(r Ref) (Endpoint, error) {
	if r.IsInterface() {
		s, ok := g.outIdx[r.Iface]
		if !ok {
			return Endpoint{}, fmt.Errorf("destination %s: %w", r, ErrUnknownSocket)
		}
		return Endpoint{Interface: s}, nil
	}
	n, ok := g.byName[r.Node]
	if !ok {
		return Endpoint{}, fmt.Errorf("destination %s: %w", r, ErrUnknownNode)
	}
	s, ok := n.inIdx[r.Socket]
	if !ok {
		return Endpoint{}, fmt.Errorf("destination %s: %w", r, ErrUnknownSocket)
	}
	return Endpoint{Socket: s}, nil
}

// checkName rejects names that are empty, contain control characters, or
// collide with the endpoint reference syntax ('.', '$', whitespace).
func checkName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ErrInvalidName
		}
		if r == '.' || r == '$' {
			return ErrInvalidName
		}
	}
	return nil
}
