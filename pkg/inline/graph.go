package inline

import (
	"github.com/matzehuels/flatgraph/pkg/logical"
)

// Graph is a flattened instance graph: the result of recursively expanding
// every group reference of a root logical graph. It owns all instances it
// contains and hands out dense IDs per entity kind.
//
// A Graph is immutable once [Flatten] returns. Instances never move
// between graphs and are discarded together with their graph.
//
// All lookup methods panic when given an ID that this graph never issued;
// an invalid ID is a programming error, not an input error.
type Graph struct {
	root        *logical.Graph
	nodes       []*Node
	sockets     []Socket
	inputs      []*InputSocket
	outputs     []*OutputSocket
	groupInputs []*GroupInput
	frames      []*ParentFrame
	diags       []Diagnostic
}

func newGraph(root *logical.Graph) *Graph {
	return &Graph{root: root}
}

// Root returns the logical graph the flattening started from.
func (g *Graph) Root() *logical.Graph { return g.root }

// Nodes returns all node instances in instantiation order, which follows
// the logical definition order with group contents inlined at the position
// of their group node. The returned slice is a read-only view.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the instance with the given ID. Panics on invalid IDs.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// NodeCount returns the number of node instances.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Sockets returns all socket instances of both kinds in registration
// order. The returned slice is a read-only view.
func (g *Graph) Sockets() []Socket { return g.sockets }

// Socket returns the socket with the given ID, of either kind. Panics on
// invalid IDs.
func (g *Graph) Socket(id SocketID) Socket { return g.sockets[id] }

// SocketCount returns the number of socket instances of both kinds.
func (g *Graph) SocketCount() int { return len(g.sockets) }

// InputSockets returns all input socket instances in registration order.
// The returned slice is a read-only view.
func (g *Graph) InputSockets() []*InputSocket { return g.inputs }

// OutputSockets returns all output socket instances in registration order.
// The returned slice is a read-only view.
func (g *Graph) OutputSockets() []*OutputSocket { return g.outputs }

// GroupInputs returns all group-input placeholders in creation order.
// The returned slice is a read-only view.
func (g *Graph) GroupInputs() []*GroupInput { return g.groupInputs }

// GroupInput returns the placeholder with the given ID. Panics on invalid
// IDs.
func (g *Graph) GroupInput(id GroupInputID) *GroupInput { return g.groupInputs[id] }

// Frames returns all parent frames in creation order. The returned slice
// is a read-only view.
func (g *Graph) Frames() []*ParentFrame { return g.frames }

// Frame returns the frame with the given ID. Panics on invalid IDs.
func (g *Graph) Frame(id FrameID) *ParentFrame { return g.frames[id] }

// Diagnostics returns the non-fatal problems collected while flattening,
// in the order they were found. The returned slice is a read-only view.
func (g *Graph) Diagnostics() []Diagnostic { return g.diags }

// Instance construction is private to the package: only the expansion
// engine creates instances, and only between the start and end of one
// Flatten call.

func (g *Graph) addNode(def *logical.Node, frame *ParentFrame) *Node {
	n := &Node{id: NodeID(len(g.nodes)), def: def, frame: frame}
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) addInputSocket(n *Node, def *logical.SocketDef) *InputSocket {
	s := &InputSocket{id: SocketID(len(g.sockets)), node: n, def: def}
	g.sockets = append(g.sockets, s)
	g.inputs = append(g.inputs, s)
	n.inputs = append(n.inputs, s)
	return s
}

func (g *Graph) addOutputSocket(n *Node, def *logical.SocketDef) *OutputSocket {
	s := &OutputSocket{id: SocketID(len(g.sockets)), node: n, def: def}
	g.sockets = append(g.sockets, s)
	g.outputs = append(g.outputs, s)
	n.outputs = append(n.outputs, s)
	return s
}

func (g *Graph) addGroupInput(def *logical.InterfaceSocket, frame *ParentFrame) *GroupInput {
	gi := &GroupInput{id: GroupInputID(len(g.groupInputs)), def: def, frame: frame}
	g.groupInputs = append(g.groupInputs, gi)
	return gi
}

func (g *Graph) addFrame(def *logical.Node, parent *ParentFrame) *ParentFrame {
	f := &ParentFrame{id: FrameID(len(g.frames)), def: def, parent: parent}
	g.frames = append(g.frames, f)
	return f
}
