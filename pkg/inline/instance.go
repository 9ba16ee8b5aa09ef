package inline

import (
	"strconv"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

// NodeID identifies a [Node] within one flattened graph. IDs are dense:
// they run from 0 to Graph.NodeCount()-1 in instantiation order.
type NodeID int

// SocketID identifies a socket within one flattened graph. Input and output
// sockets share a single ID space, so a SocketID alone is enough to address
// any socket through [Graph.Socket].
type SocketID int

// GroupInputID identifies a [GroupInput] within one flattened graph.
type GroupInputID int

// FrameID identifies a [ParentFrame] within one flattened graph.
type FrameID int

// Node is one node instance in a flattened graph. Every plain logical node
// reached during expansion produces exactly one Node per expansion path;
// group nodes produce none.
type Node struct {
	id      NodeID
	def     *logical.Node
	frame   *ParentFrame
	inputs  []*InputSocket
	outputs []*OutputSocket
}

// ID returns the node's dense identifier.
func (n *Node) ID() NodeID { return n.id }

// Def returns the logical node this instance was created from.
func (n *Node) Def() *logical.Node { return n.def }

// Frame returns the parent frame the instance lives under, or nil for
// nodes of the root graph.
func (n *Node) Frame() *ParentFrame { return n.frame }

// Inputs returns the node's input socket instances in declaration order.
// The returned slice is a read-only view.
func (n *Node) Inputs() []*InputSocket { return n.inputs }

// Outputs returns the node's output socket instances in declaration order.
// The returned slice is a read-only view.
func (n *Node) Outputs() []*OutputSocket { return n.outputs }

// Input returns the input socket instance at the given declaration index.
// Panics if the index is out of range.
func (n *Node) Input(i int) *InputSocket { return n.inputs[i] }

// Output returns the output socket instance at the given declaration index.
// Panics if the index is out of range.
func (n *Node) Output(i int) *OutputSocket { return n.outputs[i] }

// InputNamed returns the input socket instance with the given name.
func (n *Node) InputNamed(name string) (*InputSocket, bool) {
	for _, s := range n.inputs {
		if s.def.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// OutputNamed returns the output socket instance with the given name.
func (n *Node) OutputNamed(name string) (*OutputSocket, bool) {
	for _, s := range n.outputs {
		if s.def.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Path returns the instance's frame path joined with its node name, e.g.
// "g1/g2/filter". Instances of the root graph return just the node name.
// Paths identify instances uniquely as long as node names are unique per
// graph, which [logical.Graph.AddNode] enforces.
func (n *Node) Path() string {
	if n.frame == nil {
		return n.def.Name()
	}
	return n.frame.Path() + "/" + n.def.Name()
}

// String returns the node path.
func (n *Node) String() string { return n.Path() }

// Socket is the common view over [InputSocket] and [OutputSocket]. The two
// kinds share one dense ID space, so [Graph.Socket] returns this interface
// and callers type-switch when the direction matters.
type Socket interface {
	// ID returns the socket's dense identifier, unique across both kinds.
	ID() SocketID
	// Node returns the owning node instance.
	Node() *Node
	// Def returns the logical socket this instance was created from.
	Def() *logical.SocketDef
	// String returns "path.socket" for diagnostics and DOT labels.
	String() string
}

// InputSocket is a data-consuming socket instance. After flattening it
// holds the fully resolved cross-boundary connections: the producing
// output sockets and every group-input placeholder its links traversed.
type InputSocket struct {
	id          SocketID
	node        *Node
	def         *logical.SocketDef
	sources     []*OutputSocket
	groupInputs []*GroupInput
}

// ID returns the socket's dense identifier.
func (s *InputSocket) ID() SocketID { return s.id }

// Node returns the owning node instance.
func (s *InputSocket) Node() *Node { return s.node }

// Def returns the logical socket this instance was created from.
func (s *InputSocket) Def() *logical.SocketDef { return s.def }

// Sources returns the output sockets feeding this input, in resolution
// order. Empty when the input is unconnected or all its chains end at an
// open group boundary. The returned slice is a read-only view.
func (s *InputSocket) Sources() []*OutputSocket { return s.sources }

// GroupInputs returns every group-input placeholder the input's links
// crossed, innermost boundary first. The returned slice is a read-only
// view.
func (s *InputSocket) GroupInputs() []*GroupInput { return s.groupInputs }

// IsLinked reports whether the input is connected to anything at all,
// counting open boundary chains.
func (s *InputSocket) IsLinked() bool {
	return len(s.sources) > 0 || len(s.groupInputs) > 0
}

// String returns "path.socket".
func (s *InputSocket) String() string { return s.node.Path() + "." + s.def.Name() }

// OutputSocket is a data-producing socket instance. After flattening it
// holds the input sockets that read from it, across all group boundaries.
type OutputSocket struct {
	id      SocketID
	node    *Node
	def     *logical.SocketDef
	targets []*InputSocket
}

// ID returns the socket's dense identifier.
func (s *OutputSocket) ID() SocketID { return s.id }

// Node returns the owning node instance.
func (s *OutputSocket) Node() *Node { return s.node }

// Def returns the logical socket this instance was created from.
func (s *OutputSocket) Def() *logical.SocketDef { return s.def }

// Targets returns the input sockets reading from this output, in
// resolution order. The returned slice is a read-only view.
func (s *OutputSocket) Targets() []*InputSocket { return s.targets }

// String returns "path.socket".
func (s *OutputSocket) String() string { return s.node.Path() + "." + s.def.Name() }

// GroupInput is the placeholder created when a link chain crosses a group
// boundary: it stands for one interface input of one group expansion.
// Exactly one placeholder exists per (frame, interface input) pair, however
// many readers reach it.
//
// A placeholder whose frame is nil represents an interface input of the
// root graph itself, which happens when a group definition is flattened
// directly.
type GroupInput struct {
	id      GroupInputID
	def     *logical.InterfaceSocket
	frame   *ParentFrame
	targets []*InputSocket
}

// ID returns the placeholder's dense identifier.
func (g *GroupInput) ID() GroupInputID { return g.id }

// Def returns the interface input the placeholder stands for.
func (g *GroupInput) Def() *logical.InterfaceSocket { return g.def }

// Frame returns the group expansion the placeholder is scoped to, or nil
// for interface inputs of the root graph.
func (g *GroupInput) Frame() *ParentFrame { return g.frame }

// Targets returns the input sockets whose chains crossed this boundary, in
// resolution order. The returned slice is a read-only view.
func (g *GroupInput) Targets() []*InputSocket { return g.targets }

// String returns "path.$socket", e.g. "g1/g2.$image".
func (g *GroupInput) String() string {
	if g.frame == nil {
		return "$" + g.def.Name()
	}
	return g.frame.Path() + ".$" + g.def.Name()
}

// ParentFrame marks one group expansion. Every instance created while
// expanding a group node carries the frame pushed for that node; frames
// chain upward through [ParentFrame.Parent] and form a forest whose roots
// are the groups referenced directly by the root graph.
type ParentFrame struct {
	id     FrameID
	def    *logical.Node
	parent *ParentFrame
}

// ID returns the frame's dense identifier.
func (f *ParentFrame) ID() FrameID { return f.id }

// Def returns the group node whose expansion the frame marks.
func (f *ParentFrame) Def() *logical.Node { return f.def }

// Parent returns the enclosing frame, or nil for groups expanded directly
// under the root graph.
func (f *ParentFrame) Parent() *ParentFrame { return f.parent }

// Path returns the chain of group node names from the outermost frame down
// to this one, e.g. "g1/g2". A nil frame returns "".
func (f *ParentFrame) Path() string {
	if f == nil {
		return ""
	}
	if f.parent == nil {
		return f.def.Name()
	}
	return f.parent.Path() + "/" + f.def.Name()
}

// Depth returns the number of frames above this one plus one. A frame
// directly under the root has depth 1.
func (f *ParentFrame) Depth() int {
	if f == nil {
		return 0
	}
	return f.parent.Depth() + 1
}

// String returns the frame path and ID, e.g. "g1/g2#1".
func (f *ParentFrame) String() string {
	return f.Path() + "#" + strconv.Itoa(int(f.id))
}
