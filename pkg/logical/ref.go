package logical

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRef is returned by [ParseRef] when a reference string does not
// follow the endpoint syntax.
var ErrInvalidRef = errors.New("invalid endpoint reference")

// Ref is an unresolved endpoint reference. A node endpoint sets Node and
// Socket; an interface endpoint sets Iface. References are resolved against
// a graph with [Graph.Source] and [Graph.Dest] during flattening, which is
// what allows stale references to exist in loaded data without aborting.
type Ref struct {
	Node   string // node name, empty for interface refs
	Socket string // socket name on Node
	Iface  string // interface socket name, set when Node is empty
}

// ParseRef parses an endpoint reference string.
//
// Two forms exist:
//
//	node.socket   a socket on a node
//	$socket       a socket of the enclosing graph's interface
//
// Whether an interface reference means an input or an output depends on the
// position it is used in: as a link source it names an interface input, as
// a link destination an interface output.
func ParseRef(s string) (Ref, error) {
	if s == "" {
		return Ref{}, ErrInvalidRef
	}
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		if err := checkName(rest); err != nil {
			return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
		}
		return Ref{Iface: rest}, nil
	}
	node, socket, ok := strings.Cut(s, ".")
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q (want node.socket or $socket)", ErrInvalidRef, s)
	}
	if checkName(node) != nil || checkName(socket) != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	return Ref{Node: node, Socket: socket}, nil
}

// IsInterface reports whether the reference names an interface socket.
func (r Ref) IsInterface() bool { return r.Node == "" }

// String renders the reference in endpoint syntax.
func (r Ref) String() string {
	if r.IsInterface() {
		return "$" + r.Iface
	}
	return r.Node + "." + r.Socket
}

// Link is a directed data link between two endpoint references.
type Link struct {
	From Ref
	To   Ref
}

// String renders the link as "from -> to".
func (l Link) String() string {
	return l.From.String() + " -> " + l.To.String()
}
