package inline

import "fmt"

// DiagnosticCode classifies a non-fatal problem found while flattening.
type DiagnosticCode string

const (
	// DiagDanglingLink marks a logical link whose source or destination
	// does not resolve, typically stale data after a graph was edited.
	// The link is skipped and carries no data in the flattened graph.
	DiagDanglingLink DiagnosticCode = "DANGLING_LINK"

	// DiagInterfaceMismatch marks a group node socket with no matching
	// interface socket in the referenced graph. Links through the socket
	// carry no data across the boundary.
	DiagInterfaceMismatch DiagnosticCode = "INTERFACE_MISMATCH"
)

// Diagnostic records one non-fatal problem found while flattening. The
// flattened graph remains usable; affected links simply carry no data.
type Diagnostic struct {
	// Code classifies the problem.
	Code DiagnosticCode `json:"code"`
	// Graph names the logical graph the problem sits in.
	Graph string `json:"graph"`
	// Frame is the frame path of the expansion that found the problem,
	// empty at the root level. A graph expanded several times reports
	// once per expansion.
	Frame string `json:"frame,omitempty"`
	// Link renders the offending link ("a.out -> ghost.in") when the
	// problem concerns one.
	Link string `json:"link,omitempty"`
	// Detail is the human-readable explanation.
	Detail string `json:"detail"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	loc := d.Graph
	if d.Frame != "" {
		loc += " (at " + d.Frame + ")"
	}
	if d.Link != "" {
		return fmt.Sprintf("%s: %s: %s: %s", d.Code, loc, d.Link, d.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", d.Code, loc, d.Detail)
}
