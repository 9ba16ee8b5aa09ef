package document

// =============================================================================
// Document - Graph Definition Serialization
// =============================================================================

// Document is the canonical serialization format for logical graph
// definitions. One document holds one or more named graphs; group nodes
// reference other graphs in the same document by name (or, when a store
// is configured, graphs from other stored documents).
//
// The format is human-readable and identical in JSON and YAML; HCL uses
// blocks instead of arrays but decodes to the same structure.
type Document struct {
	Graphs []GraphDef `json:"graphs" yaml:"graphs"`
}

// GraphDef defines one logical graph.
type GraphDef struct {
	Name string `json:"name" yaml:"name"`

	// GroupInputs and GroupOutputs declare the graph's group interface in
	// order. A graph without either can still be flattened as a root but
	// exposes nothing when used as a group.
	GroupInputs  []string `json:"group_inputs,omitempty" yaml:"group_inputs,omitempty"`
	GroupOutputs []string `json:"group_outputs,omitempty" yaml:"group_outputs,omitempty"`

	Nodes []NodeDef `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Links []LinkDef `json:"links,omitempty" yaml:"links,omitempty"`

	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// NodeDef defines one node. A node with a non-empty Group is a group
// reference and must declare sockets matching the referenced graph's
// interface. Meta carries arbitrary key-value data, including rendering
// hints (label, fill, color).
type NodeDef struct {
	Name    string         `json:"name" yaml:"name"`
	Group   string         `json:"group,omitempty" yaml:"group,omitempty"`
	Inputs  []string       `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []string       `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Meta    map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// LinkDef defines one directed data link between two endpoints.
//
// Endpoint syntax: "node.socket" names a node socket, "$name" names an
// interface socket of the enclosing graph. An interface input is only
// valid as a source, an interface output only as a destination.
type LinkDef struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DefaultGraph returns the name of the document's first graph, which is
// the root flattened when the caller does not pick one explicitly.
// Returns "" for a document with no graphs.
func (d *Document) DefaultGraph() string {
	if len(d.Graphs) == 0 {
		return ""
	}
	return d.Graphs[0].Name
}

// Graph returns the definition with the given name.
func (d *Document) Graph(name string) (*GraphDef, bool) {
	for i := range d.Graphs {
		if d.Graphs[i].Name == name {
			return &d.Graphs[i], true
		}
	}
	return nil, false
}

// GraphNames returns the names of all defined graphs in document order.
func (d *Document) GraphNames() []string {
	names := make([]string, len(d.Graphs))
	for i := range d.Graphs {
		names[i] = d.Graphs[i].Name
	}
	return names
}

// SelfContained reports whether every group reference names a graph
// defined in this document. A self-contained document flattens without
// an external provider, and its flat result is a pure function of the
// document bytes.
func (d *Document) SelfContained() bool {
	defined := make(map[string]bool, len(d.Graphs))
	for i := range d.Graphs {
		defined[d.Graphs[i].Name] = true
	}
	for i := range d.Graphs {
		for _, n := range d.Graphs[i].Nodes {
			if n.Group != "" && !defined[n.Group] {
				return false
			}
		}
	}
	return true
}
