package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/flatgraph/pkg/inline"
)

// =============================================================================
// FlatGraph - Flattened Instance Graph Serialization
// =============================================================================

// FlatGraph is the serialization format for a flattened instance graph.
// Instances appear in registration order with their dense IDs, so output
// for the same document is byte-for-byte reproducible. Connections are
// written as instance paths ("g1/g2/node.socket") for readability; the
// numeric IDs identify instances exactly.
type FlatGraph struct {
	Root        string              `json:"root"`
	Nodes       []FlatNode          `json:"nodes"`
	GroupInputs []FlatGroupInput    `json:"group_inputs,omitempty"`
	Frames      []FlatFrame         `json:"frames,omitempty"`
	Diagnostics []inline.Diagnostic `json:"diagnostics,omitempty"`
}

// FlatNode is one node instance.
type FlatNode struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Path    string       `json:"path"`
	Frame   *int         `json:"frame,omitempty"`
	Inputs  []FlatSocket `json:"inputs,omitempty"`
	Outputs []FlatSocket `json:"outputs,omitempty"`
}

// FlatSocket is one socket instance. Sources and Placeholders are set on
// inputs, Targets on outputs; an unconnected socket has none of them.
type FlatSocket struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Sources      []string `json:"sources,omitempty"`
	Placeholders []string `json:"placeholders,omitempty"`
	Targets      []string `json:"targets,omitempty"`
}

// FlatGroupInput is one group-input placeholder. Scope is the frame path
// the placeholder belongs to, empty for the root graph's own interface.
type FlatGroupInput struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Scope   string   `json:"scope,omitempty"`
	Targets []string `json:"targets,omitempty"`
}

// FlatFrame is one parent frame: a group node crossed during expansion.
type FlatFrame struct {
	ID     int    `json:"id"`
	Node   string `json:"node"`
	Graph  string `json:"graph"`
	Path   string `json:"path"`
	Parent *int   `json:"parent,omitempty"`
}

// Flat converts a flattened graph into its serialization format.
func Flat(g *inline.Graph) FlatGraph {
	out := FlatGraph{
		Root:        g.Root().Name(),
		Nodes:       make([]FlatNode, 0, g.NodeCount()),
		Diagnostics: g.Diagnostics(),
	}

	for _, n := range g.Nodes() {
		fn := FlatNode{
			ID:   int(n.ID()),
			Name: n.Def().Name(),
			Path: n.Path(),
		}
		if fr := n.Frame(); fr != nil {
			id := int(fr.ID())
			fn.Frame = &id
		}
		for _, s := range n.Inputs() {
			fn.Inputs = append(fn.Inputs, flatInput(s))
		}
		for _, s := range n.Outputs() {
			fn.Outputs = append(fn.Outputs, flatOutput(s))
		}
		out.Nodes = append(out.Nodes, fn)
	}

	for _, gi := range g.GroupInputs() {
		fg := FlatGroupInput{
			ID:   int(gi.ID()),
			Name: "$" + gi.Def().Name(),
		}
		if fr := gi.Frame(); fr != nil {
			fg.Scope = fr.Path()
		}
		for _, t := range gi.Targets() {
			fg.Targets = append(fg.Targets, t.String())
		}
		out.GroupInputs = append(out.GroupInputs, fg)
	}

	for _, fr := range g.Frames() {
		ff := FlatFrame{
			ID:    int(fr.ID()),
			Node:  fr.Def().Name(),
			Graph: fr.Def().GroupRef(),
			Path:  fr.Path(),
		}
		if p := fr.Parent(); p != nil {
			id := int(p.ID())
			ff.Parent = &id
		}
		out.Frames = append(out.Frames, ff)
	}

	return out
}

func flatInput(s *inline.InputSocket) FlatSocket {
	fs := FlatSocket{ID: int(s.ID()), Name: s.Def().Name()}
	for _, src := range s.Sources() {
		fs.Sources = append(fs.Sources, src.String())
	}
	for _, gi := range s.GroupInputs() {
		fs.Placeholders = append(fs.Placeholders, gi.String())
	}
	return fs
}

func flatOutput(s *inline.OutputSocket) FlatSocket {
	fs := FlatSocket{ID: int(s.ID()), Name: s.Def().Name()}
	for _, t := range s.Targets() {
		fs.Targets = append(fs.Targets, t.String())
	}
	return fs
}

// WriteFlat encodes a flattened graph as indented JSON and writes it to w.
func WriteFlat(g *inline.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Flat(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalFlat returns the indented JSON encoding of a flattened graph.
func MarshalFlat(g *inline.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFlat(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
