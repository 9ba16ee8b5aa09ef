package document

import (
	"fmt"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

// Library builds a logical graph library from the document's definitions.
// It returns an error for structural problems: invalid names, duplicate
// graphs, nodes or sockets, and malformed link endpoint syntax.
//
// Library does not check that group references resolve or that they are
// acyclic; call [logical.Library.Validate] when the document must be
// self-contained, or let flattening report what it actually visits.
func (d *Document) Library() (*logical.Library, error) {
	lib := logical.NewLibrary()
	for i := range d.Graphs {
		g, err := buildGraph(&d.Graphs[i])
		if err != nil {
			return nil, err
		}
		if err := lib.Add(g); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func buildGraph(def *GraphDef) (*logical.Graph, error) {
	g := logical.NewGraph(def.Name)
	for k, v := range def.Meta {
		g.Meta()[k] = v
	}
	for _, name := range def.GroupInputs {
		if _, err := g.AddGroupInput(name); err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
	}
	for _, name := range def.GroupOutputs {
		if _, err := g.AddGroupOutput(name); err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
	}
	for _, nd := range def.Nodes {
		spec := logical.NodeSpec{
			Name:    nd.Name,
			Group:   nd.Group,
			Inputs:  nd.Inputs,
			Outputs: nd.Outputs,
			Meta:    logical.Metadata(nd.Meta),
		}
		if _, err := g.AddNode(spec); err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
	}
	for _, l := range def.Links {
		if err := g.Link(l.From, l.To); err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
	}
	return g, nil
}
