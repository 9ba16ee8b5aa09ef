// Package logical defines the hierarchical node graph model that flattening
// consumes: named graphs holding plain nodes, group nodes referencing other
// graphs, a group interface, and data links between sockets.
//
// # Overview
//
// A [Graph] is an ordered set of named nodes. Plain nodes declare input and
// output sockets and become instances when flattened. Group nodes reference
// another graph by name and expand to that graph's contents instead of
// becoming instances themselves. A graph's group interface ([Graph.AddGroupInput],
// [Graph.AddGroupOutput]) declares the values it receives from and exposes
// to its enclosing level.
//
// # Building Graphs
//
// Create a graph with [NewGraph], add nodes with [Graph.AddNode], and links
// with [Graph.Link]:
//
//	g := logical.NewGraph("main")
//	g.AddNode(logical.NodeSpec{Name: "a", Outputs: []string{"value"}})
//	g.AddNode(logical.NodeSpec{Name: "b", Group: "blur", Inputs: []string{"image"}})
//	g.Link("a.value", "b.image")
//
// Link endpoints use a compact reference syntax: "node.socket" for node
// sockets and "$socket" for the graph's own interface sockets. Links are
// held as unresolved [Ref] pairs; resolution happens at flattening time so
// stale references in loaded data surface as diagnostics, not load errors.
//
// # Providers
//
// Group references are resolved through a [Provider]. [Library] is the
// in-memory implementation used for single-document builds; store-backed
// providers resolve references lazily. [Library.Validate] checks the whole
// reference digraph up front and rejects unknown references and reference
// cycles before any flattening work starts.
//
// # Immutability
//
// Graph definitions are build-once, read-many. Flattening never mutates a
// graph, so one definition can back any number of group expansions.
package logical
