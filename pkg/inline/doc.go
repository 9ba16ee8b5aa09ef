// Package inline flattens hierarchical logical node graphs: every group
// reference is recursively expanded until a single flat instance graph
// remains, with all data links rewired across the dissolved group
// boundaries.
//
// # Overview
//
// Authoring tools keep node graphs hierarchical because groups make them
// reusable. Everything downstream of authoring is simpler on a flat graph,
// so [Flatten] takes a root [logical.Graph], resolves group references
// through a [logical.Provider], and produces a [Graph] in one pass:
//
//	g, err := inline.Flatten(root, lib)
//	if err != nil { ... }
//	for _, n := range g.Nodes() {
//	    fmt.Println(n.ID(), n.Path())
//	}
//
// Plain nodes become [Node] instances; group nodes dissolve into their
// contents and contribute nothing themselves. Using the same group five
// times yields five independent copies of its contents.
//
// # Frames
//
// Each group expansion pushes a [ParentFrame]. Instances remember the
// frame they were created under, frames chain upward, and the chain names
// every instance uniquely: the same "filter" node expanded through two
// different groups yields instances "g1/filter" and "g2/filter".
//
// # Link Resolution
//
// After all instances exist, every input socket is resolved. A link whose
// source sits in the same graph connects directly. A link from a group
// interface input crosses the boundary: the reader picks up the one
// [GroupInput] placeholder for that (frame, input) pair and the walk
// continues in the enclosing graph, accumulating one placeholder per
// boundary until it reaches a producing output or runs out of links. A
// link from a group node's output descends into that group's contents and
// continues from its interface output, so values flow out of groups
// without any placeholder on the output side.
//
// Fan-in is preserved: every logical link is resolved independently and
// connections append in resolution order.
//
// # Identity
//
// The [Graph] owns all instances and issues dense IDs per entity kind.
// Input and output sockets share one ID space ([SocketID]), so a single
// table addresses every socket. ID lookups panic on IDs the graph never
// issued; iteration accessors return instances in registration order.
//
// # Failure Model
//
// Cyclic group references make expansion impossible and abort the build
// with [*CycleError]. Everything else degrades: stale links and interface
// mismatches are skipped and collected as [Diagnostic] values on the
// result, never failing the build.
//
// # DOT Export
//
// [Graph.DOT] renders the flattened graph in Graphviz DOT format with one
// nested cluster per frame, for debugging and documentation. Node metadata
// can carry [Style] hints that flow into the rendering.
//
// # Concurrency
//
// A build is single-threaded and its result immutable. Concurrent Flatten
// calls are safe whenever the provider is; a [logical.Library] that is no
// longer being mutated qualifies.
package inline
