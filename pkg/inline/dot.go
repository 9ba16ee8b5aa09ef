package inline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

// DOTOptions configures [Graph.DOT].
type DOTOptions struct {
	// Detailed renders nodes as records with one port per socket and
	// draws edges between ports. When false, nodes are plain boxes and
	// parallel socket connections collapse into one edge per node pair.
	Detailed bool
	// RankDir sets the graph direction. Defaults to "LR".
	RankDir string
}

// Style is the set of render hints read from a node's metadata. Unknown
// metadata keys are ignored; hints are best-effort and never fail a
// render.
type Style struct {
	// Label replaces the node name in the rendered label.
	Label string `mapstructure:"label"`
	// Fill sets the node fill color, e.g. "#e8f0fe" or "lightyellow".
	Fill string `mapstructure:"fill"`
	// Color sets the node outline color.
	Color string `mapstructure:"color"`
}

// StyleOf decodes the render hints of a metadata map.
func StyleOf(meta logical.Metadata) Style {
	var s Style
	_ = mapstructure.Decode(map[string]any(meta), &s)
	return s
}

// DOT renders the flattened graph in Graphviz DOT format. Group expansions
// become nested clusters labelled with the group node's name, placeholders
// dashed ellipses inside their frame's cluster, and placeholder edges are
// dashed to tell open boundary chains from resolved producers.
//
// Output is deterministic: nodes, frames and edges are emitted in
// registration order.
func (g *Graph) DOT(opts DOTOptions) string {
	if opts.RankDir == "" {
		opts.RankDir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	if opts.Detailed {
		buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontsize=12];\n")
	} else {
		buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	}
	buf.WriteString("\n")

	w := dotWriter{graph: g, opts: opts, indent: 1}
	w.writeLevel(&buf, nil)
	buf.WriteString("\n")
	w.writeEdges(&buf)

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	graph  *Graph
	opts   DOTOptions
	indent int
}

// writeLevel emits the nodes and placeholders directly under frame, then
// recurses into child frames as nested clusters. frame == nil is the root
// level, emitted without a cluster.
func (w dotWriter) writeLevel(buf *bytes.Buffer, frame *ParentFrame) {
	pad := strings.Repeat("  ", w.indent)

	for _, n := range w.graph.nodes {
		if n.frame == frame {
			fmt.Fprintf(buf, "%s%s;\n", pad, w.nodeStmt(n))
		}
	}
	for _, gi := range w.graph.groupInputs {
		if gi.frame == frame {
			fmt.Fprintf(buf, "%sgi%d [label=%q, shape=ellipse, style=\"dashed,filled\", fillcolor=lightgrey];\n",
				pad, gi.id, "$"+gi.def.Name())
		}
	}
	for _, child := range w.graph.frames {
		if child.parent != frame {
			continue
		}
		fmt.Fprintf(buf, "%ssubgraph cluster_f%d {\n", pad, child.id)
		fmt.Fprintf(buf, "%s  label=%q;\n", pad, child.def.Name()+" ("+child.def.GroupRef()+")")
		fmt.Fprintf(buf, "%s  style=dashed;\n", pad)
		inner := w
		inner.indent++
		inner.writeLevel(buf, child)
		fmt.Fprintf(buf, "%s}\n", pad)
	}
}

func (w dotWriter) nodeStmt(n *Node) string {
	style := StyleOf(n.def.Meta())
	name := n.def.Name()
	if style.Label != "" {
		name = style.Label
	}

	var attrs []string
	if w.opts.Detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", recordLabel(n, name)))
	} else {
		attrs = append(attrs, fmt.Sprintf("label=%q", name))
	}
	if style.Fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", style.Fill))
	}
	if style.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", style.Color))
	}
	return fmt.Sprintf("n%d [%s]", n.id, strings.Join(attrs, ", "))
}

// recordLabel builds a three-field record: input ports, the node name,
// output ports. With rankdir=LR the fields stack into columns, giving the
// usual node-editor silhouette.
func recordLabel(n *Node, name string) string {
	field := func(sockets []*logical.SocketDef, tag string) string {
		parts := make([]string, len(sockets))
		for i, s := range sockets {
			parts[i] = fmt.Sprintf("<%s%d> %s", tag, i, recordEscape(s.Name()))
		}
		return "{" + strings.Join(parts, "|") + "}"
	}
	label := recordEscape(name)
	switch {
	case len(n.def.Inputs()) == 0 && len(n.def.Outputs()) == 0:
		return label
	case len(n.def.Inputs()) == 0:
		return "{" + label + "|" + field(n.def.Outputs(), "o") + "}"
	case len(n.def.Outputs()) == 0:
		return "{" + field(n.def.Inputs(), "i") + "|" + label + "}"
	default:
		return "{" + field(n.def.Inputs(), "i") + "|" + label + "|" + field(n.def.Outputs(), "o") + "}"
	}
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`,
)

func recordEscape(s string) string { return recordEscaper.Replace(s) }

func (w dotWriter) writeEdges(buf *bytes.Buffer) {
	if w.opts.Detailed {
		for _, out := range w.graph.outputs {
			for _, in := range out.targets {
				fmt.Fprintf(buf, "  n%d:o%d -> n%d:i%d;\n",
					out.node.id, out.def.Index(), in.node.id, in.def.Index())
			}
		}
		for _, gi := range w.graph.groupInputs {
			for _, in := range gi.targets {
				fmt.Fprintf(buf, "  gi%d -> n%d:i%d [style=dashed];\n", gi.id, in.node.id, in.def.Index())
			}
		}
		return
	}

	type pair struct{ from, to NodeID }
	seen := make(map[pair]bool)
	for _, out := range w.graph.outputs {
		for _, in := range out.targets {
			p := pair{out.node.id, in.node.id}
			if seen[p] {
				continue
			}
			seen[p] = true
			fmt.Fprintf(buf, "  n%d -> n%d;\n", out.node.id, in.node.id)
		}
	}
	giSeen := make(map[pair]bool)
	for _, gi := range w.graph.groupInputs {
		for _, in := range gi.targets {
			p := pair{NodeID(gi.id), in.node.id}
			if giSeen[p] {
				continue
			}
			giSeen[p] = true
			fmt.Fprintf(buf, "  gi%d -> n%d [style=dashed];\n", gi.id, in.node.id)
		}
	}
}
