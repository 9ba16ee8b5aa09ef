package inline

import (
	"strings"
	"testing"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

func flattenNested(t *testing.T) *Graph {
	t.Helper()
	inner := logical.NewGraph("inner")
	inner.AddGroupInput("x")
	inner.AddNode(logical.NodeSpec{Name: "f", Inputs: []string{"in"}, Outputs: []string{"out"}})
	inner.Link("$x", "f.in")

	main := logical.NewGraph("main")
	main.AddNode(logical.NodeSpec{Name: "a", Outputs: []string{"out"}, Meta: logical.Metadata{"fill": "#e8f0fe"}})
	main.AddNode(logical.NodeSpec{Name: "g", Group: "inner", Inputs: []string{"x"}})
	main.AddNode(logical.NodeSpec{Name: "c", Inputs: []string{"in"}})
	main.Link("a.out", "g.x")
	main.Link("a.out", "c.in")

	g, err := Flatten(main, lib(inner))
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	return g
}

func TestDOT_Basic(t *testing.T) {
	g := flattenNested(t)
	dot := g.DOT(DOTOptions{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("DOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("DOT() output missing default rankdir")
	}
	if !strings.Contains(dot, `label="a"`) {
		t.Error("DOT() output missing node a")
	}
	if !strings.Contains(dot, "n0 -> n2") {
		t.Errorf("DOT() output missing direct edge a -> c:\n%s", dot)
	}
}

func TestDOT_FrameClusters(t *testing.T) {
	g := flattenNested(t)
	dot := g.DOT(DOTOptions{})

	if !strings.Contains(dot, "subgraph cluster_f0") {
		t.Error("DOT() output missing frame cluster")
	}
	if !strings.Contains(dot, `label="g (inner)"`) {
		t.Error("DOT() cluster label missing group node and graph names")
	}
}

func TestDOT_PlaceholderEdgesDashed(t *testing.T) {
	g := flattenNested(t)
	dot := g.DOT(DOTOptions{})

	if !strings.Contains(dot, `label="$x"`) {
		t.Error("DOT() output missing placeholder node")
	}
	if !strings.Contains(dot, "[style=dashed]") {
		t.Error("DOT() placeholder edge not dashed")
	}
}

func TestDOT_Detailed(t *testing.T) {
	g := flattenNested(t)
	dot := g.DOT(DOTOptions{Detailed: true})

	if !strings.Contains(dot, "shape=record") {
		t.Error("DOT() detailed output missing record shape")
	}
	if !strings.Contains(dot, "<o0> out") {
		t.Error("DOT() detailed output missing output port")
	}
	if !strings.Contains(dot, ":o0 -> ") {
		t.Errorf("DOT() detailed output missing port edge:\n%s", dot)
	}
}

func TestDOT_StyleHints(t *testing.T) {
	g := flattenNested(t)
	dot := g.DOT(DOTOptions{})

	if !strings.Contains(dot, `fillcolor="#e8f0fe"`) {
		t.Errorf("DOT() output missing fill hint:\n%s", dot)
	}
}

func TestDOT_Deterministic(t *testing.T) {
	g := flattenNested(t)
	if g.DOT(DOTOptions{}) != g.DOT(DOTOptions{}) {
		t.Error("DOT() output differs between calls")
	}
}

func TestDOT_RankDirOverride(t *testing.T) {
	g := flattenNested(t)
	if !strings.Contains(g.DOT(DOTOptions{RankDir: "TB"}), "rankdir=TB") {
		t.Error("DOT() did not honor RankDir")
	}
}

func TestStyleOf(t *testing.T) {
	s := StyleOf(logical.Metadata{"label": "Blur", "fill": "red", "other": 1})
	if s.Label != "Blur" || s.Fill != "red" || s.Color != "" {
		t.Errorf("StyleOf() = %+v", s)
	}
	if s := StyleOf(nil); s != (Style{}) {
		t.Errorf("StyleOf(nil) = %+v, want zero", s)
	}
}

func TestRecordEscape(t *testing.T) {
	if got := recordEscape("a|b{c}<d>"); got != `a\|b\{c\}\<d\>` {
		t.Errorf("recordEscape() = %q", got)
	}
}
