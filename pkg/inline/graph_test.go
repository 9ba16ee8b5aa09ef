package inline

import (
	"testing"

	"github.com/matzehuels/flatgraph/pkg/logical"
)

func flattenOne(t *testing.T) *Graph {
	t.Helper()
	main := logical.NewGraph("main")
	main.AddNode(logical.NodeSpec{Name: "a", Inputs: []string{"in"}, Outputs: []string{"out"}})
	g, err := Flatten(main, nil)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	return g
}

func TestGraph_Root(t *testing.T) {
	g := flattenOne(t)
	if g.Root() == nil || g.Root().Name() != "main" {
		t.Errorf("Root() = %v, want graph main", g.Root())
	}
}

func TestGraph_InvalidNodeIDPanics(t *testing.T) {
	g := flattenOne(t)
	defer func() {
		if recover() == nil {
			t.Errorf("Node(99) did not panic")
		}
	}()
	g.Node(99)
}

func TestGraph_InvalidSocketIDPanics(t *testing.T) {
	g := flattenOne(t)
	defer func() {
		if recover() == nil {
			t.Errorf("Socket(-1) did not panic")
		}
	}()
	g.Socket(-1)
}

func TestGraph_InvalidFrameIDPanics(t *testing.T) {
	g := flattenOne(t)
	defer func() {
		if recover() == nil {
			t.Errorf("Frame(0) did not panic on a graph without frames")
		}
	}()
	g.Frame(0)
}

func TestNode_SocketAccessors(t *testing.T) {
	g := flattenOne(t)
	n := g.Node(0)
	if n.Input(0).Node() != n || n.Output(0).Node() != n {
		t.Errorf("socket back references do not point at the owning node")
	}
	if s, ok := n.InputNamed("in"); !ok || s != n.Input(0) {
		t.Errorf("InputNamed(in) = %v, %v", s, ok)
	}
	if _, ok := n.InputNamed("ghost"); ok {
		t.Errorf("InputNamed(ghost) ok = true, want false")
	}
	if s, ok := n.OutputNamed("out"); !ok || s != n.Output(0) {
		t.Errorf("OutputNamed(out) = %v, %v", s, ok)
	}
	if got := n.Input(0).String(); got != "a.in" {
		t.Errorf("Input(0).String() = %q, want %q", got, "a.in")
	}
	if got := n.Output(0).Def().Direction(); got != logical.Out {
		t.Errorf("Output(0).Def().Direction() = %v, want Out", got)
	}
}
