package document

import (
	"errors"
	"testing"

	"github.com/matzehuels/flatgraph/pkg/inline"
	"github.com/matzehuels/flatgraph/pkg/logical"
)

func TestLibrary_Build(t *testing.T) {
	doc, err := Decode([]byte(jsonDoc), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := doc.Library()
	if err != nil {
		t.Fatalf("Library() error = %v", err)
	}
	if err := lib.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	main, err := lib.Resolve("main")
	if err != nil {
		t.Fatalf("Resolve(main) error = %v", err)
	}
	if main.NodeCount() != 2 {
		t.Errorf("main.NodeCount() = %d, want 2", main.NodeCount())
	}
	a, ok := main.Node("a")
	if !ok {
		t.Fatalf("node a missing")
	}
	if got := a.Meta()["label"]; got != "Source A" {
		t.Errorf("a.Meta[label] = %v, want %q", got, "Source A")
	}

	blur, err := lib.Resolve("blur")
	if err != nil {
		t.Fatalf("Resolve(blur) error = %v", err)
	}
	if len(blur.GroupInputs()) != 1 || len(blur.GroupOutputs()) != 1 {
		t.Errorf("blur interface = %d in, %d out, want 1/1",
			len(blur.GroupInputs()), len(blur.GroupOutputs()))
	}
}

func TestLibrary_DuplicateGraph(t *testing.T) {
	doc := &Document{Graphs: []GraphDef{{Name: "g"}, {Name: "g"}}}
	_, err := doc.Library()
	if !errors.Is(err, logical.ErrDuplicateGraph) {
		t.Errorf("Library() error = %v, want ErrDuplicateGraph", err)
	}
}

func TestLibrary_BadLinkSyntax(t *testing.T) {
	doc := &Document{Graphs: []GraphDef{{
		Name:  "g",
		Nodes: []NodeDef{{Name: "a", Outputs: []string{"v"}}},
		Links: []LinkDef{{From: "a.v.extra", To: "a.v"}},
	}}}
	_, err := doc.Library()
	if !errors.Is(err, logical.ErrInvalidRef) {
		t.Errorf("Library() error = %v, want ErrInvalidRef", err)
	}
}

func TestLibrary_BadNodeName(t *testing.T) {
	doc := &Document{Graphs: []GraphDef{{
		Name:  "g",
		Nodes: []NodeDef{{Name: "has space"}},
	}}}
	_, err := doc.Library()
	if !errors.Is(err, logical.ErrInvalidName) {
		t.Errorf("Library() error = %v, want ErrInvalidName", err)
	}
}

func TestLibrary_FlattenEndToEnd(t *testing.T) {
	doc, err := Decode([]byte(jsonDoc), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := doc.Library()
	if err != nil {
		t.Fatal(err)
	}
	root, err := lib.Resolve("main")
	if err != nil {
		t.Fatal(err)
	}
	g, err := inline.Flatten(root, lib)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	var paths []string
	for _, n := range g.Nodes() {
		paths = append(paths, n.Path())
	}
	want := []string{"a", "g/f"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
	if len(g.Diagnostics()) != 0 {
		t.Errorf("Diagnostics = %v, want none", g.Diagnostics())
	}
}
