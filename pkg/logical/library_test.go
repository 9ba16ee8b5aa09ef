package logical

import (
	"errors"
	"strings"
	"testing"
)

func TestLibrary_AddResolve(t *testing.T) {
	l := NewLibrary()
	g := NewGraph("main")
	if err := l.Add(g); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	got, err := l.Resolve("main")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != g {
		t.Errorf("Resolve() = %v, want %v", got, g)
	}
	if _, err := l.Resolve("missing"); !errors.Is(err, ErrUnknownGraph) {
		t.Errorf("Resolve(missing) error = %v, want ErrUnknownGraph", err)
	}
}

func TestLibrary_DuplicateName(t *testing.T) {
	l := NewLibrary()
	l.Add(NewGraph("main"))
	if err := l.Add(NewGraph("main")); !errors.Is(err, ErrDuplicateGraph) {
		t.Errorf("Add() error = %v, want ErrDuplicateGraph", err)
	}
}

func TestLibrary_GraphsOrder(t *testing.T) {
	l := NewLibrary()
	names := []string{"z", "a", "m"}
	for _, n := range names {
		l.Add(NewGraph(n))
	}
	for i, g := range l.Graphs() {
		if g.Name() != names[i] {
			t.Errorf("Graphs()[%d].Name() = %q, want %q", i, g.Name(), names[i])
		}
	}
}

func TestValidate_OK(t *testing.T) {
	l := NewLibrary()
	main := NewGraph("main")
	main.AddNode(NodeSpec{Name: "g1", Group: "inner"})
	inner := NewGraph("inner")
	inner.AddNode(NodeSpec{Name: "f"})
	l.Add(main)
	l.Add(inner)

	if err := l.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_UnknownReference(t *testing.T) {
	l := NewLibrary()
	main := NewGraph("main")
	main.AddNode(NodeSpec{Name: "g1", Group: "ghost"})
	l.Add(main)

	if err := l.Validate(); !errors.Is(err, ErrUnknownGraph) {
		t.Errorf("Validate() error = %v, want ErrUnknownGraph", err)
	}
}

func TestValidate_SelfReference(t *testing.T) {
	l := NewLibrary()
	g := NewGraph("loop")
	g.AddNode(NodeSpec{Name: "me", Group: "loop"})
	l.Add(g)

	err := l.Validate()
	if !errors.Is(err, ErrCyclicReference) {
		t.Fatalf("Validate() error = %v, want ErrCyclicReference", err)
	}
	if !strings.Contains(err.Error(), "loop -> loop") {
		t.Errorf("Validate() error %q does not name the cycle", err)
	}
}

func TestValidate_TransitiveCycle(t *testing.T) {
	l := NewLibrary()
	a := NewGraph("a")
	a.AddNode(NodeSpec{Name: "n", Group: "b"})
	b := NewGraph("b")
	b.AddNode(NodeSpec{Name: "n", Group: "c"})
	c := NewGraph("c")
	c.AddNode(NodeSpec{Name: "n", Group: "a"})
	l.Add(a)
	l.Add(b)
	l.Add(c)

	err := l.Validate()
	if !errors.Is(err, ErrCyclicReference) {
		t.Fatalf("Validate() error = %v, want ErrCyclicReference", err)
	}
	if !strings.Contains(err.Error(), "a -> b -> c -> a") {
		t.Errorf("Validate() error %q does not name the cycle path", err)
	}
}

func TestValidate_SharedGroupNoCycle(t *testing.T) {
	// The same group used twice is a diamond, not a cycle.
	l := NewLibrary()
	main := NewGraph("main")
	main.AddNode(NodeSpec{Name: "g1", Group: "shared"})
	main.AddNode(NodeSpec{Name: "g2", Group: "shared"})
	shared := NewGraph("shared")
	shared.AddNode(NodeSpec{Name: "f"})
	l.Add(main)
	l.Add(shared)

	if err := l.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

type errProvider struct{ err error }

func (p errProvider) Resolve(string) (*Graph, error) { return nil, p.err }

func TestChain_ShadowingAndFallback(t *testing.T) {
	first := NewLibrary()
	shadowed := NewGraph("shared")
	first.Add(shadowed)

	second := NewLibrary()
	second.Add(NewGraph("shared"))
	only := NewGraph("only")
	second.Add(only)

	c := Chain(first, second)

	got, err := c.Resolve("shared")
	if err != nil {
		t.Fatalf("Resolve(shared) error = %v", err)
	}
	if got != shadowed {
		t.Errorf("Resolve(shared) did not prefer the first provider")
	}

	got, err = c.Resolve("only")
	if err != nil {
		t.Fatalf("Resolve(only) error = %v", err)
	}
	if got != only {
		t.Errorf("Resolve(only) did not fall through to the second provider")
	}

	if _, err := c.Resolve("missing"); !errors.Is(err, ErrUnknownGraph) {
		t.Errorf("Resolve(missing) error = %v, want ErrUnknownGraph", err)
	}
}

func TestChain_StopsOnRealError(t *testing.T) {
	boom := errors.New("backend down")
	fallback := NewLibrary()
	fallback.Add(NewGraph("g"))

	c := Chain(errProvider{err: boom}, fallback)
	if _, err := c.Resolve("g"); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want the provider failure", err)
	}
}

func TestChain_Empty(t *testing.T) {
	if _, err := Chain().Resolve("anything"); !errors.Is(err, ErrUnknownGraph) {
		t.Errorf("Resolve() error = %v, want ErrUnknownGraph", err)
	}
}
