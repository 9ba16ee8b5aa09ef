package inline

import (
	"errors"
	"strings"
)

var (
	// ErrNilRoot is returned by [Flatten] when the root graph is nil.
	ErrNilRoot = errors.New("root graph is nil")

	// ErrNoProvider is returned by [Flatten] when a group reference is
	// encountered but no provider was given to resolve it.
	ErrNoProvider = errors.New("no provider for group reference")

	// ErrMaxDepth is returned by [Flatten] when group expansions nest
	// deeper than the limit set with [WithMaxDepth].
	ErrMaxDepth = errors.New("maximum group nesting depth exceeded")
)

// CycleError is returned by [Flatten] when a graph reaches itself through
// a chain of group references. Expanding such a graph would never
// terminate, so the build aborts without a partial result.
type CycleError struct {
	// Graph is the name of the graph whose re-expansion closed the cycle.
	Graph string
	// Path lists the expansion chain from the root graph to the repeated
	// one, e.g. ["main", "a", "b", "a"].
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "cyclic group reference: " + strings.Join(e.Path, " -> ")
}
