// Package search implements the best-first exploration of partial patterns:
// the immutable state tree, the cost-ordered frontier, and the driver loop
// that expands states through the transition oracle.
package search

import (
	"fmt"

	"periodica/internal/life"
)

// State is one node of the implicit search tree: a partial pattern two
// row-tuples deep, linked to the state it was extended from. States are
// immutable once built; sibling children share the same parent, and a state
// stays reachable as long as any descendant or result still points at it.
// Only the parent link exists, so the tree cannot form cycles.
type State struct {
	parent *State
	top    life.RowTuple
	mid    life.RowTuple
}

// NewState builds a state from its parent (nil for the root) and its two
// row tuples, which must have equal positive length.
func NewState(parent *State, top, mid life.RowTuple) (*State, error) {
	if len(top) == 0 || len(top) != len(mid) {
		return nil, fmt.Errorf("%w: top has %d rows, mid has %d", life.ErrInvalidRows, len(top), len(mid))
	}
	return &State{parent: parent, top: top, mid: mid}, nil
}

// Period returns the number of phases per tuple.
func (s *State) Period() int {
	return len(s.top)
}

// Top returns the upper row tuple. Callers must not mutate it.
func (s *State) Top() life.RowTuple {
	return s.top
}

// Mid returns the lower row tuple. Callers must not mutate it.
func (s *State) Mid() life.RowTuple {
	return s.mid
}

// SameRows reports structural equality on (top, mid). Parent identity is
// irrelevant; this is how the driver recognizes the target state.
func (s *State) SameRows(other *State) bool {
	return s.top.Equal(other.top) && s.mid.Equal(other.mid)
}

// Stable reports whether both tuples are phase-invariant, which signals a
// fully decayed or period-closed partial pattern.
func (s *State) Stable() bool {
	return s.top.Stable() && s.mid.Stable()
}

// Ancestors returns the chain from this state to the root, leaf first.
func (s *State) Ancestors() []*State {
	var chain []*State
	for state := s; state != nil; state = state.parent {
		chain = append(chain, state)
	}
	return chain
}

// Result assembles the discovered pattern from the ancestor chain: the
// leaf's mid tuple first, then every state's top tuple walking leaf to root.
func (s *State) Result() *Result {
	slices := make([]life.RowTuple, 0, 2)
	slices = append(slices, s.mid)
	for _, state := range s.Ancestors() {
		slices = append(slices, state.top)
	}
	return &Result{slices: slices}
}
