package search

import (
	"fmt"
	"strings"

	"periodica/internal/life"
)

// Result is a discovered pattern: one row tuple per spatial row, top of the
// pattern last (the slices are ordered leaf to root).
type Result struct {
	slices []life.RowTuple
}

// Len returns the number of spatial rows.
func (r *Result) Len() int {
	return len(r.slices)
}

// Stable reports whether every row tuple is phase-invariant.
func (r *Result) Stable() bool {
	for _, s := range r.slices {
		if !s.Stable() {
			return false
		}
	}
	return true
}

// PatternTextAt renders the pattern at one phase, one newline-terminated
// 16-character line per spatial row, 'o' for live cells and '.' for dead
// ones.
func (r *Result) PatternTextAt(gen int) (string, error) {
	if len(r.slices) == 0 {
		return "", nil
	}
	if gen < 0 || gen >= len(r.slices[0]) {
		return "", fmt.Errorf("generation %d out of range [0,%d)", gen, len(r.slices[0]))
	}
	var b strings.Builder
	for _, s := range r.slices {
		b.WriteString(s[gen].Text())
		b.WriteByte('\n')
	}
	return b.String(), nil
}
