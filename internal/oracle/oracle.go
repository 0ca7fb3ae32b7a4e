// Package oracle provides read-only access to the precomputed rule-transition
// table. The table is the single source of truth for which bottom rows may
// legally extend a partial pattern; it is produced out of band and never
// written here.
package oracle

import (
	"context"
	"errors"

	"periodica/internal/life"
)

// ErrSchemaMismatch reports a transition table whose layout is neither the
// packed single-key form nor the unpacked four-column form.
var ErrSchemaMismatch = errors.New("transition table schema mismatch")

// ErrBadPeriod reports a non-positive search period at query-build time.
var ErrBadPeriod = errors.New("period must be positive")

// TransitionRow is one entry of the oracle: given the (Top, Mid, Next)
// neighborhood window, Bot is a legal row below Mid.
type TransitionRow struct {
	Top, Mid, Next, Bot life.Row
}

// ID packs the row into the signed 64-bit key used by the packed table
// layout.
func (r TransitionRow) ID() int64 {
	u := uint64(r.Top)<<48 | uint64(r.Mid)<<32 | uint64(r.Next)<<16 | uint64(r.Bot)
	return int64(u)
}

// Extension is one legal one-row-deeper continuation of a partial state: a
// bottom row per generation, plus the per-generation count of further
// extensions used as the branching-factor heuristic.
type Extension struct {
	Bot    life.RowTuple
	Counts []int64
}

// Source answers extension queries for a fixed period. Implementations:
// ExtensionQuery over a sqlite table, and MemorySource for tests.
type Source interface {
	Period() int
	Extensions(ctx context.Context, top, mid life.RowTuple) ([]Extension, error)
}
