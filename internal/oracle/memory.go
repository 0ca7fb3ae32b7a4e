package oracle

import (
	"context"
	"fmt"

	"periodica/internal/life"
)

type window struct {
	top, mid, next life.Row
}

// MemorySource answers extension queries from an in-memory transition set.
// It implements the same contract as ExtensionQuery (candidate match, one-row
// lookahead counts, ring consistency) and serves as the behavioral reference
// for both SQL strategies in tests.
type MemorySource struct {
	period int
	bots   map[window][]life.Row
}

// NewMemorySource indexes the given transition rows for a period-P search.
func NewMemorySource(period int, rows []TransitionRow) (*MemorySource, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadPeriod, period)
	}
	bots := make(map[window][]life.Row)
	for _, r := range rows {
		w := window{r.Top, r.Mid, r.Next}
		bots[w] = append(bots[w], r.Bot)
	}
	return &MemorySource{period: period, bots: bots}, nil
}

func (m *MemorySource) Period() int {
	return m.period
}

// Extensions enumerates every per-generation candidate combination and keeps
// those whose lookahead count is positive at every generation, including the
// wrap-around one.
func (m *MemorySource) Extensions(ctx context.Context, top, mid life.RowTuple) ([]Extension, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(top) != m.period || len(mid) != m.period {
		return nil, fmt.Errorf("%w: source built for period %d, got %d top and %d mid rows",
			life.ErrInvalidRows, m.period, len(top), len(mid))
	}

	candidates := make([][]life.Row, m.period)
	for g := 0; g < m.period; g++ {
		candidates[g] = m.bots[window{top[g], mid[g], mid[(g+1)%m.period]}]
		if len(candidates[g]) == 0 {
			return nil, nil
		}
	}

	var exts []Extension
	pick := make(life.RowTuple, m.period)
	var walk func(g int)
	walk = func(g int) {
		if g == m.period {
			counts := make([]int64, m.period)
			for i := 0; i < m.period; i++ {
				counts[i] = int64(len(m.bots[window{mid[i], pick[i], pick[(i+1)%m.period]}]))
				if counts[i] == 0 {
					return
				}
			}
			exts = append(exts, Extension{Bot: pick.Clone(), Counts: counts})
			return
		}
		for _, bot := range candidates[g] {
			pick[g] = bot
			walk(g + 1)
		}
	}
	walk(0)
	return exts, nil
}
