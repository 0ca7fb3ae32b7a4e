package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"periodica/internal/life"
)

// ExtensionQuery is the parametrized query answering, for every phase of a
// period-P search at once, which bottom rows legally extend a partial state.
// It is assembled and prepared once per period and re-executed with fresh
// parameters for every dequeued state.
type ExtensionQuery struct {
	stmt   *sql.Stmt
	text   string
	period int
	layout Layout
}

// ExtensionQuery builds the query for the given period against this table's
// layout. A non-positive period is a construction-time error, not a per-call
// one.
func (t *Table) ExtensionQuery(ctx context.Context, period int) (*ExtensionQuery, error) {
	text, err := buildQueryText(t.layout, t.name, period)
	if err != nil {
		return nil, err
	}
	stmt, err := t.db.PrepareContext(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("prepare extension query: %w", err)
	}
	return &ExtensionQuery{
		stmt:   stmt,
		text:   text,
		period: period,
		layout: t.layout,
	}, nil
}

// QueryText builds, without preparing, the SQL an extension query would use
// for the given layout, table name and period.
func QueryText(layout Layout, table string, period int) (string, error) {
	return buildQueryText(layout, table, period)
}

// Period returns the period the query was built for.
func (q *ExtensionQuery) Period() int {
	return q.period
}

// SQL returns the query text.
func (q *ExtensionQuery) SQL() string {
	return q.text
}

func (q *ExtensionQuery) Close() error {
	return q.stmt.Close()
}

// Extensions executes the query with the state's per-generation parameters
// and returns every self-consistent one-row extension, each annotated with
// its per-generation lookahead counts. No result ordering is guaranteed.
// Execution errors are fatal to the run; there is no retry here.
func (q *ExtensionQuery) Extensions(ctx context.Context, top, mid life.RowTuple) ([]Extension, error) {
	if len(top) != q.period || len(mid) != q.period {
		return nil, fmt.Errorf("%w: query built for period %d, got %d top and %d mid rows",
			life.ErrInvalidRows, q.period, len(top), len(mid))
	}

	var (
		params []int64
		err    error
	)
	switch q.layout {
	case LayoutPacked:
		params, err = life.PackedParams(top, mid)
	case LayoutUnpacked:
		params, err = life.UnpackedParams(top, mid)
	default:
		return nil, fmt.Errorf("%w: layout %s", ErrSchemaMismatch, q.layout)
	}
	if err != nil {
		return nil, err
	}

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}

	rows, err := q.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("execute extension query: %w", err)
	}
	defer rows.Close()

	var exts []Extension
	for rows.Next() {
		bots := make([]int64, q.period)
		counts := make([]int64, q.period)
		dest := make([]any, 0, 2*q.period)
		for i := range bots {
			dest = append(dest, &bots[i])
		}
		for i := range counts {
			dest = append(dest, &counts[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan extension row: %w", err)
		}

		bot := make(life.RowTuple, q.period)
		for i, b := range bots {
			if b < 0 || b > 0xFFFF {
				return nil, fmt.Errorf("corrupt transition table: bot value %d out of range", b)
			}
			bot[i] = life.Row(b)
		}
		exts = append(exts, Extension{Bot: bot, Counts: counts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read extension rows: %w", err)
	}
	return exts, nil
}

// buildQueryText assembles the period-P query: one candidate CTE per
// generation, one lookahead count per generation, and a ring join requiring
// every count to be positive. The wrap-around generation's count lands in the
// final WHERE because there is no join left to attach it to.
//
// Shape, for period 2 on the packed layout:
//
//	WITH cte_bot_g0 AS (
//	  SELECT (id >> 32) & 0xFFFF AS mid, (id >> 16) & 0xFFFF AS next, id & 0xFFFF AS bot
//	  FROM "transition" WHERE id BETWEEN ?1 AND ?1 + 0xFFFF
//	), cte_bot_g1 AS (...)
//	SELECT c0.bot AS bot_g0, c1.bot AS bot_g1,
//	  (SELECT count(*) FROM "transition"
//	   WHERE id BETWEEN ((c0.mid << 48) | (c0.bot << 32) | (c1.bot << 16))
//	     AND ((c0.mid << 48) | (c0.bot << 32) | (c1.bot << 16)) + 0xFFFF) AS ext_count_g0,
//	  (... c1.mid, c1.bot, c0.bot ...) AS ext_count_g1
//	FROM cte_bot_g0 AS c0
//	JOIN cte_bot_g1 AS c1 ON ext_count_g0 > 0
//	WHERE ext_count_g1 > 0
func buildQueryText(layout Layout, table string, period int) (string, error) {
	if period <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrBadPeriod, period)
	}
	if layout != LayoutPacked && layout != LayoutUnpacked {
		return "", fmt.Errorf("%w: layout %s", ErrSchemaMismatch, layout)
	}

	quoted := fmt.Sprintf("%q", table)
	var b strings.Builder

	b.WriteString("WITH ")
	for g := 0; g < period; g++ {
		if g > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "cte_bot_g%d AS (\n", g)
		if layout == LayoutPacked {
			b.WriteString("\tSELECT (id >> 32) & 0xFFFF AS mid, (id >> 16) & 0xFFFF AS next, id & 0xFFFF AS bot\n")
			fmt.Fprintf(&b, "\tFROM %s\n", quoted)
			fmt.Fprintf(&b, "\tWHERE id BETWEEN ?%d AND ?%d + 0xFFFF\n", g+1, g+1)
		} else {
			b.WriteString("\tSELECT \"mid\" AS mid, \"next\" AS next, \"bot\" AS bot\n")
			fmt.Fprintf(&b, "\tFROM %s\n", quoted)
			fmt.Fprintf(&b, "\tWHERE \"top\" = ?%d AND \"mid\" = ?%d AND \"next\" = ?%d\n", 3*g+1, 3*g+2, 3*g+3)
		}
		b.WriteString(")")
	}
	b.WriteString("\nSELECT\n")

	for g := 0; g < period; g++ {
		fmt.Fprintf(&b, "\tc%d.bot AS bot_g%d,\n", g, g)
	}
	for g := 0; g < period; g++ {
		// One-row lookahead: the extension below (bot_g, bot_g+1) has the
		// window (curr.mid, curr.bot, next.bot).
		curr, next := g, (g+1)%period
		if layout == LayoutPacked {
			key := fmt.Sprintf("((c%d.mid << 48) | (c%d.bot << 32) | (c%d.bot << 16))", curr, curr, next)
			fmt.Fprintf(&b, "\t(SELECT count(*) FROM %s WHERE id BETWEEN %s AND %s + 0xFFFF) AS ext_count_g%d",
				quoted, key, key, g)
		} else {
			fmt.Fprintf(&b, "\t(SELECT count(*) FROM %s WHERE \"top\" = c%d.mid AND \"mid\" = c%d.bot AND \"next\" = c%d.bot) AS ext_count_g%d",
				quoted, curr, curr, next, g)
		}
		if g < period-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "FROM cte_bot_g0 AS c0\n")
	for g := 1; g < period; g++ {
		fmt.Fprintf(&b, "JOIN cte_bot_g%d AS c%d ON ext_count_g%d > 0\n", g, g, g-1)
	}
	fmt.Fprintf(&b, "WHERE ext_count_g%d > 0", period-1)

	return b.String(), nil
}
