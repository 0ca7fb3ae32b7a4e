package oracle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

// Layout identifies how the transition table stores its rows.
type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutPacked: one signed 64-bit id column,
	// id = (top<<48)|(mid<<32)|(next<<16)|bot, matched by range.
	LayoutPacked
	// LayoutUnpacked: four 16-bit-valued integer columns top, mid, next,
	// bot, matched by equality.
	LayoutUnpacked
)

func (l Layout) String() string {
	switch l {
	case LayoutPacked:
		return "packed"
	case LayoutUnpacked:
		return "unpacked"
	default:
		return "unknown"
	}
}

// Options tunes how the table is opened.
type Options struct {
	// Table is the transition table name. Defaults to "transition".
	Table string
	// CacheGiB sets the sqlite page cache size, in GiB. Zero leaves the
	// default.
	CacheGiB int
}

// Table is a handle on a read-only transition table. It owns the database
// connection and knows the table's layout; queries are built from it once per
// period and reused for the whole run.
type Table struct {
	db     *sql.DB
	name   string
	layout Layout
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens the database at path, applies cache tuning, and detects the
// table layout. An unrecognized layout fails here, once, rather than on every
// query.
func Open(ctx context.Context, path string, opts Options) (*Table, error) {
	if path == "" {
		return nil, errors.New("transition table path is required")
	}
	name := opts.Table
	if name == "" {
		name = "transition"
	}
	if !identPattern.MatchString(name) {
		return nil, fmt.Errorf("invalid table name %q", name)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if opts.CacheGiB > 0 {
		// Negative cache_size is in KiB; 1048576 KiB per GiB.
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d", -1048576*opts.CacheGiB)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set cache size: %w", err)
		}
	}

	layout, err := detectLayout(ctx, db, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Table{db: db, name: name, layout: layout}, nil
}

// Layout returns the detected table layout.
func (t *Table) Layout() Layout {
	return t.layout
}

// Name returns the transition table name.
func (t *Table) Name() string {
	return t.name
}

func (t *Table) Close() error {
	return t.db.Close()
}

func detectLayout(ctx context.Context, db *sql.DB, name string) (Layout, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
	if err != nil {
		return LayoutUnknown, fmt.Errorf("inspect table %s: %w", name, err)
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			colName   string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
			return LayoutUnknown, fmt.Errorf("inspect table %s: %w", name, err)
		}
		columns[colName] = true
	}
	if err := rows.Err(); err != nil {
		return LayoutUnknown, fmt.Errorf("inspect table %s: %w", name, err)
	}

	switch {
	case len(columns) == 0:
		return LayoutUnknown, fmt.Errorf("%w: table %s does not exist", ErrSchemaMismatch, name)
	case columns["top"] && columns["mid"] && columns["next"] && columns["bot"]:
		return LayoutUnpacked, nil
	case columns["id"]:
		return LayoutPacked, nil
	default:
		return LayoutUnknown, fmt.Errorf("%w: table %s has neither an id column nor top/mid/next/bot columns", ErrSchemaMismatch, name)
	}
}
