package oracle

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createFixture writes a transition table in the given layout and returns
// the database path.
func createFixture(t *testing.T, layout Layout, rows []TransitionRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transition.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if layout == LayoutPacked {
		if _, err := db.Exec(`CREATE TABLE transition (id INTEGER PRIMARY KEY)`); err != nil {
			t.Fatalf("create packed table: %v", err)
		}
		for _, r := range rows {
			if _, err := db.Exec(`INSERT INTO transition (id) VALUES (?)`, r.ID()); err != nil {
				t.Fatalf("insert packed row: %v", err)
			}
		}
		return path
	}

	if _, err := db.Exec(`CREATE TABLE transition ("top" INTEGER NOT NULL, "mid" INTEGER NOT NULL, "next" INTEGER NOT NULL, "bot" INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create unpacked table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO transition ("top", "mid", "next", "bot") VALUES (?, ?, ?, ?)`,
			int64(r.Top), int64(r.Mid), int64(r.Next), int64(r.Bot)); err != nil {
			t.Fatalf("insert unpacked row: %v", err)
		}
	}
	return path
}

func openFixture(t *testing.T, layout Layout, rows []TransitionRow, opts Options) *Table {
	t.Helper()
	path := createFixture(t, layout, rows)
	table, err := Open(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("open table: %v", err)
	}
	t.Cleanup(func() {
		_ = table.Close()
	})
	return table
}

func TestOpenDetectsPackedLayout(t *testing.T) {
	table := openFixture(t, LayoutPacked, nil, Options{})
	if table.Layout() != LayoutPacked {
		t.Fatalf("layout = %s, want packed", table.Layout())
	}
}

func TestOpenDetectsUnpackedLayout(t *testing.T) {
	table := openFixture(t, LayoutUnpacked, nil, Options{})
	if table.Layout() != LayoutUnpacked {
		t.Fatalf("layout = %s, want unpacked", table.Layout())
	}
}

func TestOpenMissingTableIsSchemaMismatch(t *testing.T) {
	path := createFixture(t, LayoutPacked, nil)
	_, err := Open(context.Background(), path, Options{Table: "no_such_table"})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestOpenUnknownColumnsIsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE transition (a INTEGER, b INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = db.Close()

	_, err = Open(context.Background(), path, Options{})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestOpenRejectsEmptyPathAndBadTableName(t *testing.T) {
	if _, err := Open(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	path := createFixture(t, LayoutPacked, nil)
	if _, err := Open(context.Background(), path, Options{Table: "bad name; drop"}); err == nil {
		t.Fatal("expected error for invalid table name")
	}
}

func TestOpenAppliesCacheTuning(t *testing.T) {
	table := openFixture(t, LayoutPacked, nil, Options{CacheGiB: 1})
	if table.Layout() != LayoutPacked {
		t.Fatalf("layout = %s, want packed", table.Layout())
	}
}

func TestOpenReportsTableName(t *testing.T) {
	table := openFixture(t, LayoutPacked, nil, Options{})
	if table.Name() != "transition" {
		t.Fatalf("name = %q, want the default %q", table.Name(), "transition")
	}
}

func TestOpenFailsOnNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database at all"), 0o644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}
	if _, err := Open(context.Background(), path, Options{}); err == nil {
		t.Fatal("expected error opening a non-database file")
	}
}
