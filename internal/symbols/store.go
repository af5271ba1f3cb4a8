package symbols

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS symbols (
	name       TEXT    NOT NULL,
	kind       INTEGER NOT NULL,
	target     TEXT    NOT NULL DEFAULT '',
	precedence INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (name, kind)
)`

// Store persists registry entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path. The path
// ":memory:" gives a private in-memory database.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open symbol store %s: %w", path, err)
	}
	// Every connection to :memory: is a different database.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init symbol store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes every entry of reg. Entries already stored are kept, so a
// store accumulates the union of the registries saved into it.
func (s *Store) Save(ctx context.Context, reg *Registry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save symbols: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO symbols (name, kind, target, precedence) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name, kind) DO UPDATE SET target = excluded.target, precedence = excluded.precedence`)
	if err != nil {
		return fmt.Errorf("save symbols: %w", err)
	}
	defer stmt.Close()

	for _, sym := range reg.Symbols() {
		if _, err := stmt.ExecContext(ctx, sym.Name, int(sym.Kind), sym.Target, sym.Precedence); err != nil {
			return fmt.Errorf("save symbol %q: %w", sym.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save symbols: %w", err)
	}
	return nil
}

// Load adds every stored entry to reg and returns how many were read.
// A stored entry that conflicts with reg stops the load.
func (s *Store) Load(ctx context.Context, reg *Registry) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, target, precedence FROM symbols ORDER BY kind, name`)
	if err != nil {
		return 0, fmt.Errorf("load symbols: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var sym Symbol
		var kind int
		if err := rows.Scan(&sym.Name, &kind, &sym.Target, &sym.Precedence); err != nil {
			return n, fmt.Errorf("load symbols: %w", err)
		}
		sym.Kind = SymbolKind(kind)
		if err := reg.Add(sym); err != nil {
			return n, fmt.Errorf("load symbol %q: %w", sym.Name, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("load symbols: %w", err)
	}
	return n, nil
}
