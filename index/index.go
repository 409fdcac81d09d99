// Copyright © 2026 The futurec authors

// Package index exports the workspace script registry to SQLite so that
// other tools can look up where a script lives without scanning the tree.
package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/futurec/futurec/analysis"
)

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT    NOT NULL,
	number     INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	uri        TEXT    NOT NULL,
	start_line INTEGER NOT NULL,
	end_line   INTEGER NOT NULL,
	terminated INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scripts_number ON scripts(number);
CREATE TABLE IF NOT EXISTS includes (
	script INTEGER NOT NULL REFERENCES scripts(id) ON DELETE CASCADE,
	target INTEGER NOT NULL,
	line   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_includes_target ON includes(target);
CREATE TABLE IF NOT EXISTS hooks (
	script INTEGER NOT NULL REFERENCES scripts(id) ON DELETE CASCADE,
	name   TEXT    NOT NULL,
	number INTEGER NOT NULL,
	line   INTEGER NOT NULL
);
`

// DB is a script registry database.
type DB struct {
	db   *sql.DB
	path string
}

// Entry is one stored block. Lines are 0-based.
type Entry struct {
	Kind       string
	Number     int
	Name       string
	URI        string
	StartLine  int
	EndLine    int
	Terminated bool
}

// IncludeRef is a stored includescript occurrence.
type IncludeRef struct {
	Script Entry
	Line   int
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	return open(path, path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
}

// OpenMemory opens an in-memory database.
func OpenMemory() (*DB, error) {
	return open(":memory:", ":memory:?_pragma=foreign_keys(ON)")
}

func open(path, dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Path returns the database location.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Store replaces the database contents with every block of ix.
func (d *DB) Store(ctx context.Context, ix *analysis.Index) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := store(ctx, tx, ix); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func store(ctx context.Context, tx *sql.Tx, ix *analysis.Index) error {
	for _, table := range []string{"includes", "hooks", "scripts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, s := range ix.Scripts() {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO scripts (kind, number, name, uri, start_line, end_line, terminated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.Kind.String(), s.ID, s.Name, s.URI, s.Range.Start.Line, s.Range.End.Line, s.Terminated)
		if err != nil {
			return fmt.Errorf("insert %s: %w", s, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert %s: %w", s, err)
		}
		for _, inc := range s.Includes {
			if !inc.Valid {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO includes (script, target, line) VALUES (?, ?, ?)`,
				id, inc.ID, inc.Range.Start.Line); err != nil {
				return fmt.Errorf("insert include: %w", err)
			}
		}
		for _, h := range s.Hooks {
			if h.Malformed {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO hooks (script, name, number, line) VALUES (?, ?, ?, ?)`,
				id, h.Name, h.Number, h.Range.Start.Line); err != nil {
				return fmt.Errorf("insert hook: %w", err)
			}
		}
	}
	return nil
}

const entryColumns = `s.kind, s.number, s.name, s.uri, s.start_line, s.end_line, s.terminated`

// Lookup returns the blocks declaring or inserting into script number,
// in stored order.
func (d *DB) Lookup(ctx context.Context, number int) ([]Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM scripts s WHERE s.number = ? ORDER BY s.id`, number)
	if err != nil {
		return nil, fmt.Errorf("lookup %d: %w", number, err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Includers returns the includescript occurrences referencing number.
func (d *DB) Includers(ctx context.Context, number int) ([]IncludeRef, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+entryColumns+`, i.line FROM includes i JOIN scripts s ON s.id = i.script
		 WHERE i.target = ? ORDER BY s.id, i.line`, number)
	if err != nil {
		return nil, fmt.Errorf("includers of %d: %w", number, err)
	}
	defer rows.Close()
	var refs []IncludeRef
	for rows.Next() {
		var ref IncludeRef
		e := &ref.Script
		if err := rows.Scan(&e.Kind, &e.Number, &e.Name, &e.URI, &e.StartLine, &e.EndLine, &e.Terminated, &ref.Line); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Hooks returns the hook names declared by script number, sorted.
func (d *DB) Hooks(ctx context.Context, number int) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT DISTINCT h.name FROM hooks h JOIN scripts s ON s.id = h.script
		 WHERE s.number = ? AND s.kind = ? ORDER BY h.name`, number, analysis.KindScript.String())
	if err != nil {
		return nil, fmt.Errorf("hooks of %d: %w", number, err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of stored blocks.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&n)
	return n, err
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	err := rows.Scan(&e.Kind, &e.Number, &e.Name, &e.URI, &e.StartLine, &e.EndLine, &e.Terminated)
	return e, err
}
