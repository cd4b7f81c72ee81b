// Package catalog keeps a searchable index of the dumps of simulation runs
// in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	pic "github.com/rmera/gopic"
)

//go:embed schema.sql
var schemaSQL string

// Catalog is an index of dumps, stored in SQLite with WAL mode.
type Catalog struct {
	db *sql.DB
}

// Entry is the indexed information of one dump.
type Entry struct {
	RunID      string
	Position   int
	Path       string
	Step       int
	Time       float64
	Dimensions int //0 if the code name of the dump was not understood
	Species    []string
	Derived    []string
}

// Open creates or opens the catalog at path. It is safe to open the
// same catalog more than once.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}
	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Index reads every dump of seq and records it under a new run, whose id
// is returned. Nothing is recorded if any dump fails.
func Index[R pic.DumpReader](ctx context.Context, c *Catalog, seq *pic.Sequence[R]) (string, error) {
	runID := uuid.Must(uuid.NewV7()).String()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin index: %w", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, manifest, created_at, dumps) VALUES (?, ?, ?, ?)`,
		runID, seq.Manifest(), time.Now().UTC().Format(time.RFC3339), seq.Len())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	err = seq.Visit(func(i int, r R) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := entryOf(r)
		if err != nil {
			return err
		}
		e.RunID = runID
		e.Position = i
		return insertEntry(ctx, tx, e)
	})
	if err != nil {
		return "", fmt.Errorf("index %s: %w", seq.Manifest(), err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit index: %w", err)
	}
	return runID, nil
}

// entryOf collects the catalog information of one dump.
func entryOf(r pic.DumpReader) (Entry, error) {
	e := Entry{Path: r.Name(), Species: r.ListSpecies(), Derived: r.GetDerived()}
	var err error
	if e.Step, err = r.Timestep(); err != nil {
		return e, err
	}
	if e.Time, err = r.Time(); err != nil {
		return e, err
	}
	if d, err := r.SimDimensions(); err == nil {
		e.Dimensions = d
	} else if !errors.Is(err, pic.ErrFormat) && !errors.Is(err, pic.ErrKeyNotFound) {
		return e, err
	}
	return e, nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, e Entry) error {
	species, err := json.Marshal(nonNil(e.Species))
	if err != nil {
		return err
	}
	derived, err := json.Marshal(nonNil(e.Derived))
	if err != nil {
		return err
	}
	var dims sql.NullInt64
	if e.Dimensions > 0 {
		dims = sql.NullInt64{Int64: int64(e.Dimensions), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO dumps (run_id, position, path, step, time, dimensions, species, derived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Position, e.Path, e.Step, e.Time, dims, string(species), string(derived))
	if err != nil {
		return fmt.Errorf("insert dump %s: %w", e.Path, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const selectEntries = `SELECT d.run_id, d.position, d.path, d.step, d.time, d.dimensions, d.species, d.derived
	FROM dumps d JOIN runs r ON r.id = d.run_id`

// Entries returns every indexed dump, in indexing order.
func (c *Catalog) Entries(ctx context.Context) ([]Entry, error) {
	return c.query(ctx, selectEntries+` ORDER BY r.rowid, d.position`)
}

// ByStep returns the indexed dumps written at the given simulation step.
func (c *Catalog) ByStep(ctx context.Context, step int) ([]Entry, error) {
	return c.query(ctx, selectEntries+` WHERE d.step = ? ORDER BY r.rowid, d.position`, step)
}

// Run returns the dumps indexed in the run runID.
func (c *Catalog) Run(ctx context.Context, runID string) ([]Entry, error) {
	return c.query(ctx, selectEntries+` WHERE d.run_id = ? ORDER BY d.position`, runID)
}

func (c *Catalog) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()
	var ret []Entry
	for rows.Next() {
		var e Entry
		var dims sql.NullInt64
		var species, derived string
		if err := rows.Scan(&e.RunID, &e.Position, &e.Path, &e.Step, &e.Time, &dims, &species, &derived); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if dims.Valid {
			e.Dimensions = int(dims.Int64)
		}
		if err := json.Unmarshal([]byte(species), &e.Species); err != nil {
			return nil, fmt.Errorf("species of %s: %w", e.Path, err)
		}
		if err := json.Unmarshal([]byte(derived), &e.Derived); err != nil {
			return nil, fmt.Errorf("derived keys of %s: %w", e.Path, err)
		}
		ret = append(ret, e)
	}
	return ret, rows.Err()
}
