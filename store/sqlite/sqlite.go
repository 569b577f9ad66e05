/*
Package sqlite provides a SQLite-backed implementation of emissions.Store.

PURPOSE:
  Alternative to the CSV log for deployments that prefer a database file.
  Holds the same five columns as the CSV log plus an autoincrement
  sequence that fixes insertion order.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the entries table
  - No DELETE statements on the entries table
  - Triggers reject UPDATE/DELETE issued by other tools

KEY TABLES:
  entries: Immutable recovery log, ordered by seq

PRECISION:
  Weight and CO2e are stored as TEXT decimal strings so values round-trip
  exactly; SQLite REAL would reintroduce binary floating point.

CONCURRENCY:
  Uses sync.RWMutex for in-process safety. SQLite is opened in WAL mode.

USAGE:
  store, err := sqlite.New("./data/recovery.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := emissions.NewLedger(store, nil)

SEE ALSO:
  - emissions/store.go: Interface definition
  - store/csvlog: Default CSV backend
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/recovery-ledger/emissions"
)

// Store implements emissions.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Entries (append-only recovery log)
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		refrigerant TEXT NOT NULL,
		weight_kg TEXT NOT NULL,
		gwp INTEGER NOT NULL CHECK (gwp > 0),
		co2e_kg TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_refrigerant
		ON entries(refrigerant);

	CREATE TRIGGER IF NOT EXISTS entries_no_update
		BEFORE UPDATE ON entries
		BEGIN SELECT RAISE(ABORT, 'entries are append-only'); END;

	CREATE TRIGGER IF NOT EXISTS entries_no_delete
		BEFORE DELETE ON entries
		BEGIN SELECT RAISE(ABORT, 'entries are append-only'); END;
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append adds one entry at the end of the log.
func (s *Store) Append(ctx context.Context, e emissions.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO entries (date, refrigerant, weight_kg, gwp, co2e_kg, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.Date.String(),
		string(e.Refrigerant),
		e.WeightKg.String(),
		e.GWP,
		e.CO2eKg.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return emissions.NewPersistenceError("append", fmt.Errorf("failed to append entry: %w", err))
	}
	return nil
}

// Load returns all entries in insertion order.
func (s *Store) Load(ctx context.Context) ([]emissions.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, refrigerant, weight_kg, gwp, co2e_kg
		FROM entries
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, emissions.NewPersistenceError("load", err)
	}
	defer rows.Close()

	entries := []emissions.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, emissions.NewPersistenceError("load", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, emissions.NewPersistenceError("load", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, emissions.NewPersistenceError("load", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (emissions.Entry, error) {
	var (
		date, refrigerant, weight, co2e string
		gwp                             int64
	)
	if err := rows.Scan(&date, &refrigerant, &weight, &gwp, &co2e); err != nil {
		return emissions.Entry{}, err
	}

	d, err := emissions.ParseDate(date)
	if err != nil {
		return emissions.Entry{}, err
	}
	w, err := decimal.NewFromString(weight)
	if err != nil {
		return emissions.Entry{}, fmt.Errorf("weight %q: %w", weight, err)
	}
	c, err := decimal.NewFromString(co2e)
	if err != nil {
		return emissions.Entry{}, fmt.Errorf("co2e %q: %w", co2e, err)
	}

	return emissions.Entry{
		Date:        d,
		Refrigerant: emissions.Refrigerant(refrigerant),
		WeightKg:    w,
		GWP:         gwp,
		CO2eKg:      c,
	}, nil
}

var _ emissions.Store = (*Store)(nil)
