// Package index stores exported events in SQLite for later querying.
package index

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // SQLite driver registration

	"github.com/majorcontext/babeltrace/internal/export"
)

// ErrNotFound is returned when no indexed event matches.
var ErrNotFound = errors.New("event not found")

// Store is an SQLite-backed event index.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NameStat summarises the events sharing one name.
type NameStat struct {
	Name  string
	Count uint64
	// Timed is false when no event of the name had a timestamp; First and
	// Last are zero then.
	Timed bool
	First uint64
	Last  uint64
}

// Open opens or creates an index at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS traces (
			id   INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS events (
			seq    INTEGER PRIMARY KEY,
			ts     INTEGER NOT NULL,
			no_ts  INTEGER NOT NULL DEFAULT 0,
			name   TEXT NOT NULL,
			fields BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);
		CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddTraces records the trace directories an index was built from.
func (s *Store) AddTraces(paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO traces (path) VALUES (?)`, p); err != nil {
			return fmt.Errorf("inserting trace %s: %w", p, err)
		}
	}
	return nil
}

// Traces returns the recorded trace directories.
func (s *Store) Traces() ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM traces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying traces: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// InsertBatch appends records in one transaction.
func (s *Store) InsertBatch(records []export.Record) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (ts, no_ts, name, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	for _, r := range records {
		buf.Reset()
		if err := enc.Encode(r.Scopes); err != nil {
			return fmt.Errorf("marshaling fields of %s: %w", r.Name, err)
		}
		// SQLite integers are signed; the bit pattern round-trips through int64.
		if _, err := stmt.Exec(int64(r.Timestamp), r.NoTimestamp, r.Name, bytes.Clone(buf.Bytes())); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed events.
func (s *Store) Count() (uint64, error) {
	var n uint64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// Stats returns per-name counts and timestamp bounds ordered by name. An
// empty name selects every event name. Events without a timestamp count but
// do not move the bounds.
func (s *Store) Stats(name string) ([]NameStat, error) {
	rows, err := s.db.Query(`
		SELECT name, COUNT(*), COUNT(CASE WHEN no_ts = 0 THEN 1 END) > 0,
		       COALESCE(MIN(CASE WHEN no_ts = 0 THEN ts END), 0),
		       COALESCE(MAX(CASE WHEN no_ts = 0 THEN ts END), 0)
		FROM events
		WHERE ? = '' OR name = ?
		GROUP BY name
		ORDER BY name
	`, name, name)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var stats []NameStat
	for rows.Next() {
		var st NameStat
		var first, last int64
		if err := rows.Scan(&st.Name, &st.Count, &st.Timed, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		st.First, st.Last = uint64(first), uint64(last)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Events returns up to limit events named name in the order they were indexed.
func (s *Store) Events(name string, limit int) ([]export.Record, error) {
	rows, err := s.db.Query(`
		SELECT name, ts, no_ts, fields FROM events
		WHERE name = ?
		ORDER BY seq
		LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var records []export.Record
	for rows.Next() {
		var r export.Record
		var ts int64
		var fields []byte
		if err := rows.Scan(&r.Name, &ts, &r.NoTimestamp, &fields); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		r.Timestamp = uint64(ts)
		if err := msgpack.Unmarshal(fields, &r.Scopes); err != nil {
			return nil, fmt.Errorf("decoding fields: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
