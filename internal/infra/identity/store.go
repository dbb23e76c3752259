// Package identity provides the remembered-username store.
//
// The store is a best-effort convenience: every failure is logged and
// swallowed so that it can never abort a login or logout. Callers that
// need to tell "nothing remembered" apart from "storage is disabled" use
// Lookup instead of Get.
package identity

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"
)

// Key is the slot name holding the remembered username.
const Key = "rememberUser"

const schema = `CREATE TABLE IF NOT EXISTS remembered (
	origin TEXT NOT NULL,
	key    TEXT NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (origin, key)
)`

// State is the outcome of a Lookup.
type State int

const (
	StateUnavailable State = iota // Storage could not be used
	StateAbsent                   // Nothing stored
	StatePresent                  // A value (possibly empty) is stored
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	default:
		return "unknown"
	}
}

// Lookup is the tri-state result of reading the slot.
type Lookup struct {
	State State
	Value string
}

// Store is a durable per-origin slot for one remembered username.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	origin string
}

// Open opens (or creates) the SQLite database at path and scopes the slot to origin.
// It never fails: if the database cannot be opened the returned store is unavailable.
func Open(path, origin string) *Store {
	db, err := openDatabase(path)
	if err != nil {
		zlog.Debug().Msgf("remembered identity store unavailable: %v", err)
		return &Store{origin: origin}
	}
	return &Store{db: db, origin: origin}
}

// Unavailable returns a store that behaves as if storage were disabled.
func Unavailable() *Store {
	return &Store{}
}

func openDatabase(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("no database path configured")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create state directory")
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return db, nil
}

// Available reports whether the backing storage was opened.
func (s *Store) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}

// Lookup reads the slot and reports whether storage was usable.
func (s *Store) Lookup(ctx context.Context) Lookup {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return Lookup{State: StateUnavailable}
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM remembered WHERE origin = ? AND key = ?`, s.origin, Key,
	).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Lookup{State: StateAbsent}
	case err != nil:
		zlog.Debug().Msgf("failed to read remembered identity: %v", err)
		return Lookup{State: StateUnavailable}
	}
	return Lookup{State: StatePresent, Value: value}
}

// Get returns the remembered username, or "" when none is stored or storage is unavailable.
func (s *Store) Get(ctx context.Context) string {
	return s.Lookup(ctx).Value
}

// Set stores username. An empty username stores an empty marker, which is
// not the same as Clear but still reads back as "" from Get.
func (s *Store) Set(ctx context.Context, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO remembered (origin, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (origin, key) DO UPDATE SET value = excluded.value`,
		s.origin, Key, username,
	)
	if err != nil {
		zlog.Debug().Msgf("failed to store remembered identity: %v", err)
	}
}

// Clear removes the remembered username.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM remembered WHERE origin = ? AND key = ?`, s.origin, Key,
	)
	if err != nil {
		zlog.Debug().Msgf("failed to clear remembered identity: %v", err)
	}
}

// Close releases the database. The store keeps answering as unavailable afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
