package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// Session is a handle over one open GeoPackage file. It implements
// types.GeoPackage. All operations run synchronously on the caller's
// goroutine; the mutex serializes writers so the session never holds two
// transactions at once.
type Session struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// Create makes a new GeoPackage file at path: tags it with the GeoPackage
// application id, creates the three metadata tables, and seeds the two
// "undefined" spatial reference systems. Fails with ErrFileExists when the
// path is already occupied, so metadata creation runs at most once per
// file.
func Create(path string, opts types.OpenOptions) (*Session, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileExists, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Session{db: db, path: path}

	// A half-initialized file must not survive a failed Create, or the
	// retry would hit ErrFileExists.
	fail := func(e error) (*Session, error) {
		db.Close()
		os.Remove(path)
		return nil, e
	}

	if err := s.configure(opts); err != nil {
		return fail(err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA application_id = %d", applicationID)); err != nil {
		return fail(fmt.Errorf("tagging application id: %w", err))
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", userVersion)); err != nil {
		return fail(fmt.Errorf("tagging user version: %w", err))
	}
	if err := s.createMetadataTables(); err != nil {
		return fail(err)
	}
	return s, nil
}

// Open attaches to an existing GeoPackage file. Fails with ErrFileNotFound
// when the file does not exist; Open never creates one.
func Open(path string, opts types.OpenOptions) (*Session, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Session{db: db, path: path}
	if err := s.configure(opts); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// configure applies connection-level pragmas common to Open and Create.
func (s *Session) configure(opts types.OpenOptions) error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if opts.WAL {
		if _, err := s.db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			return fmt.Errorf("enabling WAL mode: %w", err)
		}
	}
	return nil
}

// Path returns the file path the session was opened on.
func (s *Session) Path() string { return s.path }

// Close releases the database connection. Idempotent: closing a closed
// session succeeds.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// guard returns ErrSessionClosed when the session is no longer usable.
// Callers must hold at least a read lock.
func (s *Session) guard() error {
	if s.closed {
		return types.ErrSessionClosed
	}
	return nil
}
