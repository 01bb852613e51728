// Package history records exports and unpacks in a SQLite database.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3" // Import SQLite driver

	"github.com/hayeah/fdl/internal/logging"
)

// Kinds of recorded operations.
const (
	KindClipboard = "clipboard" // browser export to the clipboard
	KindFile      = "file"      // browser export to a file
	KindPack      = "pack"
	KindUnpack    = "unpack"
)

// Entry is one recorded operation.
type Entry struct {
	ID        int64     `db:"id"`
	Kind      string    `db:"kind"`
	Root      string    `db:"root"`   // scanned directory, or unpack destination
	Target    string    `db:"target"` // output file, "clipboard" or "stdout"
	Files     int       `db:"files"`
	Bytes     int64     `db:"bytes"`
	Tokens    int       `db:"tokens"`
	CreatedAt time.Time `db:"created_at"`
}

// Migration is a named schema change applied once.
type Migration struct {
	Name string
	Up   string
}

var migrations = []Migration{
	{
		Name: "create_entries_table",
		Up: `
			CREATE TABLE IF NOT EXISTS entries (
				id INTEGER PRIMARY KEY,
				kind TEXT NOT NULL,
				root TEXT NOT NULL,
				target TEXT NOT NULL,
				files INTEGER NOT NULL,
				bytes INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
	},
	{
		Name: "add_entries_tokens",
		Up:   `ALTER TABLE entries ADD COLUMN tokens INTEGER NOT NULL DEFAULT 0`,
	},
}

// Store is the history database.
type Store struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// Open opens, creating if needed, the database at path and brings its schema
// up to date.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.L()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	s := &Store{DB: db, Logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied int
		if err := s.DB.Get(&applied, "SELECT COUNT(*) FROM migrations WHERE name = ?", m.Name); err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.Name, err)
		}
		if applied > 0 {
			continue
		}

		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (name, applied_at) VALUES (?, ?)", m.Name, time.Now()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		s.Logger.Debug("migration applied", zap.String("name", m.Name))
	}
	return nil
}

// Record appends e and returns its id. A zero CreatedAt is set to now.
func (s *Store) Record(e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	result, err := s.DB.NamedExec(
		`INSERT INTO entries (kind, root, target, files, bytes, tokens, created_at)
		 VALUES (:kind, :root, :target, :files, :bytes, :tokens, :created_at)`,
		e,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record %s: %w", e.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	var entries []Entry
	err := s.DB.Select(&entries,
		"SELECT id, kind, root, target, files, bytes, tokens, created_at FROM entries ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Recorder is the write side of the history, as used by the browser and the
// pack and unpack commands.
type Recorder interface {
	Record(e Entry) (int64, error)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(Entry) (int64, error) { return 0, nil }
