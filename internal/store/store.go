// Package store handles SQLite persistence of the progress record.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/verte-zerg/podium/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ProgressKey is the key the progress record is stored under.
const ProgressKey = "progress"

// ErrCorruptRecord is returned with default progress when the stored
// record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt progress record")

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a single-table key-value store on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			if cerr := db.Close(); cerr != nil {
				// Best-effort close on pragma failure.
				_ = cerr
			}
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(s.db, "migrations")
}

// Get returns the raw value for key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Load returns the progress record. A missing record yields the defaults;
// an unreadable one yields the defaults and ErrCorruptRecord.
func (s *Store) Load(ctx context.Context) (model.Progress, error) {
	raw, ok, err := s.Get(ctx, ProgressKey)
	if err != nil {
		return model.DefaultProgress(), err
	}
	if !ok {
		return model.DefaultProgress(), nil
	}
	var p model.Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.DefaultProgress(), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if p.Sessions == nil {
		p.Sessions = []model.Session{}
	}
	if p.CompletedTips == nil {
		p.CompletedTips = []string{}
	}
	return p, nil
}

// Save replaces the progress record.
func (s *Store) Save(ctx context.Context, p model.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return s.Put(ctx, ProgressKey, string(data))
}
