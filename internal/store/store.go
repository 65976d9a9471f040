package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 2

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath. It does not create
// any tables; call Migrate once before serving traffic.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	return &Store{db: db}, nil
}

// NewMemory creates a migrated in-memory store for testing.
func NewMemory() (*Store, error) {
	s, err := Open(":memory:")
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that a connection can be acquired.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withConn runs fn on a dedicated connection that is released on every
// exit path.
func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// Migrate brings the schema up to currentVersion. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		var version int
		if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("read user_version: %w", err)
		}

		if version >= currentVersion {
			return nil
		}

		if version < 1 {
			if err := migrateV1(ctx, conn); err != nil {
				return fmt.Errorf("migrate v1: %w", err)
			}
		}
		if version < 2 {
			if err := migrateV2(ctx, conn); err != nil {
				return fmt.Errorf("migrate v2: %w", err)
			}
		}

		_, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
		return err
	})
}

func migrateV1(ctx context.Context, conn *sql.Conn) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS samples (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		app_name     TEXT NOT NULL,
		window_title TEXT NOT NULL DEFAULT '',
		duration     INTEGER NOT NULL CHECK (duration >= 0),
		captured_at  TEXT NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_samples_captured ON samples(captured_at);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('daily_goal',   '28800'),
		('chart_apps',   '6'),
		('recent_limit', '50');
	`
	_, err := conn.ExecContext(ctx, ddl)
	return err
}

// migrateV2 keeps the submitted timestamp text next to the normalised one.
func migrateV2(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx,
		`ALTER TABLE samples ADD COLUMN captured_raw TEXT NOT NULL DEFAULT ''`)
	return err
}

// DefaultDBPath returns ~/.config/efficia/efficia.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "efficia", "efficia.db"), nil
}
