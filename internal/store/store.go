package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/sadopc/lifelog/internal/model"
)

const currentVersion = 1

type Store struct {
	db     *sql.DB
	loc    *time.Location
	logger hclog.Logger
	now    func() time.Time
}

type Option func(*Store)

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("store")
		}
	}
}

// WithClock replaces time.Now for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, opts ...Option) (*Store, error) {
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

	s := &Store{db: db, loc: time.Local, logger: hclog.NewNullLogger(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(opts ...Option) (*Store, error) {
	return New(":memory:", opts...)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Location is the time zone calendar days are computed in.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
		s.logger.Info("database initialised", "version", 1)
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL,
		icon        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		is_default  INTEGER NOT NULL DEFAULT 0,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS logs (
		id          TEXT PRIMARY KEY,
		start_time  TEXT NOT NULL,
		end_time    TEXT,
		description TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logs_start ON logs(start_time);
	CREATE INDEX IF NOT EXISTS idx_logs_end   ON logs(end_time);

	CREATE TABLE IF NOT EXISTS log_categories (
		log_id      TEXT NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES categories(id),
		position    INTEGER NOT NULL,
		PRIMARY KEY (log_id, category_id)
	);

	CREATE INDEX IF NOT EXISTS idx_log_categories_category ON log_categories(category_id);

	CREATE TABLE IF NOT EXISTS segments (
		id           TEXT PRIMARY KEY,
		parent_id    TEXT NOT NULL REFERENCES logs(id) ON DELETE CASCADE,
		date         TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		duration     INTEGER NOT NULL,
		category_ids TEXT NOT NULL,
		description  TEXT NOT NULL,
		location     TEXT NOT NULL DEFAULT '',
		is_first     INTEGER NOT NULL,
		is_last      INTEGER NOT NULL,
		UNIQUE (parent_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_segments_date ON segments(date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start',          'monday'),
		('long_task_threshold', '6'),
		('export_format',       'csv');
	`
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(ddl); err != nil {
		return err
	}
	now := formatTime(s.now())
	for _, c := range model.DefaultCategories {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO categories (id, name, color, icon, description, is_default, sort_order, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)`,
			c.ID, c.Name, c.Color, c.Icon, c.Description, c.SortOrder, now, now,
		)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Timestamps are stored as RFC 3339 UTC text truncated to the second, which
// keeps lexical and chronological order identical.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// notFound maps sql.ErrNoRows to model.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// DefaultDBPath returns ~/.config/lifelog/lifelog.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "lifelog", "lifelog.db"), nil
}
