package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/internhunt/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL,
	phone_number      TEXT NOT NULL DEFAULT '',
	tech_stacks       TEXT NOT NULL,
	location          TEXT NOT NULL,
	city              TEXT NOT NULL DEFAULT '',
	project_details   TEXT NOT NULL DEFAULT '',
	experience        TEXT NOT NULL DEFAULT '',
	preferred_role    TEXT NOT NULL DEFAULT '',
	sms_notifications INTEGER NOT NULL DEFAULT 0,
	created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_candidates_email ON candidates(email);`

const sqliteInsert = `
	INSERT INTO candidates (
		id, name, email, phone_number, tech_stacks, location, city,
		project_details, experience, preferred_role, sms_notifications
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLite is the local single-file candidate store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens path (or ":memory:") and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "sqlite://")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: a single writer, and ":memory:" lives per connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate candidates: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Name() string { return DriverSQLite }

func (s *SQLite) Insert(ctx context.Context, rec models.CandidateRecord) error {
	if _, err := s.db.ExecContext(ctx, sqliteInsert, candidateArgs(rec)...); err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Count returns how many candidates with email have been stored.
func (s *SQLite) Count(ctx context.Context, email string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE email = ?`, email).Scan(&n)
	return n, err
}
