// Package sqlitestore provides the persistent credential store driver. It is
// the durable equivalent of a browser profile: credentials survive process
// restarts and live until explicitly cleared.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists credential key/value pairs in a single SQLite table. Per the
// credential store contract, read failures degrade to absence and write
// failures drop the value; neither is surfaced to the caller. Failures are
// logged so operators can spot a broken profile.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the credential database at path and applies pending
// migrations.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate credential store: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Write(key, value string) {
	_, err := s.db.Exec(
		`INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("credential write dropped", "key", key, "err", err)
	}
}

func (s *Store) Read(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("credential read degraded to absent", "key", key, "err", err)
		return "", false
	}
	return value, true
}

func (s *Store) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, key); err != nil {
		s.logger.Warn("credential remove failed", "key", key, "err", err)
	}
}
