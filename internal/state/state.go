// Package state persists the small bits of console state that must
// survive a restart, most importantly which clinic is active. The store
// mirrors the one-value-per-key shape of a browser's local storage, with
// clinic records kept as JSON blobs.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"organicare/internal/model"
)

const activeClinicKey = "activeClinic"

// Store is the SQLite-backed state store.
type Store struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// Open initializes the state database and creates its table if missing.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to state database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create state tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("State store initialized")
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS console_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	return err
}

// SaveActiveClinic stores the active clinic, including any local edits to
// its config, so a restart resumes on the same clinic.
func (s *Store) SaveActiveClinic(ctx context.Context, clinic model.Clinic) error {
	value, err := json.Marshal(clinic)
	if err != nil {
		return fmt.Errorf("encode active clinic: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO console_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		activeClinicKey, string(value), time.Now())
	return err
}

// LoadActiveClinic returns the saved active clinic, or nil when nothing
// has been saved yet. A record that no longer decodes is discarded rather
// than wedging startup.
func (s *Store) LoadActiveClinic(ctx context.Context) (*model.Clinic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM console_state WHERE key = ?`, activeClinicKey)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var clinic model.Clinic
	if err := json.Unmarshal([]byte(value), &clinic); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable active clinic record")
		if _, delErr := s.db.ExecContext(ctx,
			`DELETE FROM console_state WHERE key = ?`, activeClinicKey); delErr != nil {
			return nil, delErr
		}
		return nil, nil
	}
	return &clinic, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
