package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    profile TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

// SQLStore keeps profiles in a SQLite or PostgreSQL table.
type SQLStore struct {
	db       *sql.DB
	logger   *zap.Logger
	getQuery string
	putQuery string
}

// Open connects to the database, verifies the connection and creates the
// schema.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s, err := NewSQLStore(ctx, db, driver, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open connection and creates the schema. It is safe to
// call on an existing database.
func NewSQLStore(ctx context.Context, db *sql.DB, driver string, logger *zap.Logger) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &SQLStore{db: db, logger: logger}
	switch driver {
	case DriverPostgres:
		s.getQuery = `SELECT profile FROM profiles WHERE user_id = $1`
		s.putQuery = `INSERT INTO profiles (user_id, profile, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`
	default:
		s.getQuery = `SELECT profile FROM profiles WHERE user_id = ?`
		s.putQuery = `INSERT INTO profiles (user_id, profile, updated_at) VALUES (?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`
	}
	return s, nil
}

func (s *SQLStore) Get(ctx context.Context, userID string) (models.ProfileInput, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.getQuery, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProfileInput{}, ErrNotFound
	}
	if err != nil {
		return models.ProfileInput{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var p models.ProfileInput
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.ProfileInput{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p.Redacted(), nil
}

func (s *SQLStore) Save(ctx context.Context, userID string, profile models.ProfileInput) error {
	raw, err := json.Marshal(profile.Redacted())
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.putQuery, userID, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Debug("Profile saved", zap.String("user_id", userID))
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
