// Package store provides storage backends for Svitlo.
//
// This file implements the SQLite-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/svitlo-ai/svitlo/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, userID string, defaultLang models.Lang, defaultCountry models.Country) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, models.ErrEmptyUserID
	}
	var u models.UserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, lang, country, created_at FROM users WHERE user_id = ?`, userID).
		Scan(&u.UserID, &u.Lang, &u.Country, &u.CreatedAt)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		slog.Error("SQLiteStore GetOrCreateUser query failed", "error", err, "userID", userID)
		return models.UserProfile{}, fmt.Errorf("failed to query user %s: %w", userID, err)
	}

	u = models.UserProfile{UserID: userID, Lang: defaultLang, Country: defaultCountry, CreatedAt: time.Now().UTC()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, lang, country, created_at) VALUES (?, ?, ?, ?)`,
		u.UserID, u.Lang, u.Country, u.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore GetOrCreateUser insert failed", "error", err, "userID", userID)
		return models.UserProfile{}, fmt.Errorf("failed to create user %s: %w", userID, err)
	}
	slog.Info("SQLiteStore created user", "userID", userID, "lang", u.Lang, "country", u.Country)
	return u, nil
}

func (s *SQLiteStore) SetUserLang(ctx context.Context, userID string, lang models.Lang) error {
	if !models.IsValidLang(lang) {
		return models.ErrInvalidLang
	}
	_, err := s.db.ExecContext(ctx, `UPDATE users SET lang = ? WHERE user_id = ?`, lang, userID)
	if err != nil {
		slog.Error("SQLiteStore SetUserLang failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to update lang for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore SetUserLang succeeded", "userID", userID, "lang", lang)
	return nil
}

func (s *SQLiteStore) SetUserCountry(ctx context.Context, userID string, country models.Country) error {
	if !models.IsValidCountry(country) {
		return models.ErrInvalidCountry
	}
	_, err := s.db.ExecContext(ctx, `UPDATE users SET country = ? WHERE user_id = ?`, country, userID)
	if err != nil {
		slog.Error("SQLiteStore SetUserCountry failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to update country for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore SetUserCountry succeeded", "userID", userID, "country", country)
	return nil
}

func (s *SQLiteStore) AddCheckin(ctx context.Context, c models.Checkin) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkins (user_id, ts, stress, triggers, sleep_hours, micro_goal) VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Time, c.Stress, c.Triggers, c.SleepHours, c.MicroGoal)
	if err != nil {
		slog.Error("SQLiteStore AddCheckin failed", "error", err, "userID", c.UserID)
		return fmt.Errorf("failed to insert checkin for %s: %w", c.UserID, err)
	}
	slog.Debug("SQLiteStore AddCheckin succeeded", "userID", c.UserID)
	return nil
}

func (s *SQLiteStore) AddTrigger(ctx context.Context, t models.Trigger) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO triggers (user_id, ts, note) VALUES (?, ?, ?)`, t.UserID, t.Time, t.Note)
	if err != nil {
		slog.Error("SQLiteStore AddTrigger failed", "error", err, "userID", t.UserID)
		return fmt.Errorf("failed to insert trigger for %s: %w", t.UserID, err)
	}
	slog.Debug("SQLiteStore AddTrigger succeeded", "userID", t.UserID)
	return nil
}

func (s *SQLiteStore) AddPlanItem(ctx context.Context, p models.PlanItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plans (user_id, ts, item) VALUES (?, ?, ?)`, p.UserID, p.Time, p.Item)
	if err != nil {
		slog.Error("SQLiteStore AddPlanItem failed", "error", err, "userID", p.UserID)
		return fmt.Errorf("failed to insert plan item for %s: %w", p.UserID, err)
	}
	slog.Debug("SQLiteStore AddPlanItem succeeded", "userID", p.UserID)
	return nil
}

func (s *SQLiteStore) ListCheckinsSince(ctx context.Context, userID string, since time.Time) ([]models.Checkin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, ts, stress, triggers, sleep_hours, micro_goal FROM checkins WHERE user_id = ? AND ts >= ? ORDER BY ts`,
		userID, since)
	if err != nil {
		slog.Error("SQLiteStore ListCheckinsSince query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query checkins for %s: %w", userID, err)
	}
	defer rows.Close()

	var checkins []models.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			slog.Error("SQLiteStore ListCheckinsSince scan failed", "error", err, "userID", userID)
			return nil, err
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore ListCheckinsSince rows iteration failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to iterate checkin rows: %w", err)
	}
	slog.Debug("SQLiteStore ListCheckinsSince succeeded", "userID", userID, "count", len(checkins))
	return checkins, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
