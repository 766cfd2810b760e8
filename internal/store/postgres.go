// Package store provides storage backends for Svitlo.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/svitlo-ai/svitlo/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool.
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) GetOrCreateUser(ctx context.Context, userID string, defaultLang models.Lang, defaultCountry models.Country) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, models.ErrEmptyUserID
	}
	var u models.UserProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, lang, country, created_at FROM users WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.Lang, &u.Country, &u.CreatedAt)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		slog.Error("PostgresStore GetOrCreateUser query failed", "error", err, "userID", userID)
		return models.UserProfile{}, fmt.Errorf("failed to query user %s: %w", userID, err)
	}

	u = models.UserProfile{UserID: userID, Lang: defaultLang, Country: defaultCountry, CreatedAt: time.Now().UTC()}
	// Concurrent first contact can race on the insert; the conflict clause
	// keeps profile creation idempotent.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, lang, country, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING`,
		u.UserID, u.Lang, u.Country, u.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore GetOrCreateUser insert failed", "error", err, "userID", userID)
		return models.UserProfile{}, fmt.Errorf("failed to create user %s: %w", userID, err)
	}
	slog.Info("PostgresStore created user", "userID", userID, "lang", u.Lang, "country", u.Country)
	return u, nil
}

func (s *PostgresStore) SetUserLang(ctx context.Context, userID string, lang models.Lang) error {
	if !models.IsValidLang(lang) {
		return models.ErrInvalidLang
	}
	_, err := s.db.ExecContext(ctx, `UPDATE users SET lang = $1 WHERE user_id = $2`, lang, userID)
	if err != nil {
		slog.Error("PostgresStore SetUserLang failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to update lang for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore SetUserLang succeeded", "userID", userID, "lang", lang)
	return nil
}

func (s *PostgresStore) SetUserCountry(ctx context.Context, userID string, country models.Country) error {
	if !models.IsValidCountry(country) {
		return models.ErrInvalidCountry
	}
	_, err := s.db.ExecContext(ctx, `UPDATE users SET country = $1 WHERE user_id = $2`, country, userID)
	if err != nil {
		slog.Error("PostgresStore SetUserCountry failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to update country for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore SetUserCountry succeeded", "userID", userID, "country", country)
	return nil
}

func (s *PostgresStore) AddCheckin(ctx context.Context, c models.Checkin) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkins (user_id, ts, stress, triggers, sleep_hours, micro_goal) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.UserID, c.Time, c.Stress, c.Triggers, c.SleepHours, c.MicroGoal)
	if err != nil {
		slog.Error("PostgresStore AddCheckin failed", "error", err, "userID", c.UserID)
		return fmt.Errorf("failed to insert checkin for %s: %w", c.UserID, err)
	}
	slog.Debug("PostgresStore AddCheckin succeeded", "userID", c.UserID)
	return nil
}

func (s *PostgresStore) AddTrigger(ctx context.Context, t models.Trigger) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO triggers (user_id, ts, note) VALUES ($1, $2, $3)`, t.UserID, t.Time, t.Note)
	if err != nil {
		slog.Error("PostgresStore AddTrigger failed", "error", err, "userID", t.UserID)
		return fmt.Errorf("failed to insert trigger for %s: %w", t.UserID, err)
	}
	slog.Debug("PostgresStore AddTrigger succeeded", "userID", t.UserID)
	return nil
}

func (s *PostgresStore) AddPlanItem(ctx context.Context, p models.PlanItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO plans (user_id, ts, item) VALUES ($1, $2, $3)`, p.UserID, p.Time, p.Item)
	if err != nil {
		slog.Error("PostgresStore AddPlanItem failed", "error", err, "userID", p.UserID)
		return fmt.Errorf("failed to insert plan item for %s: %w", p.UserID, err)
	}
	slog.Debug("PostgresStore AddPlanItem succeeded", "userID", p.UserID)
	return nil
}

func (s *PostgresStore) ListCheckinsSince(ctx context.Context, userID string, since time.Time) ([]models.Checkin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, ts, stress, triggers, sleep_hours, micro_goal FROM checkins WHERE user_id = $1 AND ts >= $2 ORDER BY ts`,
		userID, since)
	if err != nil {
		slog.Error("PostgresStore ListCheckinsSince query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query checkins for %s: %w", userID, err)
	}
	defer rows.Close()

	var checkins []models.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			slog.Error("PostgresStore ListCheckinsSince scan failed", "error", err, "userID", userID)
			return nil, err
		}
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore ListCheckinsSince rows iteration failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to iterate checkin rows: %w", err)
	}
	slog.Debug("PostgresStore ListCheckinsSince succeeded", "userID", userID, "count", len(checkins))
	return checkins, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
