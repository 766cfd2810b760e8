// Package store provides storage backends for Svitlo.
//
// It includes an in-memory store for tests and development, and persistent
// SQLite and PostgreSQL backends selected by DSN detection.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// Store is the persistence contract consumed by flows, the dispatcher and
// the aggregation engine. Every write is a single independent transaction.
type Store interface {
	// GetOrCreateUser returns the profile for userID, creating it with the
	// given defaults on first contact.
	GetOrCreateUser(ctx context.Context, userID string, defaultLang models.Lang, defaultCountry models.Country) (models.UserProfile, error)

	// SetUserLang updates the preferred language for an existing user.
	SetUserLang(ctx context.Context, userID string, lang models.Lang) error

	// SetUserCountry updates the preferred country for an existing user.
	SetUserCountry(ctx context.Context, userID string, country models.Country) error

	// AddCheckin appends one completed daily check-in.
	AddCheckin(ctx context.Context, c models.Checkin) error

	// AddTrigger appends one trigger note.
	AddTrigger(ctx context.Context, t models.Trigger) error

	// AddPlanItem appends one plan item.
	AddPlanItem(ctx context.Context, p models.PlanItem) error

	// ListCheckinsSince returns all check-ins for the user with a timestamp
	// at or after since, oldest first.
	ListCheckinsSince(ctx context.Context, userID string, since time.Time) ([]models.Checkin, error)

	// Close releases any underlying resources.
	Close() error
}

// Opts holds configuration for persistent store backends.
type Opts struct {
	// DSN is the database connection string: a file path for SQLite or a
	// postgres:// URL / key=value string for PostgreSQL.
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL connection strings and
// "sqlite" for anything else (file paths).
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
