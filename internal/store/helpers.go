package store

import (
	"database/sql"
	"fmt"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// scanCheckin scans a Checkin from sql.Rows, mapping NULL numeric columns
// to nil pointers so the aggregation engine can skip them.
func scanCheckin(rows *sql.Rows) (models.Checkin, error) {
	var c models.Checkin
	var stress, sleep sql.NullFloat64
	var triggers, goal sql.NullString
	if err := rows.Scan(&c.UserID, &c.Time, &stress, &triggers, &sleep, &goal); err != nil {
		return c, fmt.Errorf("scan checkin failed: %w", err)
	}
	if stress.Valid {
		v := stress.Float64
		c.Stress = &v
	}
	if sleep.Valid {
		v := sleep.Float64
		c.SleepHours = &v
	}
	c.Triggers = triggers.String
	c.MicroGoal = goal.String
	return c, nil
}
