// Package flow implements the per-user scripted flows and their session table.
//
// A session is a tagged union {flow kind, step, scratch values} so step
// indexes never alias across different flows. Handlers validate and
// accumulate one text message at a time; committed records go to the store
// as single independent writes.
package flow

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// Kind identifies one scripted flow.
type Kind string

const (
	KindNone      Kind = ""
	KindDaily     Kind = "daily_checkin"
	KindBreathing Kind = "breathing"
	KindGrounding Kind = "grounding"
	KindPlan      Kind = "plan_building"
	KindTriggers  Kind = "trigger_logging"
)

// Session is the ephemeral, in-memory progress of one flow for one user.
type Session struct {
	Kind      Kind
	Step      int
	Scratch   map[string]string
	Items     []string
	UpdatedAt time.Time
}

// NewSession creates a fresh session at step zero.
func NewSession(kind Kind) *Session {
	return &Session{
		Kind:      kind,
		Scratch:   make(map[string]string),
		UpdatedAt: time.Now(),
	}
}

// Result is the outcome of one flow interaction.
type Result struct {
	// Replies are sent to the user in order.
	Replies []string
	// Done reports that the flow reached its terminal state.
	Done bool
}

// Handler drives one scripted flow to completion, one message at a time.
type Handler interface {
	// Kind returns the flow identifier this handler serves.
	Kind() Kind

	// Begin produces the flow's opening prompt(s).
	Begin(ctx context.Context, user models.UserProfile) (Result, error)

	// Advance feeds one text message to the session's current step.
	Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error)
}

// ClampStress bounds a stress value to [0,10]. Monotonic and idempotent on
// values already in range. NaN would pass both comparisons unchanged, so it
// is coerced to the upper bound.
func ClampStress(v float64) float64 {
	if math.IsNaN(v) {
		return models.MaxStress
	}
	if v < models.MinStress {
		return models.MinStress
	}
	if v > models.MaxStress {
		return models.MaxStress
	}
	return v
}

// ParseNumber parses a real number accepting either comma or dot as the
// decimal separator. NaN and infinities are rejected: they would slip
// through range clamping and poison stored records.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// isDone reports whether input is the literal flow terminator.
func isDone(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "done")
}
