// Package models defines the core data structures for Svitlo.
//
// It includes user profiles, wellbeing records, report types, and the
// inbound/outbound event shapes shared across modules.
package models

import (
	"errors"
	"time"
)

// Lang is a supported interface language code.
type Lang string

const (
	// LangEN selects English message texts.
	LangEN Lang = "en"
	// LangUK selects Ukrainian message texts.
	LangUK Lang = "uk"
)

// Country is a supported helpline region code.
type Country string

const (
	// CountryUS selects United States helplines.
	CountryUS Country = "US"
	// CountryUA selects Ukrainian helplines.
	CountryUA Country = "UA"
)

// Validation constants for inbound text handling.
const (
	// MaxFallbackInputLength caps the text forwarded to the fallback responder.
	MaxFallbackInputLength = 2000
	// MinStress and MaxStress bound the stored stress value.
	MinStress = 0.0
	MaxStress = 10.0
)

// Error variables for better error handling and testability.
var (
	ErrInvalidWindow  = errors.New("report window must be 7 or 30 days")
	ErrNoData         = errors.New("no check-ins in window")
	ErrInvalidLang    = errors.New("unsupported language code")
	ErrInvalidCountry = errors.New("unsupported country code")
	ErrEmptyUserID    = errors.New("user id cannot be empty")
)

// IsValidLang checks if the given language code is supported.
func IsValidLang(l Lang) bool {
	switch l {
	case LangEN, LangUK:
		return true
	default:
		return false
	}
}

// IsValidCountry checks if the given country code is supported.
func IsValidCountry(c Country) bool {
	switch c {
	case CountryUS, CountryUA:
		return true
	default:
		return false
	}
}

// UserProfile is one row per chat identity, created lazily on first contact.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Lang      Lang      `json:"lang"`
	Country   Country   `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Checkin represents one completed daily check-in. Append-only.
// Stress and SleepHours are pointers because older rows may carry NULLs;
// each aggregate mean skips missing values independently.
type Checkin struct {
	UserID     string    `json:"user_id"`
	Time       time.Time `json:"time"`
	Stress     *float64  `json:"stress,omitempty"`
	Triggers   string    `json:"triggers,omitempty"`
	SleepHours *float64  `json:"sleep_hours,omitempty"`
	MicroGoal  string    `json:"micro_goal,omitempty"`
}

// Trigger is one logged trigger note. Append-only.
type Trigger struct {
	UserID string    `json:"user_id"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note"`
}

// PlanItem is one persisted micro-goal from a plan-building session. Append-only.
type PlanItem struct {
	UserID string    `json:"user_id"`
	Time   time.Time `json:"time"`
	Item   string    `json:"item"`
}

// Report is the aggregate summary over a trailing window of check-ins.
type Report struct {
	Days        int      `json:"days"`
	AvgStress   float64  `json:"avg_stress"`
	AvgSleep    float64  `json:"avg_sleep"`
	Count       int      `json:"count"`
	TopTriggers []string `json:"top_triggers,omitempty"`
}

// Inbound represents an incoming event from the chat transport.
// Exactly one of Text or Callback is set.
type Inbound struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text,omitempty"`
	Callback string `json:"callback,omitempty"`
	LangHint string `json:"lang_hint,omitempty"`
	Time     int64  `json:"time"`
}

// Button is one inline choice offered with an outbound message.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Outbound is a reply queued for delivery to a user.
type Outbound struct {
	ID      string   `json:"id"`
	To      string   `json:"to"`
	Body    string   `json:"body"`
	Buttons []Button `json:"buttons,omitempty"`
	Time    int64    `json:"time"`
}
