// Package report implements the time-windowed aggregation engine over
// check-in records.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/store"
)

// Supported trailing windows, in days.
const (
	WindowWeek  = 7
	WindowMonth = 30
)

// TopTokenCount is how many trigger tokens a report carries at most.
const TopTokenCount = 5

// NoDataPlaceholder marks a report with no extractable trigger tokens.
const NoDataPlaceholder = "—"

// tokenPattern extracts lowercase alphabetic tokens of length >= 3 from
// trigger notes; Latin and Cyrillic letters both count.
var tokenPattern = regexp.MustCompile(`[A-Za-zА-Яа-яЇїІіЄєҐґ']{3,}`)

// IsValidWindow reports whether days is one of the supported windows.
func IsValidWindow(days int) bool {
	return days == WindowWeek || days == WindowMonth
}

// Aggregate summarizes the user's check-ins inside the trailing window.
// Returns models.ErrInvalidWindow for unsupported windows and
// models.ErrNoData when no check-ins fall inside it.
func Aggregate(ctx context.Context, st store.Store, userID string, days int) (*models.Report, error) {
	if !IsValidWindow(days) {
		slog.Debug("Aggregate rejected window", "userID", userID, "days", days)
		return nil, models.ErrInvalidWindow
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	checkins, err := st.ListCheckinsSince(ctx, userID, since)
	if err != nil {
		slog.Error("Aggregate query failed", "error", err, "userID", userID, "days", days)
		return nil, fmt.Errorf("failed to load checkins: %w", err)
	}
	if len(checkins) == 0 {
		slog.Debug("Aggregate found no checkins in window", "userID", userID, "days", days)
		return nil, models.ErrNoData
	}

	// The stress and sleep means each skip their own missing values; the
	// divisors are not shared.
	var stressSum, sleepSum float64
	var stressN, sleepN int
	var notes strings.Builder
	for _, c := range checkins {
		if c.Stress != nil {
			stressSum += *c.Stress
			stressN++
		}
		if c.SleepHours != nil {
			sleepSum += *c.SleepHours
			sleepN++
		}
		if notes.Len() > 0 {
			notes.WriteByte(' ')
		}
		notes.WriteString(c.Triggers)
	}

	r := &models.Report{
		Days:        days,
		Count:       len(checkins),
		TopTriggers: TopTokens(notes.String(), TopTokenCount),
	}
	if stressN > 0 {
		r.AvgStress = stressSum / float64(stressN)
	}
	if sleepN > 0 {
		r.AvgSleep = sleepSum / float64(sleepN)
	}

	slog.Debug("Aggregate succeeded", "userID", userID, "days", days, "count", r.Count)
	return r, nil
}

// TopTokens returns the n most frequent tokens in text, lowercased. Ties are
// broken by first occurrence in the text so results are deterministic.
func TopTokens(text string, n int) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var distinct []string
	for i, w := range words {
		if _, ok := counts[w]; !ok {
			firstSeen[w] = i
			distinct = append(distinct, w)
		}
		counts[w]++
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		a, b := distinct[i], distinct[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return firstSeen[a] < firstSeen[b]
	})

	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

// FormatTopTriggers renders the token list for the report message.
func FormatTopTriggers(tokens []string) string {
	if len(tokens) == 0 {
		return NoDataPlaceholder
	}
	return strings.Join(tokens, ", ")
}
