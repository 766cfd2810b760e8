package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/svitlo-ai/svitlo/internal/i18n"
	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/store"
)

// Daily check-in step indexes.
const (
	dailyStepStress = iota
	dailyStepTriggers
	dailyStepSleep
	dailyStepGoal
)

// Scratch keys for partially collected check-in fields.
const (
	scratchStress   = "stress"
	scratchTriggers = "triggers"
	scratchSleep    = "sleep"
)

// DailyFlow asks stress, triggers, sleep hours and a micro-goal, then
// commits one check-in record.
type DailyFlow struct {
	store store.Store
}

// NewDailyFlow creates the daily check-in flow backed by the given store.
func NewDailyFlow(st store.Store) *DailyFlow {
	return &DailyFlow{store: st}
}

func (f *DailyFlow) Kind() Kind { return KindDaily }

func (f *DailyFlow) Begin(ctx context.Context, user models.UserProfile) (Result, error) {
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyCheckinIntro)}}, nil
}

func (f *DailyFlow) Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error) {
	input = strings.TrimSpace(input)

	switch s.Step {
	case dailyStepStress:
		v, err := ParseNumber(input)
		if err != nil {
			// Unparsable input re-prompts the same step; no retry limit.
			return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyStressRetry)}}, nil
		}
		v = ClampStress(v)
		s.Scratch[scratchStress] = strconv.FormatFloat(v, 'f', -1, 64)
		s.Step = dailyStepTriggers
		return Result{Replies: []string{fmt.Sprintf(i18n.Text(user.Lang, i18n.KeyCheckinStress), v)}}, nil

	case dailyStepTriggers:
		s.Scratch[scratchTriggers] = normalizeTriggers(input)
		s.Step = dailyStepSleep
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyCheckinTriggers)}}, nil

	case dailyStepSleep:
		v, err := ParseNumber(input)
		if err != nil {
			return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeySleepRetry)}}, nil
		}
		// Sleep hours are stored as entered, unclamped.
		s.Scratch[scratchSleep] = strconv.FormatFloat(v, 'f', -1, 64)
		s.Step = dailyStepGoal
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyCheckinSleep)}}, nil

	case dailyStepGoal:
		checkin := models.Checkin{
			UserID:    user.UserID,
			Time:      time.Now().UTC(),
			Triggers:  s.Scratch[scratchTriggers],
			MicroGoal: input,
		}
		if v, err := strconv.ParseFloat(s.Scratch[scratchStress], 64); err == nil {
			checkin.Stress = &v
		}
		if v, err := strconv.ParseFloat(s.Scratch[scratchSleep], 64); err == nil {
			checkin.SleepHours = &v
		}
		if err := f.store.AddCheckin(ctx, checkin); err != nil {
			slog.Error("DailyFlow commit failed", "error", err, "userID", user.UserID)
			return Result{}, fmt.Errorf("failed to commit checkin: %w", err)
		}
		slog.Info("DailyFlow committed checkin", "userID", user.UserID)
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyCheckinDone)}, Done: true}, nil

	default:
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyUnknown)}, Done: true}, nil
	}
}

// normalizeTriggers maps an explicit "no"/"ні" answer to an empty note.
func normalizeTriggers(input string) string {
	switch strings.ToLower(input) {
	case "no", "ні":
		return ""
	}
	return input
}
