package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/svitlo-ai/svitlo/internal/i18n"
	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/store"
)

// MaxPlanItems caps how many accumulated lines are persisted per
// plan-building session; extra lines are discarded on completion.
const MaxPlanItems = 3

// PlanFlow accumulates free-text lines until "done", then commits up to the
// first MaxPlanItems of them.
type PlanFlow struct {
	store store.Store
}

// NewPlanFlow creates the plan-building flow backed by the given store.
func NewPlanFlow(st store.Store) *PlanFlow {
	return &PlanFlow{store: st}
}

func (f *PlanFlow) Kind() Kind { return KindPlan }

func (f *PlanFlow) Begin(ctx context.Context, user models.UserProfile) (Result, error) {
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyPlanIntro)}}, nil
}

func (f *PlanFlow) Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error) {
	input = strings.TrimSpace(input)
	if !isDone(input) {
		s.Items = append(s.Items, input)
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyPlanAdded)}}, nil
	}

	items := s.Items
	if len(items) > MaxPlanItems {
		slog.Debug("PlanFlow discarding extra items", "userID", user.UserID, "kept", MaxPlanItems, "discarded", len(items)-MaxPlanItems)
		items = items[:MaxPlanItems]
	}
	now := time.Now().UTC()
	for _, item := range items {
		if err := f.store.AddPlanItem(ctx, models.PlanItem{UserID: user.UserID, Time: now, Item: item}); err != nil {
			slog.Error("PlanFlow commit failed", "error", err, "userID", user.UserID)
			return Result{}, fmt.Errorf("failed to commit plan item: %w", err)
		}
	}
	slog.Info("PlanFlow committed plan", "userID", user.UserID, "items", len(items))
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyPlanSaved)}, Done: true}, nil
}
