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

// TriggersFlow commits each non-"done" message immediately as one trigger
// note; "done" ends the flow.
type TriggersFlow struct {
	store store.Store
}

// NewTriggersFlow creates the trigger-logging flow backed by the given store.
func NewTriggersFlow(st store.Store) *TriggersFlow {
	return &TriggersFlow{store: st}
}

func (f *TriggersFlow) Kind() Kind { return KindTriggers }

func (f *TriggersFlow) Begin(ctx context.Context, user models.UserProfile) (Result, error) {
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyTriggersIntro)}}, nil
}

func (f *TriggersFlow) Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error) {
	input = strings.TrimSpace(input)
	if isDone(input) {
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeySaved)}, Done: true}, nil
	}
	t := models.Trigger{UserID: user.UserID, Time: time.Now().UTC(), Note: input}
	if err := f.store.AddTrigger(ctx, t); err != nil {
		slog.Error("TriggersFlow commit failed", "error", err, "userID", user.UserID)
		return Result{}, fmt.Errorf("failed to commit trigger: %w", err)
	}
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyTriggerLogged)}}, nil
}
