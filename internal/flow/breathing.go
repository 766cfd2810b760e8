package flow

import (
	"context"
	"strings"

	"github.com/svitlo-ai/svitlo/internal/i18n"
	"github.com/svitlo-ai/svitlo/internal/models"
)

// BreathingFlow waits for the literal token "go" and then emits the
// box-breathing instructions. Any other input re-prompts the same step.
type BreathingFlow struct{}

// NewBreathingFlow creates the breathing exercise flow.
func NewBreathingFlow() *BreathingFlow { return &BreathingFlow{} }

func (f *BreathingFlow) Kind() Kind { return KindBreathing }

func (f *BreathingFlow) Begin(ctx context.Context, user models.UserProfile) (Result, error) {
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyBreathIntro)}}, nil
}

func (f *BreathingFlow) Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error) {
	if !strings.EqualFold(strings.TrimSpace(input), "go") {
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyBreathRetry)}}, nil
	}
	return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyBreathGo)}, Done: true}, nil
}
