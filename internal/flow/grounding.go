package flow

import (
	"context"
	"fmt"

	"github.com/svitlo-ai/svitlo/internal/i18n"
	"github.com/svitlo-ai/svitlo/internal/models"
)

// GroundingFlow walks the 5-4-3-2-1 exercise: five ordered prompts, each
// incoming message (content ignored) advancing to the next, then a closing
// message once the last prompt is answered.
type GroundingFlow struct{}

// NewGroundingFlow creates the grounding exercise flow.
func NewGroundingFlow() *GroundingFlow { return &GroundingFlow{} }

func (f *GroundingFlow) Kind() Kind { return KindGrounding }

func (f *GroundingFlow) Begin(ctx context.Context, user models.UserProfile) (Result, error) {
	steps := i18n.GroundingSteps(user.Lang)
	return Result{Replies: []string{
		i18n.Text(user.Lang, i18n.KeyGroundIntro),
		groundingPrompt(user.Lang, steps[0]),
	}}, nil
}

func (f *GroundingFlow) Advance(ctx context.Context, user models.UserProfile, s *Session, input string) (Result, error) {
	steps := i18n.GroundingSteps(user.Lang)
	s.Step++
	if s.Step >= len(steps) {
		return Result{Replies: []string{i18n.Text(user.Lang, i18n.KeyGroundDone)}, Done: true}, nil
	}
	return Result{Replies: []string{groundingPrompt(user.Lang, steps[s.Step])}}, nil
}

func groundingPrompt(lang models.Lang, step i18n.GroundingStep) string {
	return fmt.Sprintf(i18n.Text(lang, i18n.KeyGroundStep), step.Count, step.Hint)
}
