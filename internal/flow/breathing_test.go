package flow

import (
	"context"
	"testing"
)

func TestBreathingFlowWaitsForGo(t *testing.T) {
	f := NewBreathingFlow()
	ctx := context.Background()
	user := testUser()
	s := NewSession(KindBreathing)

	res, err := f.Advance(ctx, user, s, "maybe later")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Done {
		t.Error("flow must not finish without go")
	}

	for _, in := range []string{"go", "GO", " Go "} {
		s := NewSession(KindBreathing)
		res, err := f.Advance(ctx, user, s, in)
		if err != nil {
			t.Fatalf("Advance(%q) failed: %v", in, err)
		}
		if !res.Done {
			t.Errorf("expected %q to finish the flow", in)
		}
	}
}
