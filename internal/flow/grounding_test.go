package flow

import (
	"context"
	"strings"
	"testing"
)

func TestGroundingFlowFivePrompts(t *testing.T) {
	f := NewGroundingFlow()
	ctx := context.Background()
	user := testUser()
	s := NewSession(KindGrounding)

	res, err := f.Begin(ctx, user)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if len(res.Replies) != 2 {
		t.Fatalf("expected intro plus first prompt, got %d replies", len(res.Replies))
	}
	if !strings.Contains(res.Replies[1], "5") {
		t.Errorf("first prompt should ask for 5 things, got %q", res.Replies[1])
	}

	// Four more answers walk through 4, 3, 2, 1.
	for _, count := range []string{"4", "3", "2", "1"} {
		res, err = f.Advance(ctx, user, s, "whatever")
		if err != nil {
			t.Fatalf("Advance failed at count %s: %v", count, err)
		}
		if res.Done {
			t.Fatalf("flow finished before count %s", count)
		}
		if !strings.Contains(res.Replies[0], count) {
			t.Errorf("prompt for count %s missing, got %q", count, res.Replies[0])
		}
	}

	// The fifth answer closes the exercise.
	res, err = f.Advance(ctx, user, s, "calm now")
	if err != nil {
		t.Fatalf("final Advance failed: %v", err)
	}
	if !res.Done {
		t.Error("expected flow to finish after the fifth answer")
	}
}
