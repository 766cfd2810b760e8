package flow

import (
	"context"
	"testing"

	"github.com/svitlo-ai/svitlo/internal/store"
)

func TestTriggersFlowCommitsEachNote(t *testing.T) {
	st := store.NewInMemoryStore()
	f := NewTriggersFlow(st)
	ctx := context.Background()
	user := testUser()
	s := NewSession(KindTriggers)

	for _, in := range []string{"loud noises", "crowded metro"} {
		res, err := f.Advance(ctx, user, s, in)
		if err != nil {
			t.Fatalf("Advance(%q) failed: %v", in, err)
		}
		if res.Done {
			t.Fatalf("flow finished early on %q", in)
		}
	}

	// Notes are persisted before the terminator arrives.
	if got := st.ListTriggers("u1"); len(got) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(got))
	}

	res, err := f.Advance(ctx, user, s, "done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Done {
		t.Error("expected done to finish the flow")
	}
	if got := st.ListTriggers("u1"); len(got) != 2 {
		t.Errorf("done must not add a trigger, got %d", len(got))
	}
}
