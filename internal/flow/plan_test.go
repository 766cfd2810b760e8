package flow

import (
	"context"
	"testing"

	"github.com/svitlo-ai/svitlo/internal/store"
)

func TestPlanFlowCapsAtThreeItems(t *testing.T) {
	st := store.NewInMemoryStore()
	f := NewPlanFlow(st)
	ctx := context.Background()
	user := testUser()
	s := NewSession(KindPlan)

	inputs := []string{"sleep more", "walk", "journal", "meditate", "done"}
	var last Result
	for _, in := range inputs {
		var err error
		last, err = f.Advance(ctx, user, s, in)
		if err != nil {
			t.Fatalf("Advance(%q) failed: %v", in, err)
		}
	}
	if !last.Done {
		t.Fatal("expected flow to finish on done")
	}

	items := st.ListPlanItems("u1")
	if len(items) != MaxPlanItems {
		t.Fatalf("expected %d plan items, got %d", MaxPlanItems, len(items))
	}
	want := []string{"sleep more", "walk", "journal"}
	for i, w := range want {
		if items[i].Item != w {
			t.Errorf("item %d = %q, want %q", i, items[i].Item, w)
		}
	}
}

func TestPlanFlowDoneWithoutItems(t *testing.T) {
	st := store.NewInMemoryStore()
	f := NewPlanFlow(st)
	s := NewSession(KindPlan)

	res, err := f.Advance(context.Background(), testUser(), s, "done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Done {
		t.Error("expected flow to finish")
	}
	if got := st.ListPlanItems("u1"); len(got) != 0 {
		t.Errorf("expected no plan items, got %d", len(got))
	}
}

func TestPlanFlowDoneIsCaseInsensitive(t *testing.T) {
	st := store.NewInMemoryStore()
	f := NewPlanFlow(st)
	s := NewSession(KindPlan)

	if _, err := f.Advance(context.Background(), testUser(), s, "walk"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := f.Advance(context.Background(), testUser(), s, "  DONE ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Done {
		t.Error("expected DONE to terminate the flow")
	}
}
