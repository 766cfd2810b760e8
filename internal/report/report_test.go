package report

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
	"github.com/svitlo-ai/svitlo/internal/store"
)

func f64(v float64) *float64 { return &v }

func seedCheckins(t *testing.T, st *store.InMemoryStore, userID string, checkins []models.Checkin) {
	t.Helper()
	for _, c := range checkins {
		c.UserID = userID
		if c.Time.IsZero() {
			c.Time = time.Now().UTC()
		}
		if err := st.AddCheckin(context.Background(), c); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestAggregateIndependentMeans(t *testing.T) {
	st := store.NewInMemoryStore()
	seedCheckins(t, st, "u1", []models.Checkin{
		{Stress: f64(2), SleepHours: f64(5), Triggers: "noise noise crowds"},
		{Stress: f64(4), SleepHours: f64(7), Triggers: "deadlines"},
		{Stress: f64(6), SleepHours: nil, Triggers: ""},
	})

	r, err := Aggregate(context.Background(), st, "u1", WindowWeek)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if r.Count != 3 {
		t.Errorf("Count = %d, want 3", r.Count)
	}
	if r.AvgStress != 4.0 {
		t.Errorf("AvgStress = %v, want 4.0", r.AvgStress)
	}
	// Sleep mean divides by the two present values only.
	if r.AvgSleep != 6.0 {
		t.Errorf("AvgSleep = %v, want 6.0", r.AvgSleep)
	}
	want := []string{"noise", "crowds", "deadlines"}
	if !reflect.DeepEqual(r.TopTriggers, want) {
		t.Errorf("TopTriggers = %v, want %v", r.TopTriggers, want)
	}
}

func TestAggregateInvalidWindow(t *testing.T) {
	st := store.NewInMemoryStore()
	for _, days := range []int{0, -7, 15, 31} {
		if _, err := Aggregate(context.Background(), st, "u1", days); !errors.Is(err, models.ErrInvalidWindow) {
			t.Errorf("Aggregate(days=%d) error = %v, want ErrInvalidWindow", days, err)
		}
	}
}

func TestAggregateNoData(t *testing.T) {
	st := store.NewInMemoryStore()
	if _, err := Aggregate(context.Background(), st, "u1", WindowMonth); !errors.Is(err, models.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}

	// A check-in older than the window must not count.
	seedCheckins(t, st, "u1", []models.Checkin{
		{Stress: f64(5), Time: time.Now().UTC().AddDate(0, 0, -40)},
	})
	if _, err := Aggregate(context.Background(), st, "u1", WindowMonth); !errors.Is(err, models.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData for out-of-window checkin", err)
	}
}

func TestTopTokens(t *testing.T) {
	got := TopTokens("Noise, noise! crowds and deadlines; crowds NOISE at", 2)
	want := []string{"noise", "crowds"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTokens = %v, want %v", got, want)
	}
}

func TestTopTokensTieBreakByFirstOccurrence(t *testing.T) {
	got := TopTokens("beta alpha beta alpha gamma", 3)
	// beta and alpha tie at 2; beta appeared first.
	want := []string{"beta", "alpha", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTokens = %v, want %v", got, want)
	}
}

func TestTopTokensSkipsShortWords(t *testing.T) {
	got := TopTokens("ok no at me the cat", 5)
	want := []string{"the", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTokens = %v, want %v", got, want)
	}
}

func TestTopTokensCyrillic(t *testing.T) {
	got := TopTokens("Шум у метро, шум на вулиці, натовп", 2)
	want := []string{"шум", "метро"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTokens = %v, want %v", got, want)
	}
}

func TestFormatTopTriggers(t *testing.T) {
	if got := FormatTopTriggers(nil); got != NoDataPlaceholder {
		t.Errorf("FormatTopTriggers(nil) = %q, want %q", got, NoDataPlaceholder)
	}
	if got := FormatTopTriggers([]string{"noise", "crowds"}); got != "noise, crowds" {
		t.Errorf("FormatTopTriggers = %q", got)
	}
}

func TestIsValidWindow(t *testing.T) {
	if !IsValidWindow(7) || !IsValidWindow(30) {
		t.Error("7 and 30 must be valid windows")
	}
	if IsValidWindow(14) {
		t.Error("14 must be rejected")
	}
}
