package flow

import (
	"testing"
	"time"
)

func TestSessionManagerStartReplaces(t *testing.T) {
	m := NewSessionManager(0)

	s, replaced := m.Start("u1", KindDaily)
	if replaced {
		t.Error("first Start must not report a replacement")
	}
	if s.Kind != KindDaily || s.Step != 0 {
		t.Errorf("unexpected fresh session: %+v", s)
	}

	s2, replaced := m.Start("u1", KindPlan)
	if !replaced {
		t.Error("second Start must report the replaced session")
	}
	if got := m.Get("u1"); got != s2 {
		t.Error("Get should return the newest session")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 active session, got %d", m.Count())
	}
}

func TestSessionManagerEnd(t *testing.T) {
	m := NewSessionManager(0)
	if m.End("missing") {
		t.Error("End on missing user must report false")
	}
	m.Start("u1", KindBreathing)
	if !m.End("u1") {
		t.Error("End must report true for an active session")
	}
	if m.Get("u1") != nil {
		t.Error("session should be gone after End")
	}
}

func TestSessionManagerExpireIdle(t *testing.T) {
	m := NewSessionManager(10 * time.Minute)
	stale, _ := m.Start("stale", KindDaily)
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	m.Start("fresh", KindDaily)

	expired := m.expireIdle()
	if len(expired) != 1 || expired[0] != "stale" {
		t.Fatalf("expected only the stale session to expire, got %v", expired)
	}
	if m.Get("stale") != nil {
		t.Error("expired session should be removed")
	}
	if m.Get("fresh") == nil {
		t.Error("fresh session should survive the sweep")
	}
}

func TestSessionManagerTouch(t *testing.T) {
	m := NewSessionManager(10 * time.Minute)
	s, _ := m.Start("u1", KindGrounding)
	s.UpdatedAt = time.Now().Add(-time.Hour)

	m.Touch("u1")
	if expired := m.expireIdle(); len(expired) != 0 {
		t.Errorf("touched session must not expire, got %v", expired)
	}
}
