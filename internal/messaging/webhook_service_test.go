package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/svitlo-ai/svitlo/internal/models"
)

func TestWebhookInboundAccepted(t *testing.T) {
	s := NewWebhookService(":0")
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	body := `{"user_id":"u1","text":"/daily","lang_hint":"uk"}`
	resp, err := http.Post(srv.URL+"/v1/inbound", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}

	select {
	case in := <-s.Responses():
		if in.UserID != "u1" || in.Text != "/daily" || in.LangHint != "uk" {
			t.Errorf("unexpected inbound: %+v", in)
		}
		if in.Time == 0 {
			t.Error("expected a receive timestamp to be stamped")
		}
	default:
		t.Fatal("inbound event not queued")
	}
}

func TestWebhookInboundValidation(t *testing.T) {
	s := NewWebhookService(":0")
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id":`},
		{"missing user", `{"text":"hi"}`},
	}
	for _, c := range cases {
		resp, err := http.Post(srv.URL+"/v1/inbound", "application/json", strings.NewReader(c.body))
		if err != nil {
			t.Fatalf("%s: POST failed: %v", c.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", c.name, resp.StatusCode, http.StatusBadRequest)
		}
	}
}

func TestWebhookOutboxDrains(t *testing.T) {
	s := NewWebhookService(":0")
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	ctx := context.Background()
	if err := s.SendMessage(ctx, "u1", "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if err := s.SendButtons(ctx, "u1", "pick one", []models.Button{{Label: "EN", Data: "lang_en"}}); err != nil {
		t.Fatalf("SendButtons failed: %v", err)
	}
	if err := s.SendMessage(ctx, "u2", "other user"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	var queued []models.Outbound
	resp, err := http.Get(srv.URL + "/v1/outbox/u1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(&queued); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(queued) != 2 {
		t.Fatalf("expected 2 queued messages for u1, got %d", len(queued))
	}
	if queued[0].Body != "hello" || queued[1].Body != "pick one" {
		t.Errorf("unexpected order: %+v", queued)
	}
	if len(queued[1].Buttons) != 1 || queued[1].Buttons[0].Data != "lang_en" {
		t.Errorf("buttons lost in transit: %+v", queued[1])
	}
	if queued[0].ID == "" || queued[0].ID == queued[1].ID {
		t.Error("outbound IDs must be unique and non-empty")
	}

	// The drain empties the outbox; a second poll returns an empty list.
	resp2, err := http.Get(srv.URL + "/v1/outbox/u1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp2.Body.Close()
	var empty []models.Outbound
	if err := json.NewDecoder(resp2.Body).Decode(&empty); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected drained outbox, got %d messages", len(empty))
	}
}

func TestWebhookHealth(t *testing.T) {
	s := NewWebhookService(":0")
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestChannelServiceCapturesSent(t *testing.T) {
	s := NewChannelService()
	ctx := context.Background()

	s.Inject(models.Inbound{UserID: "u1", Text: "hi"})
	select {
	case in := <-s.Responses():
		if in.Time == 0 {
			t.Error("Inject should stamp a timestamp")
		}
	default:
		t.Fatal("injected event not delivered")
	}

	if err := s.SendMessage(ctx, "u1", "one"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if err := s.SendMessage(ctx, "u2", "two"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got := s.SentTo("u1"); len(got) != 1 || got[0] != "one" {
		t.Errorf("SentTo(u1) = %v", got)
	}
	if got := s.Sent(); len(got) != 2 {
		t.Errorf("Sent() = %d messages, want 2", len(got))
	}
}
