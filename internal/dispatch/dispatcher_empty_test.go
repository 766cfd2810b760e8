package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/svitlo-ai/svitlo/internal/models"
)

func TestEmptyEventIsDropped(t *testing.T) {
	d, _, msg := newTestDispatcher(WithResponder(&stubResponder{reply: "echo"}))

	if err := d.HandleInbound(context.Background(), models.Inbound{UserID: "u1", Text: "   "}); err != nil {
		t.Fatalf("HandleInbound failed: %v", err)
	}
	// Give a hypothetical fallback goroutine time to misfire.
	time.Sleep(50 * time.Millisecond)
	if got := msg.SentTo("u1"); len(got) != 0 {
		t.Errorf("empty event must produce no replies, got %v", got)
	}
}
