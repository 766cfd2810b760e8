package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// responseBufferSize bounds the inbound queue so a burst never blocks the
// transport's delivery path.
const responseBufferSize = 256

// ChannelService is an in-memory transport used by tests and local
// development. Inbound events are injected directly; outbound messages are
// captured for inspection.
type ChannelService struct {
	mu        sync.Mutex
	responses chan models.Inbound
	sent      []models.Outbound
}

// NewChannelService creates an in-memory transport.
func NewChannelService() *ChannelService {
	return &ChannelService{responses: make(chan models.Inbound, responseBufferSize)}
}

// Inject delivers an inbound event as if it arrived from the chat transport.
func (s *ChannelService) Inject(in models.Inbound) {
	if in.Time == 0 {
		in.Time = time.Now().Unix()
	}
	s.responses <- in
}

func (s *ChannelService) SendMessage(ctx context.Context, to, body string) error {
	s.record(models.Outbound{ID: uuid.NewString(), To: to, Body: body, Time: time.Now().Unix()})
	return nil
}

func (s *ChannelService) SendButtons(ctx context.Context, to, body string, buttons []models.Button) error {
	s.record(models.Outbound{ID: uuid.NewString(), To: to, Body: body, Buttons: buttons, Time: time.Now().Unix()})
	return nil
}

func (s *ChannelService) record(out models.Outbound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, out)
}

// Sent returns a copy of all captured outbound messages, in send order.
func (s *ChannelService) Sent() []models.Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Outbound, len(s.sent))
	copy(out, s.sent)
	return out
}

// SentTo returns the bodies of all messages sent to one user, in order.
func (s *ChannelService) SentTo(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bodies []string
	for _, o := range s.sent {
		if o.To == userID {
			bodies = append(bodies, o.Body)
		}
	}
	return bodies
}

func (s *ChannelService) Responses() <-chan models.Inbound { return s.responses }

func (s *ChannelService) Start(ctx context.Context) error { return nil }

func (s *ChannelService) Stop() error {
	close(s.responses)
	return nil
}
