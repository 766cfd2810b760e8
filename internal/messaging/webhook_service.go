package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 5 * time.Second

// WebhookService is an HTTP transport: the chat gateway POSTs inbound events
// to /v1/inbound and polls per-user outboxes for replies. Replies are queued
// in memory; delivery to the real chat network is the gateway's job.
type WebhookService struct {
	addr      string
	server    *http.Server
	responses chan models.Inbound

	mu     sync.Mutex
	outbox map[string][]models.Outbound
}

// NewWebhookService creates a webhook transport listening on addr.
func NewWebhookService(addr string) *WebhookService {
	s := &WebhookService{
		addr:      addr,
		responses: make(chan models.Inbound, responseBufferSize),
		outbox:    make(map[string][]models.Outbound),
	}
	s.server = &http.Server{Addr: addr, Handler: s.Router()}
	return s
}

// Router builds the chi router serving the transport endpoints.
func (s *WebhookService) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/inbound", s.handleInbound)
		v1.Get("/outbox/{userID}", s.handleOutbox)
	})
	return r
}

func (s *WebhookService) handleInbound(w http.ResponseWriter, r *http.Request) {
	var in models.Inbound
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Debug("WebhookService rejected malformed inbound", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}
	if in.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}
	if in.Time == 0 {
		in.Time = time.Now().Unix()
	}

	select {
	case s.responses <- in:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	default:
		slog.Warn("WebhookService inbound queue full, dropping event", "userID", in.UserID)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "queue full"})
	}
}

func (s *WebhookService) handleOutbox(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.mu.Lock()
	queued := s.outbox[userID]
	delete(s.outbox, userID)
	s.mu.Unlock()

	if queued == nil {
		queued = []models.Outbound{}
	}
	writeJSON(w, http.StatusOK, queued)
}

func (s *WebhookService) SendMessage(ctx context.Context, to, body string) error {
	return s.queue(models.Outbound{ID: uuid.NewString(), To: to, Body: body, Time: time.Now().Unix()})
}

func (s *WebhookService) SendButtons(ctx context.Context, to, body string, buttons []models.Button) error {
	return s.queue(models.Outbound{ID: uuid.NewString(), To: to, Body: body, Buttons: buttons, Time: time.Now().Unix()})
}

func (s *WebhookService) queue(out models.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox[out.To] = append(s.outbox[out.To], out)
	slog.Debug("WebhookService queued outbound", "to", out.To, "id", out.ID)
	return nil
}

func (s *WebhookService) Responses() <-chan models.Inbound { return s.responses }

// Start begins serving HTTP in the background.
func (s *WebhookService) Start(ctx context.Context) error {
	go func() {
		slog.Info("WebhookService listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("WebhookService serve failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the HTTP server down gracefully and closes the inbound channel.
func (s *WebhookService) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	close(s.responses)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("WebhookService failed to encode response", "error", err)
	}
}
