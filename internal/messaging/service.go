// Package messaging abstracts the chat transport: an inbound event source
// and an outbound text sink. The dispatcher only ever sees this interface.
package messaging

import (
	"context"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// Service defines a pluggable message delivery abstraction.
type Service interface {
	// SendMessage sends a plain text reply to a user.
	SendMessage(ctx context.Context, to string, body string) error

	// SendButtons sends a text reply with a small set of inline choice
	// buttons (used for the language picker).
	SendButtons(ctx context.Context, to string, body string, buttons []models.Button) error

	// Responses returns the channel of incoming user events.
	Responses() <-chan models.Inbound

	// Start begins any background processing.
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error
}
