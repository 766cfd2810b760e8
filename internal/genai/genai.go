// Package genai wraps the OpenAI chat-completion API used as the fallback
// responder when no scripted flow claims a message.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/svitlo-ai/svitlo/internal/models"
)

// DefaultTimeout bounds a single fallback call; the dispatcher must never
// stall behind this service.
const DefaultTimeout = 15 * time.Second

// defaultMaxTokens caps the fallback reply length.
const defaultMaxTokens = 300

// systemPrompt frames the fallback assistant. Crisis text never reaches this
// client (the crisis filter short-circuits first), but the prompt repeats
// the refusal rule as a second layer.
const systemPrompt = "You are Svitlo, a mental health training assistant for veterans. " +
	"Not a medical or crisis service. Avoid diagnosis/medications/politics/religion/graphic content. " +
	"Keep it short and practical. If self-harm is mentioned -> refuse + show helplines."

// Opts holds configuration for the GenAI client.
type Opts struct {
	APIKey  string
	Model   openai.ChatModel
	Timeout time.Duration
}

// Option configures the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key, overriding $OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model openai.ChatModel) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

// NewClient initializes a GenAI client from options, falling back to the
// OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{
		Model:   openai.ChatModelGPT4oMini,
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	slog.Debug("GenAI client created", "model", cfg.Model, "timeout", cfg.Timeout)
	return &Client{
		client:  openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Respond generates a short reply for free text no flow claimed. The call is
// bounded by the client timeout regardless of the caller's context.
func (c *Client) Respond(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text = truncateInput(text)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		Temperature:         openai.Float(0.4),
		MaxCompletionTokens: openai.Int(defaultMaxTokens),
	})
	if err != nil {
		slog.Error("GenAI completion failed", "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Error("GenAI completion returned no choices")
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// truncateInput caps text at MaxFallbackInputLength bytes without splitting
// a multi-byte rune, so Cyrillic input stays valid UTF-8 on the wire.
func truncateInput(text string) string {
	if len(text) <= models.MaxFallbackInputLength {
		return text
	}
	cut := models.MaxFallbackInputLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
