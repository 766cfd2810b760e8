package genai

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/svitlo-ai/svitlo/internal/models"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected an error without an API key")
	}
}

func TestNewClientOptions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c, err := NewClient(WithAPIKey("test-key"), WithModel("gpt-4o"), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", c.model)
	}
	if c.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c.timeout)
	}
}

func TestNewClientKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	if _, err := NewClient(); err != nil {
		t.Errorf("expected env key to satisfy the constructor, got %v", err)
	}
}

func TestTruncateInputShortTextUnchanged(t *testing.T) {
	if got := truncateInput("привіт"); got != "привіт" {
		t.Errorf("short text must pass through, got %q", got)
	}
}

func TestTruncateInputKeepsRuneBoundary(t *testing.T) {
	// One ASCII byte before two-byte Cyrillic runes puts the byte cap in the
	// middle of a rune.
	long := "a" + strings.Repeat("ї", models.MaxFallbackInputLength)
	got := truncateInput(long)
	if len(got) > models.MaxFallbackInputLength {
		t.Errorf("truncated length %d exceeds cap %d", len(got), models.MaxFallbackInputLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a multi-byte rune")
	}

	ascii := strings.Repeat("a", models.MaxFallbackInputLength+10)
	if got := truncateInput(ascii); len(got) != models.MaxFallbackInputLength {
		t.Errorf("ASCII truncation length = %d, want %d", len(got), models.MaxFallbackInputLength)
	}
}
