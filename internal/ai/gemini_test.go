package ai

import (
	"context"
	"testing"
	"time"

	"talentscope/internal/config"
)

func newTestGeminiProvider(t *testing.T, timeout time.Duration) *GeminiProvider {
	t.Helper()
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(timeout),
		APIKey:           "test-key",
		MaxRetries:       intPtr(0),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(false),
	}
	provider, err := NewGeminiProvider(cfg, "test-op", testLogger)
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return provider
}

func TestGeminiProviderAppliesCallTimeout(t *testing.T) {
	timeout := 250 * time.Millisecond
	provider := newTestGeminiProvider(t, timeout)

	// The HTTP client handed to the genai client carries the timeout.
	if provider.httpClient.Timeout != timeout {
		t.Errorf("httpClient.Timeout = %v, want %v", provider.httpClient.Timeout, timeout)
	}

	// Each generation attempt runs under a deadline-bounded context.
	ctx, cancel := provider.boundCtx(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("attempt context has no deadline")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > timeout {
		t.Errorf("deadline %v away, want within (0, %v]", remaining, timeout)
	}
}

func TestGeminiProviderKeepsEarlierCallerDeadline(t *testing.T) {
	provider := newTestGeminiProvider(t, time.Hour)

	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ctx, cancelAttempt := provider.boundCtx(parent)
	defer cancelAttempt()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("attempt context has no deadline")
	}
	if time.Until(deadline) > 10*time.Millisecond {
		t.Errorf("attempt deadline extends past the caller's deadline")
	}
}
