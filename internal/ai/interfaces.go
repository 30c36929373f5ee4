package ai

import (
	"context"
	"encoding/json"

	"talentscope/internal/errors"
)

// Request describes a single generation call. Operation selects the
// response schema and shows up in traces and logs; prompts are built by
// the caller.
type Request struct {
	Operation    string
	SystemPrompt string
	UserPrompt   string
}

// Provider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type Provider interface {
	// GenerateJSON runs a structured generation and returns the raw JSON text.
	GenerateJSON(ctx context.Context, req Request) (string, *TokenUsage, error)
	// GenerateText runs a free-form generation.
	GenerateText(ctx context.Context, req Request) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// JSONGenerator is the minimal surface needed for structured
// generation. Provider satisfies it; callers that only generate JSON
// should depend on this instead of the full Provider.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, req Request) (string, *TokenUsage, error)
}

// GenerateObject runs a structured generation and unmarshals the JSON
// response into Out. A malformed response is reported as a recoverable
// AI error so callers can fall back to deterministic behavior.
func GenerateObject[Out any](ctx context.Context, p JSONGenerator, req Request) (Out, *TokenUsage, error) {
	var output Out

	raw, tokenUsage, err := p.GenerateJSON(ctx, req)
	if err != nil {
		return output, nil, err
	}

	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return output, nil, errors.NewAIError(errors.ErrCodeAIResponseParse,
			"Failed to parse AI response for "+req.Operation, err)
	}

	return output, tokenUsage, nil
}
