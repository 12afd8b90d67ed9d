// Package ai talks to hosted language models. Callers build the prompt and
// interpret the reply; a Gateway only moves text.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitcoach/internal/constants"
)

var (
	// ErrEmptyResponse is returned when the model answers with no content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrStatus is wrapped by every non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrNoAPIKey is returned when a gateway is built without credentials.
	ErrNoAPIKey = errors.New("AI API key not configured")
)

// Request is a single-turn completion that must come back as a JSON object.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Gateway completes a prompt and returns the raw model text.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options selects and configures a Gateway.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint, e.g. for an OpenAI-compatible proxy.
	BaseURL string
	Timeout time.Duration
}

// New builds the gateway for opts.Provider.
func New(ctx context.Context, opts Options) (Gateway, error) {
	if opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultAITimeout
	}

	switch opts.Provider {
	case constants.AIProviderOpenAI, "":
		return NewOpenAI(opts), nil
	case constants.AIProviderGemini:
		return NewGemini(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", opts.Provider)
	}
}

// withDefaultTimeout bounds ctx when the caller did not.
func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
