// Package llm talks to hosted language models.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sqlpractice-service/internal/config"
	"sqlpractice-service/internal/domain"
)

type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client is a chat-style model. Stream closes both channels when done;
// at most one error is sent.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (<-chan string, <-chan error)
	Model() string
}

// NewClient builds the client for cfg.Provider. A provider without an API
// key yields a client whose calls fail with domain.ErrLLMNotConfigured.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY is not set, AI endpoints disabled")
			return NewUnconfigured("Gemini"), nil
		}
		return NewGeminiClient(ctx, cfg, logger)
	case config.ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY is not set, AI endpoints disabled")
			return NewUnconfigured("OpenAI"), nil
		}
		return NewOpenAIClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

type unconfigured struct {
	provider string
}

func NewUnconfigured(provider string) Client {
	return &unconfigured{provider: provider}
}

func (u *unconfigured) err() error {
	return domain.NewError(domain.ErrLLMNotConfigured,
		"%s API key is not configured. Please check your environment variables.", u.provider)
}

func (u *unconfigured) Complete(context.Context, Request) (string, error) {
	return "", u.err()
}

func (u *unconfigured) Stream(context.Context, Request) (<-chan string, <-chan error) {
	content := make(chan string)
	errs := make(chan error, 1)
	errs <- u.err()
	close(content)
	close(errs)
	return content, errs
}

func (u *unconfigured) Model() string {
	return ""
}

// withTimeout bounds ctx by d unless the caller already set a deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// contextError reports a request whose context ended. A caller that went
// away gets its own error back; the client's timeout firing is an upstream
// failure.
func contextError(parent context.Context, provider string) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return classify(provider, http.StatusGatewayTimeout, "")
}

// classify turns a provider failure into a domain error with a message
// fit for the client.
func classify(provider string, status int, detail string) error {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "quota") || strings.Contains(lower, "insufficient"):
		return domain.NewError(domain.ErrLLMUpstream,
			"%s API quota exceeded. Please check your account billing.", provider)
	case status == http.StatusTooManyRequests ||
		strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "resource_exhausted"):
		return domain.NewError(domain.ErrRateLimited,
			"%s API rate limit exceeded. Please try again later.", provider)
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(lower, "api key not valid"):
		return domain.NewError(domain.ErrLLMUpstream,
			"%s API rejected the configured API key.", provider)
	case status > 0:
		return domain.NewError(domain.ErrLLMUpstream,
			"%s API request failed with status %d", provider, status)
	default:
		return domain.NewError(domain.ErrLLMUpstream, "%s API request failed", provider)
	}
}
