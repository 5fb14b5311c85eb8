package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"sqlpractice-service/internal/config"
)

const geminiProvider = "Gemini"

// GeminiClient wraps the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	return newGeminiClient(ctx, cfg, genai.HTTPOptions{}, logger)
}

func newGeminiClient(ctx context.Context, cfg config.LLMConfig, opts genai.HTTPOptions, logger *zap.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: opts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		logger:      logger.With(zap.String("provider", "gemini"), zap.String("model", cfg.GeminiModel)),
	}, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) config(req Request) *genai.GenerateContentConfig {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	conf := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if maxTokens > 0 {
		conf.MaxOutputTokens = int32(maxTokens)
	}
	if req.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return conf
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	parent := ctx
	ctx, cancel := withTimeout(parent, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), c.config(req))
	if err != nil {
		return "", c.wrap(parent, ctx, err)
	}
	return resp.Text(), nil
}

func (c *GeminiClient) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	contentChan := make(chan string, 100)
	errorChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errorChan)

		parent := ctx
		ctx, cancel := withTimeout(parent, c.timeout)
		defer cancel()

		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(req.User), c.config(req)) {
			if err != nil {
				errorChan <- c.wrap(parent, ctx, err)
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case contentChan <- text:
			case <-ctx.Done():
				errorChan <- contextError(parent, geminiProvider)
				return
			}
		}
	}()

	return contentChan, errorChan
}

// wrap classifies an SDK error. HTTP failures arrive as genai.APIError.
func (c *GeminiClient) wrap(parent, ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return contextError(parent, geminiProvider)
	}
	c.logger.Error("gemini request failed", zap.Error(err))

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classify(geminiProvider, apiErr.Code, apiErr.Status+" "+apiErr.Message)
	}
	return classify(geminiProvider, 0, err.Error())
}
