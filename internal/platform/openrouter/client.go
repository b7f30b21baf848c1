// Package openrouter implements the generation interfaces against an
// OpenRouter-compatible chat-completions endpoint using the official
// openai-go SDK pointed at a custom base URL.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/wukongmap/wukong-api/internal/config"
	"github.com/wukongmap/wukong-api/internal/generation"
)

// Generation parameters for the text call. The token budget is generous so
// the JSON payload is not cut off mid-object; truncation is still handled by
// the extractor when it happens anyway.
const (
	textTemperature = 0.7
	textMaxTokens   = 4000
)

// Client talks to an OpenRouter-compatible endpoint for both text and image
// generation. Construct it once at startup and inject it; it holds no
// mutable state and is safe for concurrent use.
type Client struct {
	api        openai.Client
	textModel  string
	imageModel string
	timeout    time.Duration
	logger     *slog.Logger
}

// Interface guards
var (
	_ generation.ContentGenerator = (*Client)(nil)
	_ generation.ImageGenerator   = (*Client)(nil)
)

// NewClient creates a Client from the LLM configuration.
// Returns an error if required settings are missing.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("openrouter: base URL is required")
	}
	if cfg.TextModel == "" || cfg.ImageModel == "" {
		return nil, errors.New("openrouter: text and image models are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	// OpenRouter attribution headers, sent when configured.
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	return &Client{
		api:        openai.NewClient(opts...),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		logger:     logger.With(slog.String("component", "openrouter_client")),
	}, nil
}

// GenerateContent implements generation.ContentGenerator. It sends the fixed
// system persona plus the rendered user prompt and returns the raw model
// text. No retry: generation is not idempotent and all retry is
// caller-initiated.
func (c *Client) GenerateContent(ctx context.Context, req generation.TopicRequest) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	c.logger.DebugContext(ctx, "requesting card content",
		slog.String("model", c.textModel),
		slog.String("topic", req.Topic))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.textModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generation.SystemPrompt),
			openai.UserMessage(generation.BuildUserPrompt(req)),
		},
		Temperature: openai.Float(textTemperature),
		MaxTokens:   openai.Int(textMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openrouter: %w", generation.ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

// imagePayload mirrors the OpenRouter-specific `images` field on an assistant
// message when image modalities are requested.
type imagePayload struct {
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// GenerateImage implements generation.ImageGenerator. It wraps the prompt
// with the fixed style qualifier and requests image modalities from the image
// model. Failures are returned as errors; substituting the placeholder is the
// orchestrator's decision, not this client's.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	c.logger.DebugContext(ctx, "requesting card image",
		slog.String("model", c.imageModel))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.imageModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(generation.OptimizeImagePrompt(prompt)),
		},
	},
		// The modalities parameter is OpenRouter-specific and not part of
		// the standard chat-completions schema.
		option.WithJSONSet("modalities", []string{"image", "text"}),
	)
	if err != nil {
		return "", fmt.Errorf("openrouter: image completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: %w: no choices", generation.ErrEmptyResponse)
	}

	// The images land in a nonstandard message field, exposed by the SDK
	// through the raw-JSON extras.
	field, ok := resp.Choices[0].Message.JSON.ExtraFields["images"]
	if !ok || field.Raw() == "" || field.Raw() == "null" {
		return "", fmt.Errorf("openrouter: %w: no image payload", generation.ErrEmptyResponse)
	}

	var images []imagePayload
	if err := json.Unmarshal([]byte(field.Raw()), &images); err != nil {
		return "", fmt.Errorf("openrouter: failed to decode image payload: %w", err)
	}
	if len(images) == 0 || images[0].ImageURL.URL == "" {
		return "", fmt.Errorf("openrouter: %w: empty image locator", generation.ErrEmptyResponse)
	}

	return images[0].ImageURL.URL, nil
}

// withTimeout bounds a single upstream call, leaving the caller's deadline in
// place when it is already tighter.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
