// Package gemini implements image generation against the Gemini API directly,
// as an alternative to routing image requests through the chat endpoint.
// Selected with llm.image_provider=gemini.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/wukongmap/wukong-api/internal/config"
	"github.com/wukongmap/wukong-api/internal/generation"
)

// ImageClient generates card illustrations with a Gemini image model and
// returns them as base64 data URLs, so the caller handles locators uniformly
// regardless of which image backend is configured.
type ImageClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ generation.ImageGenerator = (*ImageClient)(nil)

// NewImageClient creates an ImageClient from the LLM configuration.
// Returns an error if the Gemini API key is missing or client setup fails.
func NewImageClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*ImageClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.ImageModel == "" {
		return nil, errors.New("gemini: image model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &ImageClient{
		client: client,
		model:  cfg.ImageModel,
		logger: logger.With(slog.String("component", "gemini_image_client")),
	}, nil
}

// GenerateImage implements generation.ImageGenerator. Failures are returned
// to the orchestrator, which substitutes the placeholder locator.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	c.logger.DebugContext(ctx, "requesting card image",
		slog.String("model", c.model))

	resp, err := c.client.Models.GenerateImages(
		ctx,
		c.model,
		generation.OptimizeImagePrompt(prompt),
		&genai.GenerateImagesConfig{NumberOfImages: 1},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: image generation failed: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", fmt.Errorf("gemini: %w: no image payload", generation.ErrEmptyResponse)
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s",
		mime, base64.StdEncoding.EncodeToString(img.ImageBytes)), nil
}
