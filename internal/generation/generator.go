package generation

import (
	"context"

	"github.com/wukongmap/wukong-api/internal/domain"
)

// TopicRequest carries the user's topic and audience to the content generator.
type TopicRequest struct {
	Topic   string
	Grade   domain.Grade
	Subject domain.Subject
}

// ContentGenerator issues one text-generation request to the LLM provider and
// returns the raw model output. It performs no structural validation of the
// response; that is the extractor's job.
type ContentGenerator interface {
	// GenerateContent returns the provider's raw text for the given topic.
	// Returns an error wrapping ErrEmptyResponse if the provider answered
	// with no text at all.
	GenerateContent(ctx context.Context, req TopicRequest) (string, error)
}

// ImageGenerator issues an image-generation request and returns an image
// locator (a URL or data URL). Implementations return errors on any upstream
// failure; the orchestrator decides whether to substitute a placeholder,
// so no error suppression happens at this boundary.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// CardFields is the structured record recovered from raw model output.
// It is composed into a domain.Card by the orchestrator, never persisted
// directly.
type CardFields struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImagePrompt string   `json:"imagePrompt"`
	Tags        []string `json:"tags"`
}
