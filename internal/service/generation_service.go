package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/generation"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/service/quota"
	"github.com/wukongmap/wukong-api/internal/store"
)

// GeneratedCard is the outcome of a successful generation: the persisted
// card plus the user's quota position after the run was charged.
type GeneratedCard struct {
	Card  *domain.Card
	Quota quota.Status
}

// CardGenerationRequest carries one generation run's inputs: the topic and
// audience for the content call plus the caller's illustration options.
type CardGenerationRequest struct {
	Topic   string
	Grade   domain.Grade
	Subject domain.Subject

	// GenerateImage requests an illustration for the card. When false the
	// card is stored without one.
	GenerateImage bool

	// CustomImagePrompt overrides the model-suggested image prompt when set.
	CustomImagePrompt string
}

// CardGenerationService runs the full topic-to-card pipeline: quota check,
// content generation, structured extraction, optional illustration,
// persistence, and quota commit.
type CardGenerationService interface {
	// GenerateCard produces and persists one knowledge card for the user.
	//
	// Returns quota.ErrQuotaExceeded before any upstream call when the user
	// has no quota left. Returns generation.ErrEmptyResponse or
	// generation.ErrMalformedOutput (wrapped) when the model's answer is
	// unusable; no quota is consumed in either case. An image failure never
	// fails the run; when an illustration was requested the card falls back
	// to a placeholder.
	GenerateCard(ctx context.Context, userID uuid.UUID, req CardGenerationRequest) (*GeneratedCard, error)
}

// cardGenerationServiceImpl implements the CardGenerationService interface.
type cardGenerationServiceImpl struct {
	gate    *quota.Gate
	content generation.ContentGenerator
	image   generation.ImageGenerator // nil when image generation is disabled
	cards   store.CardStore
	logger  *slog.Logger
}

// Ensure cardGenerationServiceImpl implements CardGenerationService interface
var _ CardGenerationService = (*cardGenerationServiceImpl)(nil)

// NewCardGenerationService creates a new CardGenerationService. The image
// generator may be nil, in which case every card gets the placeholder
// illustration. All other dependencies are required.
func NewCardGenerationService(
	gate *quota.Gate,
	content generation.ContentGenerator,
	image generation.ImageGenerator,
	cards store.CardStore,
	log *slog.Logger,
) (CardGenerationService, error) {
	if gate == nil {
		return nil, domain.NewValidationError("gate", "cannot be nil", domain.ErrValidation)
	}
	if content == nil {
		return nil, domain.NewValidationError("content", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &cardGenerationServiceImpl{
		gate:    gate,
		content: content,
		image:   image,
		cards:   cards,
		logger:  log.With(slog.String("component", "card_generation_service")),
	}, nil
}

// GenerateCard implements CardGenerationService.GenerateCard.
func (s *cardGenerationServiceImpl) GenerateCard(
	ctx context.Context,
	userID uuid.UUID,
	req CardGenerationRequest,
) (*GeneratedCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateGenerationRequest(req); err != nil {
		return nil, err
	}

	// 1. Quota check before any upstream spend. Advisory only; the commit
	// below is the enforcement point.
	status, err := s.gate.Check(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}
	if !status.Allowed {
		log.Info("generation denied: quota exhausted",
			"user_id", userID,
			"used", status.Used,
			"limit", status.Limit)
		return nil, quota.ErrQuotaExceeded
	}

	// 2. Text generation.
	raw, err := s.content.GenerateContent(ctx, generation.TopicRequest{
		Topic:   req.Topic,
		Grade:   req.Grade,
		Subject: req.Subject,
	})
	if err != nil {
		log.Error("content generation failed",
			"user_id", userID,
			"topic", req.Topic,
			"error", err)
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	// 3. Structured extraction.
	fields, err := generation.ExtractCardFields(raw)
	if err != nil {
		log.Error("card field extraction failed",
			"user_id", userID,
			"topic", req.Topic,
			"error", err)
		return nil, fmt.Errorf("card field extraction failed: %w", err)
	}

	// 4. Illustration, only when requested. A custom prompt from the caller
	// takes precedence over the model's suggestion; any failure falls back
	// to the placeholder.
	imageURL := ""
	if req.GenerateImage {
		prompt := fields.ImagePrompt
		if strings.TrimSpace(req.CustomImagePrompt) != "" {
			prompt = req.CustomImagePrompt
		}
		imageURL = s.generateImage(ctx, log, prompt)
	}

	// 5. Compose and persist.
	card, err := domain.NewCard(userID, fields.Title, fields.Content, fields.ImagePrompt, fields.Tags, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compose card: %w", err)
	}
	if err := s.cards.Create(ctx, card); err != nil {
		log.Error("failed to persist generated card",
			"user_id", userID,
			"card_id", card.ID,
			"error", err)
		return nil, fmt.Errorf("failed to persist card: %w", err)
	}

	// 6. Charge the quota only now that the card is durable. If a
	// concurrent request drained the last unit since the check above, the
	// commit refuses and we roll the card back rather than hand out an
	// over-quota generation.
	status, err = s.gate.Commit(ctx, userID)
	if err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			log.Warn("quota drained during generation, rolling back card",
				"user_id", userID,
				"card_id", card.ID)
			if delErr := s.cards.Delete(ctx, card.ID); delErr != nil {
				log.Error("failed to roll back card after quota refusal",
					"card_id", card.ID,
					"error", delErr)
			}
			return nil, quota.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("quota commit failed: %w", err)
	}

	log.Info("card generated",
		"user_id", userID,
		"card_id", card.ID,
		"topic", req.Topic,
		"quota_used", status.Used,
		"quota_remaining", status.Remaining)

	return &GeneratedCard{Card: card, Quota: status}, nil
}

// generateImage returns an image locator for the card, or the placeholder
// when no backend is configured, the prompt is empty, or the backend fails.
func (s *cardGenerationServiceImpl) generateImage(ctx context.Context, log *slog.Logger, prompt string) string {
	if s.image == nil || strings.TrimSpace(prompt) == "" {
		return generation.PlaceholderImageURL()
	}

	imageURL, err := s.image.GenerateImage(ctx, prompt)
	if err != nil {
		log.Warn("image generation failed, using placeholder",
			"error", err)
		return generation.PlaceholderImageURL()
	}
	return imageURL
}

// maxTopicLength bounds the topic in runes; topics are typically CJK.
const maxTopicLength = 100

// validateGenerationRequest rejects empty or oversized topics and unknown
// grade or subject labels before any quota or upstream work.
func validateGenerationRequest(req CardGenerationRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return domain.NewValidationError("topic", "cannot be empty", domain.ErrValidation)
	}
	if len([]rune(req.Topic)) > maxTopicLength {
		return domain.NewValidationError("topic", fmt.Sprintf("cannot exceed %d characters", maxTopicLength), domain.ErrValidation)
	}
	if !domain.ValidGrade(req.Grade) {
		return domain.NewValidationError("grade", "is not a supported school year", domain.ErrValidation)
	}
	if !domain.ValidSubject(req.Subject) {
		return domain.NewValidationError("subject", "is not a supported subject", domain.ErrValidation)
	}
	return nil
}
