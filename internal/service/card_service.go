package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/store"
)

// CardPage is one page of a user's card listing.
type CardPage struct {
	Cards []*domain.Card
	Total int
	Page  int
	Limit int
}

// CardUpdate carries the mutable fields of a card. Nil pointers leave the
// corresponding field unchanged.
type CardUpdate struct {
	Title    *string
	Content  *string
	Tags     []string
	ImageURL *string
	IsPublic *bool
}

// CardService provides read and write access to a user's generated cards.
// All mutating operations enforce ownership.
type CardService interface {
	// ListCards returns one page of the user's cards, newest first.
	ListCards(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) (*CardPage, error)

	// GetCard retrieves a single card and bumps its view counter. The
	// requester must own the card unless it is public.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// UpdateCard applies the given update to a card the user owns.
	// Returns ErrNotOwned when the card belongs to someone else.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, update CardUpdate) (*domain.Card, error)

	// DeleteCard removes a card the user owns.
	// Returns ErrNotOwned when the card belongs to someone else.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	cards  store.CardStore
	logger *slog.Logger
}

// Ensure cardServiceImpl implements CardService interface
var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
func NewCardService(cards store.CardStore, log *slog.Logger) (CardService, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &cardServiceImpl{
		cards:  cards,
		logger: log.With(slog.String("component", "card_service")),
	}, nil
}

// ListCards implements CardService.ListCards.
func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) (*CardPage, error) {
	cards, total, err := s.cards.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	return &CardPage{
		Cards: cards,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// GetCard implements CardService.GetCard.
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if card.UserID != userID && !card.IsPublic {
		return nil, ErrNotOwned
	}

	// View counting is best-effort; a failed bump must not hide the card.
	if err := s.cards.IncrementViewCount(ctx, cardID); err != nil {
		log.Warn("failed to increment view count",
			"card_id", cardID,
			"error", err)
	} else {
		card.ViewCount++
	}

	return card, nil
}

// UpdateCard implements CardService.UpdateCard.
func (s *cardServiceImpl) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, update CardUpdate) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrNotOwned
	}

	if update.Title != nil {
		card.Title = *update.Title
	}
	if update.Content != nil {
		card.Content = *update.Content
	}
	if update.Tags != nil {
		card.Tags = update.Tags
	}
	if update.ImageURL != nil {
		card.ImageURL = *update.ImageURL
	}
	if update.IsPublic != nil {
		card.IsPublic = *update.IsPublic
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		log.Error("failed to update card",
			"card_id", cardID,
			"error", err)
		return nil, err
	}

	return card, nil
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return ErrNotOwned
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card",
			"card_id", cardID,
			"error", err)
		return err
	}

	log.Info("card deleted", "card_id", cardID, "user_id", userID)
	return nil
}
