package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
)

// CardListFilter narrows and pages a card listing.
type CardListFilter struct {
	// Search, when non-empty, restricts results to cards whose title or
	// content contains the term (case-insensitive).
	Search string

	// Page is 1-based; Limit is the page size. Implementations apply
	// sensible defaults for non-positive values.
	Page  int
	Limit int
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store in a single write.
	// Returns validation errors from the domain Card if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser returns the user's cards newest-first along with the total
	// count matching the filter (for pagination).
	ListByUser(ctx context.Context, userID uuid.UUID, filter CardListFilter) ([]*domain.Card, int, error)

	// Update modifies an existing card's mutable fields (title, content,
	// tags, image URL, visibility).
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViewCount bumps the card's view counter.
	// Returns ErrCardNotFound if the card does not exist.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
