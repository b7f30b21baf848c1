package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	ErrCardIDEmpty      = errors.New("card ID cannot be empty")
	ErrCardUserIDEmpty  = errors.New("card user ID cannot be empty")
	ErrCardTitleEmpty   = errors.New("card title cannot be empty")
	ErrCardTitleTooLong = errors.New("card title cannot exceed 100 characters")
	ErrCardContentEmpty = errors.New("card content cannot be empty")
)

// MaxCardTags is the storage cap on the number of tags per card.
// The extractor places no bound on tags, so composition truncates to this.
const MaxCardTags = 10

// maxCardTitleRunes is the storage cap on title length, counted in runes
// because titles are predominantly CJK text.
const maxCardTitleRunes = 100

// Card represents a generated knowledge card owned by a user.
// ImageURL is "" when the card has no illustration; it is persisted as NULL
// and omitted from JSON, never stored as an empty string.
type Card struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // Markdown
	ImagePrompt string    `json:"image_prompt,omitempty"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ViewCount   int       `json:"view_count"`
	LikeCount   int       `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCard creates a new Card owned by the given user. It generates a new UUID,
// sets timestamps, marks the card public by default, and truncates the tag
// list to MaxCardTags. An over-long title is rejected rather than truncated:
// titles are user-visible and silent mutation would be surprising.
// Returns an error if validation fails.
func NewCard(userID uuid.UUID, title, content, imagePrompt string, tags []string, imageURL string) (*Card, error) {
	if len(tags) > MaxCardTags {
		tags = tags[:MaxCardTags]
	}
	if tags == nil {
		tags = []string{}
	}

	card := &Card{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Content:     content,
		ImagePrompt: imagePrompt,
		Tags:        tags,
		ImageURL:    imageURL,
		IsPublic:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Title == "" {
		return ErrCardTitleEmpty
	}

	if len([]rune(c.Title)) > maxCardTitleRunes {
		return ErrCardTitleTooLong
	}

	if c.Content == "" {
		return ErrCardContentEmpty
	}

	if len(c.Tags) > MaxCardTags {
		return NewValidationError("tags", "cannot exceed 10 entries", ErrValidation)
	}

	return nil
}
