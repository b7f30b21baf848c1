package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`

	// Token is the JWT used for API authorization.
	Token string `json:"token"`
}

// GenerateCardRequest defines the payload for the card generation endpoint.
// Grade and subject accept the Chinese labels the generation form offers.
type GenerateCardRequest struct {
	Topic   string `json:"topic"   validate:"required,min=1,max=100"`
	Grade   string `json:"grade"   validate:"required,oneof=初一 初二 初三 高一 高二 高三"`
	Subject string `json:"subject" validate:"required,oneof=通用 语文 数学 英语 物理 化学 生物 历史 地理 政治"`

	// GenerateImage asks for an illustration; CustomImagePrompt overrides
	// the model-suggested image prompt when both are set.
	GenerateImage     bool   `json:"generate_image"`
	CustomImagePrompt string `json:"custom_image_prompt,omitempty" validate:"omitempty,max=500"`
}

// UpdateCardRequest defines the payload for the card update endpoint.
// Absent fields leave the stored value untouched.
type UpdateCardRequest struct {
	Title    *string  `json:"title,omitempty"    validate:"omitempty,min=1,max=100"`
	Content  *string  `json:"content,omitempty"  validate:"omitempty,min=1"`
	Tags     []string `json:"tags,omitempty"     validate:"omitempty,max=10"`
	ImageURL *string  `json:"image_url,omitempty"`
	IsPublic *bool    `json:"is_public,omitempty"`
}

// CardResponse is the card shape returned by the API. ContentHTML carries
// the Markdown content rendered to HTML; clients that render Markdown
// themselves can ignore it.
type CardResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	ImagePrompt string    `json:"image_prompt,omitempty"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ViewCount   int       `json:"view_count"`
	LikeCount   int       `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuotaResponse reports a user's generation quota position.
type QuotaResponse struct {
	Used         int  `json:"used"`
	Limit        int  `json:"limit"`
	Remaining    int  `json:"remaining"`
	LimitReached bool `json:"limit_reached"`
}

// GenerateCardResponse defines the successful response for the generation
// endpoint: the new card plus the quota position after the run was charged.
type GenerateCardResponse struct {
	Card  CardResponse  `json:"card"`
	Quota QuotaResponse `json:"quota"`
}

// CardListResponse is one page of a user's cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// newCardResponse converts a domain card to its API shape.
func newCardResponse(card *domain.Card, contentHTML string) CardResponse {
	return CardResponse{
		ID:          card.ID,
		UserID:      card.UserID,
		Title:       card.Title,
		Content:     card.Content,
		ContentHTML: contentHTML,
		ImagePrompt: card.ImagePrompt,
		Tags:        card.Tags,
		ImageURL:    card.ImageURL,
		IsPublic:    card.IsPublic,
		ViewCount:   card.ViewCount,
		LikeCount:   card.LikeCount,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}
