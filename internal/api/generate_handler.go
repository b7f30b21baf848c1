package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/service"
)

// GenerateHandler handles the card generation endpoint.
type GenerateHandler struct {
	generationService service.CardGenerationService
	validator         *validator.Validate
}

// NewGenerateHandler creates a new GenerateHandler with the given dependencies.
func NewGenerateHandler(generationService service.CardGenerationService) *GenerateHandler {
	return &GenerateHandler{
		generationService: generationService,
		validator:         validator.New(),
	}
}

// GenerateCard handles POST /generate. It runs the full pipeline and
// returns the persisted card together with the caller's quota position.
func (h *GenerateHandler) GenerateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateCardRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.GenerateCard(r.Context(), userID, service.CardGenerationRequest{
		Topic:             req.Topic,
		Grade:             domain.Grade(req.Grade),
		Subject:           domain.Subject(req.Subject),
		GenerateImage:     req.GenerateImage,
		CustomImagePrompt: req.CustomImagePrompt,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, GenerateCardResponse{
		Card: newCardResponse(result.Card, renderMarkdown(result.Card.Content)),
		Quota: QuotaResponse{
			Used:         result.Quota.Used,
			Limit:        result.Quota.Limit,
			Remaining:    result.Quota.Remaining,
			LimitReached: !result.Quota.Allowed,
		},
	})
}
