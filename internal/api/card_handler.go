package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/service"
	"github.com/wukongmap/wukong-api/internal/store"
)

// CardHandler handles card management API requests.
type CardHandler struct {
	cardService service.CardService
	validator   *validator.Validate
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
	}
}

// ListCards handles GET /cards. Supports search, page and limit query
// parameters; non-numeric paging values fall back to defaults.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	query := r.URL.Query()
	filter := store.CardListFilter{
		Search: query.Get("search"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}

	page, err := h.cardService.ListCards(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards := make([]CardResponse, 0, len(page.Cards))
	for _, card := range page.Cards {
		// Listings skip HTML rendering; the detail endpoint provides it.
		cards = append(cards, newCardResponse(card, ""))
	}

	RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Cards: cards,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newCardResponse(card, renderMarkdown(card.Content)))
}

// UpdateCard handles PUT /cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), userID, cardID, service.CardUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newCardResponse(card, renderMarkdown(card.Content)))
}

// DeleteCard handles DELETE /cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
