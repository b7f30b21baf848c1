package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wukongmap/wukong-api/internal/api/shared"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/service"
	"github.com/wukongmap/wukong-api/internal/store"
)

// mockCardService returns canned cards and records calls.
type mockCardService struct {
	page       *service.CardPage
	card       *domain.Card
	err        error
	lastFilter store.CardListFilter
	deleted    []uuid.UUID
}

func (m *mockCardService) ListCards(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) (*service.CardPage, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.card, nil
}

func (m *mockCardService) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, update service.CardUpdate) (*domain.Card, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.card, nil
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	m.deleted = append(m.deleted, cardID)
	return m.err
}

// withChiParam builds a request carrying a chi URL parameter and user ID.
func withChiParam(t *testing.T, method, target, paramName, paramValue string, userID uuid.UUID) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(paramName, paramValue)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestListCardsHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card, err := domain.NewCard(userID, "勾股定理", "直角三角形两直角边的平方和等于斜边的平方。", "", []string{"数学"}, "")
	require.NoError(t, err)

	svc := &mockCardService{page: &service.CardPage{
		Cards: []*domain.Card{card},
		Total: 1,
		Page:  2,
		Limit: 5,
	}}
	handler := NewCardHandler(svc)

	rec := httptest.NewRecorder()
	handler.ListCards(rec, authedRequest(t, http.MethodGet, "/api/cards?search=勾股&page=2&limit=5", nil, userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CardListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Cards, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Empty(t, resp.Cards[0].ContentHTML, "listings skip HTML rendering")

	assert.Equal(t, store.CardListFilter{Search: "勾股", Page: 2, Limit: 5}, svc.lastFilter)
}

func TestGetCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success_renders_html", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(userID, "勾股定理", "## 定理\n\na² + b² = c²", "", nil, "")
		require.NoError(t, err)

		handler := NewCardHandler(&mockCardService{card: card})

		rec := httptest.NewRecorder()
		handler.GetCard(rec, withChiParam(t, http.MethodGet, "/api/cards/"+card.ID.String(), "id", card.ID.String(), userID))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CardResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.ContentHTML, "<h2")
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(&mockCardService{err: store.ErrCardNotFound})

		id := uuid.New().String()
		rec := httptest.NewRecorder()
		handler.GetCard(rec, withChiParam(t, http.MethodGet, "/api/cards/"+id, "id", id, userID))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not_owned", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(&mockCardService{err: service.ErrNotOwned})

		id := uuid.New().String()
		rec := httptest.NewRecorder()
		handler.GetCard(rec, withChiParam(t, http.MethodGet, "/api/cards/"+id, "id", id, userID))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed_id", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(&mockCardService{})

		rec := httptest.NewRecorder()
		handler.GetCard(rec, withChiParam(t, http.MethodGet, "/api/cards/not-a-uuid", "id", "not-a-uuid", userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	svc := &mockCardService{}
	handler := NewCardHandler(svc)

	rec := httptest.NewRecorder()
	handler.DeleteCard(rec, withChiParam(t, http.MethodDelete, "/api/cards/"+cardID.String(), "id", cardID.String(), userID))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{cardID}, svc.deleted)
}
