package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/generation"
	"github.com/wukongmap/wukong-api/internal/store"
)

// mockUserStore is an in-memory store.UserStore for service tests.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) add(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetUsageCount(ctx context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return 0, store.ErrUserNotFound
	}
	return user.UsageCount, nil
}

func (m *mockUserStore) IncrementUsageWithinLimit(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return 0, store.ErrUserNotFound
	}
	if user.UsageCount >= limit {
		return 0, store.ErrUpdateFailed
	}
	user.UsageCount++
	return user.UsageCount, nil
}

// mockCardStore is an in-memory store.CardStore for service tests.
type mockCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Card

	createErr   error
	createCalls int
	deleteCalls int
}

func newMockCardStore() *mockCardStore {
	return &mockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (m *mockCardStore) add(card *domain.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
}

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.cards[card.ID] = card
	return nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (m *mockCardStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) ([]*domain.Card, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cards []*domain.Card
	for _, c := range m.cards {
		if c.UserID == userID {
			copied := *c
			cards = append(cards, &copied)
		}
	}
	return cards, len(cards), nil
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if _, ok := m.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *mockCardStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	card.ViewCount++
	return nil
}

// mockContentGenerator returns a canned response and counts calls.
type mockContentGenerator struct {
	response string
	err      error
	calls    int
	lastReq  generation.TopicRequest

	// onGenerate, when set, runs while the call is "in flight", letting a
	// test mutate shared state mid-pipeline.
	onGenerate func()
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, req generation.TopicRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.onGenerate != nil {
		m.onGenerate()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockImageGenerator returns a canned image locator and counts calls.
type mockImageGenerator struct {
	url        string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}
