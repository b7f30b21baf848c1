package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid_card", func(t *testing.T) {
		t.Parallel()

		card, err := NewCard(userID, "光合作用", "## 内容", "a leaf", []string{"生物"}, "https://example.com/leaf.png")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, userID, card.UserID)
		assert.True(t, card.IsPublic)
		assert.Zero(t, card.ViewCount)
		assert.False(t, card.CreatedAt.IsZero())
	})

	t.Run("nil_tags_become_empty_slice", func(t *testing.T) {
		t.Parallel()

		card, err := NewCard(userID, "标题", "内容", "", nil, "")
		require.NoError(t, err)
		assert.NotNil(t, card.Tags)
		assert.Empty(t, card.Tags)
	})

	t.Run("excess_tags_truncated", func(t *testing.T) {
		t.Parallel()

		tags := []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "十一", "十二"}
		card, err := NewCard(userID, "标题", "内容", "", tags, "")
		require.NoError(t, err)

		assert.Len(t, card.Tags, MaxCardTags)
		assert.Equal(t, "十", card.Tags[MaxCardTags-1], "truncation keeps the leading tags")
	})

	t.Run("cjk_title_at_limit_accepted", func(t *testing.T) {
		t.Parallel()

		title := strings.Repeat("光", 100)
		_, err := NewCard(userID, title, "内容", "", nil, "")
		assert.NoError(t, err, "title length is counted in runes, not bytes")
	})

	t.Run("over_long_title_rejected", func(t *testing.T) {
		t.Parallel()

		title := strings.Repeat("光", 101)
		_, err := NewCard(userID, title, "内容", "", nil, "")
		assert.ErrorIs(t, err, ErrCardTitleTooLong)
	})

	t.Run("empty_title_rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewCard(userID, "", "内容", "", nil, "")
		assert.ErrorIs(t, err, ErrCardTitleEmpty)
	})

	t.Run("empty_content_rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewCard(userID, "标题", "", "", nil, "")
		assert.ErrorIs(t, err, ErrCardContentEmpty)
	})

	t.Run("nil_user_rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewCard(uuid.Nil, "标题", "内容", "", nil, "")
		assert.ErrorIs(t, err, ErrCardUserIDEmpty)
	})
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	card := &Card{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Title:   "标题",
		Content: "内容",
		Tags:    []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "十一"},
	}

	err := card.Validate()
	assert.ErrorIs(t, err, ErrValidation, "a card mutated past the tag cap fails validation")
}
