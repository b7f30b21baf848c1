package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wukongmap/wukong-api/internal/domain"
)

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildUserPrompt(TopicRequest{
		Topic:   "光合作用",
		Grade:   domain.GradeJunior2,
		Subject: domain.SubjectBiology,
	})

	assert.Contains(t, prompt, "主题：光合作用")
	assert.Contains(t, prompt, "年级：初二")
	assert.Contains(t, prompt, "学科：生物")
	assert.Contains(t, prompt, "适合初二学生")

	// The output contract names every required field.
	for _, field := range []string{`"title"`, `"content"`, `"imagePrompt"`, `"tags"`} {
		assert.Contains(t, prompt, field)
	}
}

func TestOptimizeImagePrompt(t *testing.T) {
	t.Parallel()

	optimized := OptimizeImagePrompt("一株绿色植物在阳光下")

	assert.Contains(t, optimized, "一株绿色植物在阳光下")
	assert.True(t, strings.HasPrefix(optimized, "Educational illustration"))
	assert.Contains(t, optimized, "no text or words in the image")
}

func TestPlaceholderImageURL(t *testing.T) {
	t.Parallel()

	// Deterministic and independent of upstream state.
	assert.Equal(t, PlaceholderImageURL(), PlaceholderImageURL())
	assert.Contains(t, PlaceholderImageURL(), "placehold.co")
	assert.NotContains(t, PlaceholderImageURL(), " ")
}
