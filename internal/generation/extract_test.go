package generation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validObject = `{
  "title": "光合作用",
  "content": "## 核心概念\n\n绿色植物利用光能合成有机物。",
  "imagePrompt": "一株绿色植物在阳光下，叶片放大展示叶绿体",
  "tags": ["生物", "初二", "光合作用", "叶绿体", "能量转换"]
}`

func assertValidFields(t *testing.T, fields CardFields) {
	t.Helper()
	assert.Equal(t, "光合作用", fields.Title)
	assert.Equal(t, "## 核心概念\n\n绿色植物利用光能合成有机物。", fields.Content)
	assert.Equal(t, "一株绿色植物在阳光下，叶片放大展示叶绿体", fields.ImagePrompt)
	assert.Equal(t, []string{"生物", "初二", "光合作用", "叶绿体", "能量转换"}, fields.Tags)
}

func TestExtractCardFields_BareJSON(t *testing.T) {
	t.Parallel()

	fields, err := ExtractCardFields(validObject)
	require.NoError(t, err)
	assertValidFields(t, fields)
}

func TestExtractCardFields_FencedJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "fence with json tag",
			raw:  "```json\n" + validObject + "\n```",
		},
		{
			name: "fence without tag",
			raw:  "```\n" + validObject + "\n```",
		},
		{
			name: "fence with surrounding prose",
			raw:  "好的，以下是为您生成的知识卡片：\n\n```json\n" + validObject + "\n```\n\n希望对您有帮助！",
		},
		{
			name: "fence tag followed by spaces",
			raw:  "```json   \n" + validObject + "\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fields, err := ExtractCardFields(tt.raw)
			require.NoError(t, err)
			assertValidFields(t, fields)
		})
	}
}

func TestExtractCardFields_TruncatedFence(t *testing.T) {
	t.Parallel()

	// Opening fence present, closing fence cut off by the token limit, but
	// the JSON object itself is complete.
	raw := "以下是知识卡片：\n```json\n" + validObject
	fields, err := ExtractCardFields(raw)
	require.NoError(t, err)
	assertValidFields(t, fields)
}

func TestExtractCardFields_ProseWrappedObject(t *testing.T) {
	t.Parallel()

	raw := "这是我生成的卡片内容。\n" + validObject + "\n以上就是全部内容。"
	fields, err := ExtractCardFields(raw)
	require.NoError(t, err)
	assertValidFields(t, fields)
}

func TestExtractCardFields_NestedBracesInValues(t *testing.T) {
	t.Parallel()

	raw := `答案如下 {"title": "集合", "content": "集合 {1, 2, 3} 的表示方法", "imagePrompt": "黑板上的集合图示", "tags": ["数学"]} 完毕`
	fields, err := ExtractCardFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "集合", fields.Title)
	assert.Equal(t, "集合 {1, 2, 3} 的表示方法", fields.Content)
}

func TestExtractCardFields_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		missing []string
	}{
		{
			name:    "missing title",
			raw:     `{"content": "c", "imagePrompt": "p", "tags": []}`,
			missing: []string{"title"},
		},
		{
			name:    "missing content",
			raw:     `{"title": "t", "imagePrompt": "p", "tags": []}`,
			missing: []string{"content"},
		},
		{
			name:    "missing image prompt",
			raw:     `{"title": "t", "content": "c", "tags": []}`,
			missing: []string{"imagePrompt"},
		},
		{
			name:    "only tags present",
			raw:     `{"tags": ["a"]}`,
			missing: []string{"title", "content", "imagePrompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExtractCardFields(tt.raw)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedOutput)

			var missingErr *MissingFieldsError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.missing, missingErr.Fields)
			assert.NotEmpty(t, missingErr.Snippet)
		})
	}
}

func TestExtractCardFields_SyntaxError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "抱歉，我无法生成这个主题的卡片。"},
		{name: "truncated object", raw: `{"title": "光合作用", "content": "被截断了`},
		{name: "truncated fenced object", raw: "```json\n{\"title\": \"光合作用\", \"content\": \"被截断"},
		{name: "empty input", raw: ""},
		{name: "array instead of object", raw: `["title", "content"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExtractCardFields(tt.raw)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedOutput)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)

			// Syntax and missing-field failures stay distinguishable.
			var missingErr *MissingFieldsError
			assert.False(t, errors.As(err, &missingErr))
		})
	}
}

func TestExtractCardFields_TagCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "tags absent", raw: `{"title": "t", "content": "c", "imagePrompt": "p"}`},
		{name: "tags is a string", raw: `{"title": "t", "content": "c", "imagePrompt": "p", "tags": "生物"}`},
		{name: "tags is an object", raw: `{"title": "t", "content": "c", "imagePrompt": "p", "tags": {"a": 1}}`},
		{name: "tags is null", raw: `{"title": "t", "content": "c", "imagePrompt": "p", "tags": null}`},
		{name: "tags is a number array", raw: `{"title": "t", "content": "c", "imagePrompt": "p", "tags": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fields, err := ExtractCardFields(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, []string{}, fields.Tags)
		})
	}
}

func TestExtractCardFields_UnboundedTagsPreserved(t *testing.T) {
	t.Parallel()

	// The extractor itself does not cap the tag count; domain.NewCard
	// truncates defensively when the card is composed.
	raw := `{"title": "t", "content": "c", "imagePrompt": "p",
		"tags": ["1","2","3","4","5","6","7","8","9","10","11","12"]}`
	fields, err := ExtractCardFields(raw)
	require.NoError(t, err)
	assert.Len(t, fields.Tags, 12)
}

func TestBraceBalancedSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "simple object", input: `before {"a": 1} after`, want: `{"a": 1}`, ok: true},
		{name: "nested object", input: `x {"a": {"b": 2}} y`, want: `{"a": {"b": 2}}`, ok: true},
		{name: "no braces", input: "nothing here", ok: false},
		{name: "unclosed", input: `{"a": 1`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := braceBalancedSpan(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
