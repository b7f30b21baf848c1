package api

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders card content for clients that want ready-made HTML.
// GFM covers the tables and task lists the model occasionally emits.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderMarkdown converts Markdown card content to HTML. On a render
// failure it returns an empty string; the response still carries the raw
// Markdown, so clients lose nothing essential.
func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("failed to render card content to HTML", "error", err)
		return ""
	}
	return buf.String()
}
