package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Providers wrap JSON in prose, Markdown code fences, or truncate output near
// token limits, and no single regular expression reliably isolates the object
// from all of these. ExtractCardFields therefore applies a layered fallback:
// fence extraction first (the most common and least ambiguous wrapping), then
// a brace-balanced scan as the safety net for non-fenced or malformed-fence
// output, then a final fence-marker sweep before the strict parse.

var (
	// An opening fence on its own line, optionally tagged as json.
	fenceOpenRe = regexp.MustCompile("```(?:json)?\\s*\n")

	// A complete single-line fenced object, e.g. ```json {...} ```.
	fenceInlineRe = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

	// Any leftover fence marker, with or without a language tag.
	fenceMarkerRe = regexp.MustCompile("```(?:json)?")
)

// ExtractCardFields recovers a structured card record from raw model output.
// Failure is reported as a *SyntaxError (no candidate span parsed as JSON) or
// a *MissingFieldsError (valid JSON lacking required fields); both match
// ErrMalformedOutput via errors.Is.
func ExtractCardFields(raw string) (CardFields, error) {
	candidate := strings.TrimSpace(raw)

	// Step 1: fence-delimited extraction.
	if strings.Contains(candidate, "```") {
		if loc := fenceOpenRe.FindStringIndex(candidate); loc != nil {
			start := loc[1]
			if end := strings.Index(candidate[start:], "\n```"); end >= 0 {
				candidate = strings.TrimSpace(candidate[start : start+end])
			} else {
				// No closing fence: the output was truncated mid-block.
				// Take everything after the opening fence and let the
				// parse step decide whether the JSON survived.
				candidate = strings.TrimSpace(candidate[start:])
			}
		} else if m := fenceInlineRe.FindStringSubmatch(candidate); m != nil {
			candidate = strings.TrimSpace(m[1])
		}
	}

	// Step 2: brace-balanced fallback when fence extraction did not produce
	// something that looks like a bare object.
	if strings.Contains(candidate, "```") || !strings.HasPrefix(candidate, "{") {
		if span, ok := braceBalancedSpan(candidate); ok {
			candidate = span
		}
	}

	// Step 3: strip any remaining fence markers unconditionally.
	candidate = strings.TrimSpace(fenceMarkerRe.ReplaceAllString(candidate, ""))

	// Step 4: strict parse.
	var parsed struct {
		Title       string          `json:"title"`
		Content     string          `json:"content"`
		ImagePrompt string          `json:"imagePrompt"`
		Tags        json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return CardFields{}, &SyntaxError{Snippet: snippet(candidate), Err: err}
	}

	// Step 5: field validation. The three scalar fields are required; tag
	// shape problems are never a hard failure.
	var missing []string
	if parsed.Title == "" {
		missing = append(missing, "title")
	}
	if parsed.Content == "" {
		missing = append(missing, "content")
	}
	if parsed.ImagePrompt == "" {
		missing = append(missing, "imagePrompt")
	}
	if len(missing) > 0 {
		return CardFields{}, &MissingFieldsError{Fields: missing, Snippet: snippet(candidate)}
	}

	return CardFields{
		Title:       parsed.Title,
		Content:     parsed.Content,
		ImagePrompt: parsed.ImagePrompt,
		Tags:        coerceTags(parsed.Tags),
	}, nil
}

// coerceTags turns the raw tags value into a string slice. Absent or
// non-array tags yield an empty slice rather than an error.
func coerceTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

// braceBalancedSpan returns the first balanced-brace span in s: the substring
// starting at the first '{' whose nested brace pairs are fully matched.
// Braces inside quoted strings are not special-cased; tag and field values
// containing balanced braces are still captured correctly by depth tracking.
func braceBalancedSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
