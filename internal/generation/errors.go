package generation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Common errors returned by the generation package
var (
	// ErrEmptyResponse is returned when the upstream provider answers with
	// no usable payload (no choices, no text, no image).
	ErrEmptyResponse = errors.New("empty response from model provider")

	// ErrMalformedOutput is returned when no structured record can be
	// recovered from the model's raw output. The concrete error is either a
	// *SyntaxError or a *MissingFieldsError, so callers can distinguish
	// "provider returned garbage" from "valid but incomplete JSON".
	ErrMalformedOutput = errors.New("malformed model output")
)

// maxSnippetLen caps the diagnostic text carried inside extraction errors.
const maxSnippetLen = 200

// SyntaxError reports that the best candidate span was not valid JSON.
// Snippet retains the beginning of the candidate for diagnostics.
type SyntaxError struct {
	Snippet string
	Err     error
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

// Unwrap returns the underlying JSON error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is reports that a SyntaxError matches ErrMalformedOutput.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedOutput
}

// MissingFieldsError reports that the parsed object lacked one or more of
// the required scalar fields. Snippet retains the partially extracted text.
type MissingFieldsError struct {
	Fields  []string
	Snippet string
}

// Error implements the error interface for MissingFieldsError.
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("model output is missing required fields: %s",
		strings.Join(e.Fields, ", "))
}

// Is reports that a MissingFieldsError matches ErrMalformedOutput.
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMalformedOutput
}

// snippet truncates s for inclusion in diagnostic errors, cutting on a rune
// boundary since model output is mostly CJK text.
func snippet(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
