// Package redact scrubs sensitive information from strings before they are
// logged or returned in error responses. Upstream provider and database
// errors routinely embed API keys, connection strings, or user emails.
package redact

import "regexp"

// Redaction placeholders
const (
	credentialPlaceholder = "[REDACTED_CREDENTIAL]"
	keyPlaceholder        = "[REDACTED_KEY]"
	jwtPlaceholder        = "[REDACTED_JWT]"
	emailPlaceholder      = "[REDACTED_EMAIL]"
)

var redactions = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Database connection strings with inline credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), credentialPlaceholder},

	// API keys, bearer tokens and similar secrets
	{regexp.MustCompile(`(?i)(api[_-]?key|bearer|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), keyPlaceholder},

	// Three-part base64url JWT tokens
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), jwtPlaceholder},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), emailPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range redactions {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's message.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
