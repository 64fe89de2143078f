// Package htmlsanitize strips markup from free-text input.
//
// Donor names, causes and volunteer names are echoed into PDF receipts
// and into admin dashboards, so nothing that looks like HTML is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes every tag and returns the remaining text with entities
// decoded and surrounding space trimmed. Script and style bodies are
// dropped entirely.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like sequence.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
