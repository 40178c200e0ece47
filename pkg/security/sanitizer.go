package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every HTML element. Policies are safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the decode/strip loop for nested entity encodings.
const maxSanitizePasses = 8

// SanitizeText removes markup from free-text input such as usernames and
// display names. Entities escaped by the policy are decoded again so plain
// punctuation survives unchanged; the policy is then re-applied until the
// text is stable, so entity-encoded markup cannot decode into real tags.
// Surrounding whitespace is trimmed.
func SanitizeText(s string) string {
	for range maxSanitizePasses {
		if s == "" {
			return ""
		}
		out := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
		if out == s {
			return out
		}
		s = out
	}
	// still changing: drop anything that could open a tag
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}

// SanitizeTextPtr applies SanitizeText to an optional value.
func SanitizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeText(*s)
	return &v
}
