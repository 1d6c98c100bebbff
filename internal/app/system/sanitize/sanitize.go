// Package sanitize strips markup from user-supplied free text before it
// is validated and stored. All free-text fields (names, descriptions,
// comment bodies) are plain text; anything that survives sanitization is
// safe to echo back in JSON responses.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML elements and attributes from s and trims
// surrounding whitespace. Plain text passes through unchanged.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
