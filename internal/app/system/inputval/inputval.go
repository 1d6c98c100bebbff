// Package inputval validates user-supplied field values against the
// closed limits in system/limits. Validators return bool; callers map a
// failure to an INVALID_INPUT response before any repository call is
// made (fail fast).
package inputval

import (
	"unicode/utf8"

	"github.com/bughive/bughive/internal/app/system/limits"
	"github.com/dalemusser/waffle/pantry/validate"
)

// UsernameValid reports whether s is a legal username: 6–24 characters,
// letters, digits, underscore, or hyphen.
func UsernameValid(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < limits.MinUsernameLen || n > limits.MaxUsernameLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// PasswordValid reports whether s is a legal plaintext password:
// 6–24 alphanumeric characters.
func PasswordValid(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < limits.MinPasswordLen || n > limits.MaxPasswordLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// EmailValid reports whether s looks like an email address.
func EmailValid(s string) bool {
	return validate.SimpleEmailValid(s)
}

// NameValid reports whether s is non-empty and at most max characters.
// Used for workspace and project names and ticket titles.
func NameValid(s string, max int) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= max
}

// TextValid reports whether s is at most max characters. Unlike
// NameValid, empty is fine; used for optional descriptions.
func TextValid(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}
