package inputval_test

import (
	"strings"
	"testing"

	"github.com/bughive/bughive/internal/app/system/inputval"
	"github.com/bughive/bughive/internal/app/system/limits"
)

func TestUsernameValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"minimum length", "abc123", true},
		{"maximum length", strings.Repeat("a", 24), true},
		{"too short", "abc12", false},
		{"too long", strings.Repeat("a", 25), false},
		{"underscore and hyphen", "dev_user-1", true},
		{"space rejected", "dev user1", false},
		{"symbol rejected", "dev@user", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inputval.UsernameValid(tt.input); got != tt.want {
				t.Errorf("UsernameValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPasswordValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"minimum length", "abc123", true},
		{"maximum length", strings.Repeat("a1", 12), true},
		{"too short", "abc12", false},
		{"too long", strings.Repeat("a", 25), false},
		{"underscore rejected", "pass_word", false},
		{"space rejected", "pass word1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inputval.PasswordValid(tt.input); got != tt.want {
				t.Errorf("PasswordValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameValid_ProjectBoundary(t *testing.T) {
	// Exactly at the limit passes; one over fails.
	at := strings.Repeat("x", limits.MaxProjectName)
	over := strings.Repeat("x", limits.MaxProjectName+1)

	if !inputval.NameValid(at, limits.MaxProjectName) {
		t.Errorf("project name of %d chars should be valid", limits.MaxProjectName)
	}
	if inputval.NameValid(over, limits.MaxProjectName) {
		t.Errorf("project name of %d chars should be invalid", limits.MaxProjectName+1)
	}
	if inputval.NameValid("", limits.MaxProjectName) {
		t.Error("empty project name should be invalid")
	}
}

func TestNameValid_CountsRunesNotBytes(t *testing.T) {
	// 25 multibyte characters is 25 chars even though it is 75 bytes.
	name := strings.Repeat("ü", limits.MaxWorkspaceName)
	if !inputval.NameValid(name, limits.MaxWorkspaceName) {
		t.Error("multibyte name at the limit should be valid")
	}
}

func TestTextValid(t *testing.T) {
	if !inputval.TextValid("", limits.MaxProjectDescription) {
		t.Error("empty description should be valid")
	}
	if inputval.TextValid(strings.Repeat("x", limits.MaxProjectDescription+1), limits.MaxProjectDescription) {
		t.Error("oversized description should be invalid")
	}
}
