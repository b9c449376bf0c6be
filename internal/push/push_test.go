package push

import (
	"strings"
	"testing"
)

func TestTokenUsable(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"short placeholder", "abc123", false},
		{"exactly at threshold", strings.Repeat("a", 50), false},
		{"sentinel", "permission-granted", false},
		{"realistic token", strings.Repeat("k", 142), true},
		{"just over threshold", strings.Repeat("a", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenUsable(tt.token); got != tt.want {
				t.Errorf("TokenUsable(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
