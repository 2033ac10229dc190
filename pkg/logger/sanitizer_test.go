package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login failed password=hunter22 for user", "login failed password=[REDACTED] for user"},
		{`{"secret":"s3cret-pass","name":"x"}`, `{"secret":"[REDACTED]","name":"x"}`},
		{"Authorization: Bearer eyJhbGciOi.abc.def", "Authorization: Bearer [REDACTED]"},
		{"token: abc123", "token: [REDACTED]"},
		{"duplicate key ada@example.com", "duplicate key a***@example.com"},
		{"order 12 not found", "order 12 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLogMessage(tt.in))
		})
	}
}

func TestSanitizeMap(t *testing.T) {
	got := SanitizeMap(map[string]any{
		"Password":      "x",
		"refresh_token": "y",
		"role":          "employee",
		"files":         2,
		"note":          "contact bob@shop.test",
	})

	assert.Equal(t, redactedPlaceholder, got["Password"])
	assert.Equal(t, redactedPlaceholder, got["refresh_token"])
	assert.Equal(t, "employee", got["role"])
	assert.Equal(t, 2, got["files"])
	assert.Equal(t, "contact b***@shop.test", got["note"])
	assert.Nil(t, SanitizeMap(nil))
}
