package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([\s:="]+)[^\s",}]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt)([\s:="]+)[^\s",}]+`)
	bearerPattern   = regexp.MustCompile(`(?i)(bearer)(\s+)[^\s",}]+`)
	emailPattern    = regexp.MustCompile(`([a-zA-Z0-9._%+-])[a-zA-Z0-9._%+-]*(@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
)

const redactedPlaceholder = "[REDACTED]"

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer", "authorization",
	"secret", "password_hash",
}

// SanitizeLogMessage removes credentials from a log line and masks the local
// part of email addresses.
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = bearerPattern.ReplaceAllString(message, "${1}${2}"+redactedPlaceholder)
	message = emailPattern.ReplaceAllString(message, "${1}***${2}")
	return message
}

// SanitizeMap returns a copy of data with sensitive keys redacted.
func SanitizeMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
			continue
		}
		if s, ok := v.(string); ok {
			v = SanitizeLogMessage(s)
		}
		sanitized[k] = v
	}

	return sanitized
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
