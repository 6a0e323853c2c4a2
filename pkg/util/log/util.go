package log

import (
	"strings"
)

// ObscureValue masks a secret, keeping only enough of it to tell values apart
func ObscureValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****"
}

// IsMaskedKey reports whether the last segment of a dotted key contains any of the masked words
func IsMaskedKey(key string, maskedWords []string) bool {
	parts := strings.Split(key, ".")
	last := strings.ToLower(parts[len(parts)-1])
	for _, word := range maskedWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" && strings.Contains(last, word) {
			return true
		}
	}
	return false
}
