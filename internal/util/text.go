package util

import "strings"

// SanitizeText makes model-produced names safe to store: invalid UTF-8 and
// NUL bytes are dropped and runs of whitespace collapse to one space.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	sanitized = strings.ReplaceAll(sanitized, "\x00", "")
	return strings.Join(strings.Fields(sanitized), " ")
}
