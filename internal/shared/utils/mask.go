package utils

import "strings"

// MaskKey hides the token part of a license or API key for logging.
// Example: "VIP-AB12CD34" -> "VIP-AB******"
func MaskKey(key string) string {
	prefix, token, ok := strings.Cut(key, "-")
	if !ok {
		prefix, token = "", key
	} else {
		prefix += "-"
	}
	if len(token) <= 2 {
		return prefix + "***"
	}
	return prefix + token[:2] + strings.Repeat("*", len(token)-2)
}
