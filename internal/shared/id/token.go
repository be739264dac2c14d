// Package id generates the random tokens used in license keys and
// application API keys.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Uppercase alphanumeric alphabet used by license and API key tokens.
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultLicenseTokenLength is the token length after the license prefix.
	DefaultLicenseTokenLength = 8
	// DefaultAPIKeyTokenLength is the token length after PrefixAPIKey.
	DefaultAPIKeyTokenLength = 10

	// PrefixAPIKey prefixes every application API key.
	PrefixAPIKey = "AK"

	separator = "-"
)

// Generate returns a cryptographically random uppercase alphanumeric token.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}

// GenerateWithPrefix returns "prefix-TOKEN".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	token, err := Generate(length)
	if err != nil {
		return "", err
	}
	return FormatWithPrefix(prefix, token), nil
}

// FormatWithPrefix joins a prefix and token with the key separator.
func FormatWithPrefix(prefix, token string) string {
	if token == "" {
		return ""
	}
	return prefix + separator + token
}

// SplitPrefixed splits a key at its last separator, so prefixes may
// themselves contain dashes.
func SplitPrefixed(key string) (prefix, token string, err error) {
	i := strings.LastIndex(key, separator)
	if i <= 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("invalid prefixed key format: %q", key)
	}
	return key[:i], key[i+1:], nil
}

// IsToken reports whether s consists only of alphabet characters.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// TokenGenerator produces "prefix-TOKEN" keys with a fixed token length.
type TokenGenerator struct {
	Length int
}

func NewTokenGenerator(length int) TokenGenerator {
	return TokenGenerator{Length: length}
}

func (g TokenGenerator) Generate(prefix string) (string, error) {
	return GenerateWithPrefix(prefix, g.Length)
}
