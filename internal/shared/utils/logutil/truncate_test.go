package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty", "", 10, ""},
		{"fits", "Pixel 8", 64, "Pixel 8"},
		{"exact length", "Pixel", 5, "Pixel"},
		{"cut", "Samsung Galaxy S24 Ultra", 7, "Samsung..."},
		{"zero limit", "Pixel 8", 0, "..."},
		{"negative limit", "Pixel 8", -3, "..."},
		{"multibyte runes kept whole", "Điện thoại Việt", 4, "Điện..."},
		{"control characters dropped", "Pixel\n8\tPro", 64, "Pixel8Pro"},
		{"forged log line", "dev\r\nlevel=ERROR msg=pwned", 8, "devlevel..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}
