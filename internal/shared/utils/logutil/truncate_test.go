package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "empty string", input: "", maxLen: 10, expected: ""},
		{name: "zero maxLen", input: "hello", maxLen: 0, expected: "..."},
		{name: "negative maxLen", input: "hello", maxLen: -1, expected: "..."},
		{name: "shorter than maxLen", input: "hello", maxLen: 10, expected: "hello"},
		{name: "equal to maxLen", input: "hello", maxLen: 5, expected: "hello"},
		{name: "token prefix", input: "sk_live_abcdefghijklmnop", maxLen: 8, expected: "sk_live_..."},
		{name: "multibyte kept whole", input: "Hoàn thành", maxLen: 3, expected: "Hoà..."},
		{name: "multibyte fits", input: "Đã hủy", maxLen: 6, expected: "Đã hủy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}
