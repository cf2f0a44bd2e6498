package types

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty string", text: "", expected: 0},
		{name: "single char", text: "a", expected: 1},
		{name: "three chars rounds up to one", text: "abc", expected: 1},
		{name: "exactly four chars", text: "abcd", expected: 1},
		{name: "eight chars", text: "abcdefgh", expected: 2},
		{name: "truncates not rounds", text: "abcdefg", expected: 1},
		{name: "counts runes not bytes", text: "你好世界", expected: 1},
		{name: "longer sentence", text: "What is the capital of France?", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.expected {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}
