package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "trims whitespace",
			input:    []string{"  Daniel ", "Emily"},
			expected: []string{"Daniel", "Emily"},
		},
		{
			name:     "drops empties and blanks",
			input:    []string{"Daniel", "", "   "},
			expected: []string{"Daniel"},
		},
		{
			name:     "dedupes preserving first occurrence order",
			input:    []string{"Emily", "Daniel", " Emily "},
			expected: []string{"Emily", "Daniel"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
