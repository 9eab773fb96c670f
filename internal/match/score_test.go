package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{
			name:     "identical",
			a:        "john smith acme",
			b:        "john smith acme",
			expected: 100,
		},
		{
			name:     "order independent",
			a:        "smith john acme",
			b:        "acme john smith",
			expected: 100,
		},
		{
			name:     "duplicate tokens collapse",
			a:        "john john smith",
			b:        "john smith",
			expected: 100,
		},
		{
			name:     "extra tokens on one side still 100",
			a:        "john smith acme",
			b:        "john smith acme investments",
			expected: 100,
		},
		{
			name:     "empty query",
			a:        "",
			b:        "john smith",
			expected: 0,
		},
		{
			name:     "separator-only key carries no tokens",
			a:        "|",
			b:        "jane doe | widgets",
			expected: 0,
		},
		{
			name:     "shared separator does not count as a token",
			a:        "| acme",
			b:        "widgets | acme",
			expected: 100,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenSetRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatioPartialOverlap(t *testing.T) {
	// Shared surname and company, different first name: high but not exact.
	s := TokenSetRatio("john smith acme", "jane smith acme")
	assert.Greater(t, s, 50)
	assert.Less(t, s, 100)

	// Nothing shared: low.
	assert.Less(t, TokenSetRatio("aaa bbb", "ccc ddd"), 40)
}

func TestTokenSetRatioSymmetric(t *testing.T) {
	a, b := "john smith acme capital", "smith acme"
	assert.Equal(t, TokenSetRatio(a, b), TokenSetRatio(b, a))
}
