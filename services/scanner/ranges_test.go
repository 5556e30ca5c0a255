package scanner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExpandRanges(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		tokens   []string
		expected []string
	}{
		{
			name:     "range expands inclusive and ascending",
			tokens:   []string{"15000-15002"},
			expected: []string{"15000", "15001", "15002"},
		},
		{
			name:     "single integer pads to five digits",
			tokens:   []string{"7"},
			expected: []string{"00007"},
		},
		{
			name:     "input order is preserved across tokens",
			tokens:   []string{"20000", "15000-15001"},
			expected: []string{"20000", "15000", "15001"},
		},
		{
			name:     "overlapping ranges keep their duplicates",
			tokens:   []string{"15000-15001", "15001"},
			expected: []string{"15000", "15001", "15001"},
		},
		{
			name:   "malformed tokens are dropped, valid ones survive",
			tokens: []string{"abc", "15002-15000", "-3", "3-", "15000"},
			expected: []string{
				"15000",
			},
		},
		{
			name:     "whitespace around bounds is tolerated",
			tokens:   []string{" 15000 - 15001 "},
			expected: []string{"15000", "15001"},
		},
		{
			name:     "empty input yields no candidates",
			tokens:   nil,
			expected: nil,
		},
	}

	for _, test := range testCases {
		got := ExpandRanges(ctx, test.tokens)
		diff := cmp.Diff(test.expected, got)
		require.Empty(t, diff, test.name)
	}
}
