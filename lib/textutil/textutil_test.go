package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in     string
		expect int
		ok     bool
	}{
		{"2,098", 2098, true},
		{"2098", 2098, true},
		{" 565 ", 565, true},
		{"1,234,567", 1234567, true},
		{"399.00", 399, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-20", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseAmount(c.in)
		require.Equal(t, c.ok, ok, "input %q", c.in)
		require.Equal(t, c.expect, got, "input %q", c.in)
	}
}

func TestFirstAmount(t *testing.T) {
	cases := []struct {
		in     string
		expect int
		ok     bool
	}{
		{"$2,098", 2098, true},
		{"NT$320元(含)以上", 320, true},
		{"套餐總計NT$499", 499, true},
		{"no numbers here", 0, false},
	}

	for _, c := range cases {
		got, ok := FirstAmount(c.in)
		require.Equal(t, c.ok, ok, "input %q", c.in)
		require.Equal(t, c.expect, got, "input %q", c.in)
	}
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "a b c", NormalizeSpace("  a\n\tb   c "))
}
