package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"(Age: 26), Orthodox Christian", 26, true},
		{"Age 31", 31, true},
		{"24 years old", 24, true},
		{"aged 78", 78, true},
		{"78 yrs. old", 78, true},
		{"entry number 26", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAge(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseResidence(t *testing.T) {
	addr, ok := parseResidence("resides at 1422 Maple Street, Akron OH")
	require.True(t, ok)
	assert.Equal(t, "1422 Maple Street, Akron OH", addr)

	addr, ok = parseResidence("45 St. Nicholas Ave., Brooklyn NY")
	require.True(t, ok)
	assert.Equal(t, "45 St. Nicholas Ave., Brooklyn NY", addr)

	// bare town names are too ambiguous to count as a residence
	_, ok = parseResidence("Akron, Ohio")
	assert.False(t, ok)

	_, ok = parseResidence("")
	assert.False(t, ok)
}
