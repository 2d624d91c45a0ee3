package impl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUsername(t *testing.T) {
	testCases := []struct {
		name        string
		displayName string
		wantBase    string
	}{
		{
			name:        "simple name is lowercased",
			displayName: "Alice",
			wantBase:    "alice",
		},
		{
			name:        "spaces and punctuation stripped",
			displayName: "Jean-Luc Picard!",
			wantBase:    "jeanlucpicard",
		},
		{
			name:        "underscores and digits survive",
			displayName: "agent_47",
			wantBase:    "agent_47",
		},
		{
			name:        "long name truncated to twenty",
			displayName: "abcdefghijklmnopqrstuvwxyz",
			wantBase:    "abcdefghijklmnopqrst",
		},
		{
			name:        "all-symbol name falls back",
			displayName: "!!! ???",
			wantBase:    "user",
		},
		{
			name:        "empty name falls back",
			displayName: "",
			wantBase:    "user",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := generateUsername(tc.displayName)

			assert.True(t, strings.HasPrefix(got, tc.wantBase), "got %q, want prefix %q", got, tc.wantBase)
			assert.Len(t, got, len(tc.wantBase)+6)

			suffix := got[len(tc.wantBase):]
			assert.Regexp(t, "^[0-9a-f]{6}$", suffix)
		})
	}
}

func TestGenerateUsername_SuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		seen[generateUsername("Alice")] = true
	}

	assert.Greater(t, len(seen), 1, "suffix should vary between calls")
}
