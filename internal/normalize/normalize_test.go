package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "Accents and case folded, punctuation dropped, spaces collapsed",
			input:    "É l Ñiño!! ",
			expected: "e l nino",
			ok:       true,
		},
		{
			name:     "Plain text lowercased",
			input:    "Harina de Almendras",
			expected: "harina de almendras",
			ok:       true,
		},
		{
			name:     "Digits kept",
			input:    "Leche 3% Descremada",
			expected: "leche 3 descremada",
			ok:       true,
		},
		{
			name:     "Tabs and newlines collapse to single spaces",
			input:    "  aceite \t de\n\noliva  ",
			expected: "aceite de oliva",
			ok:       true,
		},
		{
			name:  "Only punctuation yields nothing",
			input: "###",
			ok:    false,
		},
		{
			name:  "Question marks yield nothing",
			input: "???",
			ok:    false,
		},
		{
			name:  "Whitespace only yields nothing",
			input: "   \t ",
			ok:    false,
		},
		{
			name:  "Empty input yields nothing",
			input: "",
			ok:    false,
		},
		{
			name:     "Non-Latin combining marks stripped",
			input:    "Café Über Strauß", // ß is not a combining mark and is dropped entirely
			expected: "cafe uber strau",
			ok:       true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := Key(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, key)
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{
		"É l Ñiño!! ",
		"Harina de Almendras",
		"  aceite \t de\n\noliva  ",
		"producto 123",
	}

	for _, input := range inputs {
		once, ok := Key(input)
		assert.True(t, ok)
		twice, ok := Key(once)
		assert.True(t, ok)
		assert.Equal(t, once, twice)
	}
}
