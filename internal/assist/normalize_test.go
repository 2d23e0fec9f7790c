package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected []string
		wantErr  bool
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "comma string", input: "Go, Rust, SQL", expected: []string{"Go", "Rust", "SQL"}},
		{name: "string list", input: []string{"Go", "Rust", "SQL"}, expected: []string{"Go", "Rust", "SQL"}},
		{name: "decoded json list", input: []any{"Go", " Rust", "SQL "}, expected: []string{"Go", "Rust", "SQL"}},
		{name: "empty string", input: "", expected: []string{}},
		{name: "only delimiters", input: " , ,\n", expected: []string{}},
		{name: "order kept", input: "SQL,Go,SQL", expected: []string{"SQL", "Go", "SQL"}},
		{name: "non string item", input: []any{"Go", 3.0}, wantErr: true},
		{name: "object", input: map[string]any{"a": "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSkills(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeSkills_BothShapesAgree(t *testing.T) {
	fromString, err := NormalizeSkills("Go, Rust, SQL")
	require.NoError(t, err)
	fromList, err := NormalizeSkills([]any{"Go", "Rust", "SQL"})
	require.NoError(t, err)

	assert.Equal(t, fromList, fromString)
}
