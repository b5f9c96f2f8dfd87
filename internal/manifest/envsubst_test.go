package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVariables(t *testing.T) {
	vars := map[string]string{
		"CCT_VAR_ACCENT": "#000000",
		"CCT_VAR_":       "ignored",
		"PATH":           "/usr/bin",
		"cct_var_LOWER":  "ignored",
	}

	assert.Equal(t, map[string]string{"ACCENT": "#000000"}, filterVariables(vars))
}

func TestSubstituteVariables(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		definition map[string]string
		env        map[string]string
		expected   string
	}{
		{
			name:       "definition variable",
			input:      "bold: ${ACCENT}",
			definition: map[string]string{"ACCENT": "#111111"},
			expected:   "bold: #111111",
		},
		{
			name:       "environment wins over definition",
			input:      "bold: ${ACCENT}",
			definition: map[string]string{"ACCENT": "#111111"},
			env:        map[string]string{"CCT_VAR_ACCENT": "#222222"},
			expected:   "bold: #222222",
		},
		{
			name:     "fallback for unset variable",
			input:    "title: ${TITLE:-Concatenator}",
			expected: "title: Concatenator",
		},
		{
			name:     "unprefixed environment is ignored",
			input:    "title: ${CCT_TEST_TITLE:-none}",
			env:      map[string]string{"CCT_TEST_TITLE": "leaked"},
			expected: "title: none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			out, err := SubstituteVariables([]byte(tt.input), tt.definition)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestDefinitionVariables(t *testing.T) {
	obj := map[string]any{
		"variables": map[string]any{"A": "x", "N": float64(3)},
	}
	assert.Equal(t, map[string]string{"A": "x", "N": "3"}, definitionVariables(obj))
	assert.Nil(t, definitionVariables(map[string]any{}))
}
