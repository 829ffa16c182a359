// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTactic struct {
	Name   string `json:"name"`
	Effort string `json:"effort" jsonschema:"enum=easy,enum=medium,enum=hard"`
}

type testOutput struct {
	Summary    string             `json:"summary"`
	Confidence float64            `json:"confidence" jsonschema:"minimum=0,maximum=1"`
	Tactics    []testTactic       `json:"tactics"`
	Budget     map[string]float64 `json:"budget,omitempty"`
}

func TestReflect_Document(t *testing.T) {
	s, err := Reflect("test_output", &testOutput{})
	require.NoError(t, err)

	assert.Equal(t, "test_output", s.Name)
	assert.Equal(t, "object", s.Document["type"])
	assert.NotContains(t, s.Document, "$schema")
	assert.NotContains(t, s.Document, "$defs")

	required, ok := s.Document["required"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"summary", "confidence", "tactics"}, required)
}

func TestSchema_Validate(t *testing.T) {
	s := MustReflect("test_output", &testOutput{})

	tests := []struct {
		name      string
		payload   string
		wantValid bool
		wantField string
	}{
		{
			name:      "valid payload",
			payload:   `{"summary":"ok","confidence":0.8,"tactics":[{"name":"a","effort":"easy"}],"budget":{"Sales":10}}`,
			wantValid: true,
		},
		{
			name:      "confidence above one",
			payload:   `{"summary":"ok","confidence":1.5,"tactics":[]}`,
			wantField: "confidence",
		},
		{
			name:      "missing required field",
			payload:   `{"confidence":0.5,"tactics":[]}`,
			wantField: "(root)",
		},
		{
			name:      "enum violation in nested item",
			payload:   `{"summary":"ok","confidence":0.5,"tactics":[{"name":"a","effort":"trivial"}]}`,
			wantField: "tactics.0.effort",
		},
		{
			name:      "not json",
			payload:   `{"summary":`,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Validate([]byte(tt.payload))
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Summary())
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.NotEmpty(t, result.Summary())
		})
	}
}
