package question

import (
	"encoding/json"
	"testing"
)

func TestText_Capture(t *testing.T) {
	variants := []Variant{NewShortText(), NewLongText(), NewEmail()}

	tests := []struct {
		name        string
		rawValue    string
		expected    Answer
		shouldError bool
	}{
		{
			name:     "Should capture plain string",
			rawValue: `"John Doe"`,
			expected: Text("John Doe"),
		},
		{
			name:     "Should capture empty string",
			rawValue: `""`,
			expected: Text(""),
		},
		{
			name:     "Should not enforce email format",
			rawValue: `"not-an-email"`,
			expected: Text("not-an-email"),
		},
		{
			name:     "Should treat null as absent",
			rawValue: `null`,
			expected: Answer{},
		},
		{
			name:        "Should return error for number",
			rawValue:    `12`,
			shouldError: true,
		},
	}

	for _, v := range variants {
		q := Question{ID: "q1", Type: v.Type()}
		for _, tt := range tests {
			t.Run(string(v.Type())+"/"+tt.name, func(t *testing.T) {
				result, err := v.Capture(q, json.RawMessage(tt.rawValue))

				if tt.shouldError {
					if err == nil {
						t.Errorf("Expected error but got nil")
					}
					return
				}

				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}

				if !result.Equal(tt.expected) {
					t.Errorf("Expected %+v, got %+v", tt.expected, result)
				}
			})
		}
	}
}
