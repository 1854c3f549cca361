package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizer_HTML(t *testing.T) {
	t.Parallel()

	s := NewSanitizer()

	type testCase struct {
		name     string
		input    string
		expected string
	}

	testCases := []testCase{
		{
			name:     "Should keep formatting markup",
			input:    "<p>Join us for <strong>Hack Night</strong></p>",
			expected: "<p>Join us for <strong>Hack Night</strong></p>",
		},
		{
			name:     "Should drop script tags",
			input:    `<p>Hi</p><script>alert("x")</script>`,
			expected: "<p>Hi</p>",
		},
		{
			name:     "Should drop inline event handlers",
			input:    `<img src="https://example.org/a.png" onerror="alert(1)">`,
			expected: `<img src="https://example.org/a.png">`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, s.HTML(tc.input))
		})
	}
}

func TestSanitizer_Text(t *testing.T) {
	t.Parallel()

	s := NewSanitizer()
	require.Equal(t, "Workshop recap", s.Text("  <em>Workshop</em> recap "))
}
