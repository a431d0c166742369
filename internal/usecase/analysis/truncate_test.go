package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUnderBudgetIsUnchanged(t *testing.T) {
	text := "Alice: short meeting"
	assert.Equal(t, text, truncateToBudget(text, 100))
}

func TestTruncateZeroBudgetDisablesTruncation(t *testing.T) {
	text := strings.Repeat("word ", 1000)
	assert.Equal(t, text, truncateToBudget(text, 0))
}

func TestTruncateKeepsHeadAndTail(t *testing.T) {
	words := make([]string, 300)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	text := strings.Join(words, " ")

	got := truncateToBudget(text, 90)

	assert.Contains(t, got, truncationMarker)
	assert.True(t, strings.HasPrefix(got, "w000"))
	assert.True(t, strings.HasSuffix(got, "w299"))
	assert.LessOrEqual(t, len(strings.Fields(got)), 90+strings.Count(truncationMarker, " ")+1)
}

func TestExtractJSONHandlesProseAndFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Here is the result:\n{\"a\": {\"b\": 2}}\nThanks!", `{"a": {"b": 2}}`},
		{`{"s": "brace } in string"}`, `{"s": "brace } in string"}`},
	}
	for _, tc := range cases {
		got, err := extractJSON(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestExtractJSONRejectsNonJSON(t *testing.T) {
	for _, in := range []string{"", "no object here", "{\"unterminated\": "} {
		_, err := extractJSON(in)
		assert.Error(t, err, in)
	}
}
