package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected []string
	}{
		{
			name:     "relative links in first-seen order",
			document: "See [run](scripts/run.sh) and [cfg](references/config.yaml).",
			expected: []string{"scripts/run.sh", "references/config.yaml"},
		},
		{
			name:     "duplicates removed",
			document: "[a](references/a.md) then [again](references/a.md)",
			expected: []string{"references/a.md"},
		},
		{
			name:     "absolute urls skipped",
			document: "[docs](https://example.com/docs) and [api](http://example.com) and [local](references/local.md)",
			expected: []string{"references/local.md"},
		},
		{
			name:     "no links",
			document: "plain text with [brackets] and (parens) but no link",
			expected: nil,
		},
		{
			name:     "empty label still counts",
			document: "[](references/anon.md)",
			expected: []string{"references/anon.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractLinks(tt.document))
		})
	}
}
