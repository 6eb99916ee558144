package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		allowed bool
	}{
		{"allowed reference", "references/rules.md", true},
		{"allowed script", "scripts/deploy.sh", true},
		{"allowed nested", "assets/images/logo.png", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"absolute", "/etc/passwd", false},
		{"traversal", "a/../../b", false},
		{"traversal in allowed dir", "references/../secrets.txt", false},
		{"backslash", `references\rules.md`, false},
		{"unknown top-level dir", "other/x.md", false},
		{"bare file", "notes.md", false},
		{"reserved name", "SKILL.md", false},
		{"reserved name lowercase", "skill.md", false},
		{"reserved name nested", "references/SKILL.md", false},
		{"trailing slash", "references/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := CheckPath(tt.path)
			if tt.allowed {
				assert.Empty(t, reasons)
				assert.True(t, PathAllowed(tt.path))
			} else {
				assert.NotEmpty(t, reasons)
				assert.False(t, PathAllowed(tt.path))
			}
		})
	}
}

func TestCheckPathAccumulatesReasons(t *testing.T) {
	reasons := CheckPath(`/bad\..`)
	assert.GreaterOrEqual(t, len(reasons), 3)
}

func TestCheckPathReservedNameShortCircuits(t *testing.T) {
	// The reserved name is terminal: no other rule output accompanies it.
	reasons := CheckPath("references/SKILL.md")
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "reserved")
}
