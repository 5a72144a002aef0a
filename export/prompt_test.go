package export

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFocusLine(t *testing.T) {
	line := FocusLine("Tracker", "A lightweight tracker.")
	assert.Equal(t, "**Current Focus:** Tracker - A lightweight tracker.", line)
}

func TestFocusLine_EmptyDescription(t *testing.T) {
	line := FocusLine("Tracker", "")
	assert.Equal(t, "**Current Focus:** Tracker", line)
}

func TestFocusLine_FlattensMultiline(t *testing.T) {
	line := FocusLine("Tracker", "first line\nsecond   line")
	assert.Equal(t, "**Current Focus:** Tracker - first line second line", line)
}

func TestFocusLine_TruncatesLongDescription(t *testing.T) {
	long := strings.Repeat("x", 150)
	line := FocusLine("Tracker", long)

	assert.True(t, strings.HasSuffix(line, "..."))
	assert.Contains(t, line, strings.Repeat("x", 97)+"...")
	assert.NotContains(t, line, strings.Repeat("x", 98))
}

func TestFocusLine_TruncatesOnRuneBoundary(t *testing.T) {
	// 96 ASCII runes followed by 10 two-byte runes: 106 runes total.
	long := strings.Repeat("a", 96) + strings.Repeat("é", 10)
	line := FocusLine("Feature", long)

	assert.True(t, utf8.ValidString(line))
	assert.Equal(t, "**Current Focus:** Feature - "+strings.Repeat("a", 96)+"é...", line)
}

func TestFocusLine_ExactLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("y", 100)
	line := FocusLine("Tracker", exact)
	assert.Equal(t, "**Current Focus:** Tracker - "+exact, line)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Task Creation", "task-creation"},
		{"API / Gateway v2", "api-gateway-v2"},
		{"  Trimmed  ", "trimmed"},
		{"***", "feature"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "Slugify(%q)", tt.name)
	}
}
