package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// focusDescriptionLimit caps the focus-line description length.
const focusDescriptionLimit = 100

// currentFocusRe matches an existing focus line in PROMPT.md.
var currentFocusRe = regexp.MustCompile(`(?m)^\*\*Current Focus:\*\*\s*.*$`)

// whitespaceRe flattens multi-line descriptions to a single line.
var whitespaceRe = regexp.MustCompile(`\s+`)

// FocusLine builds the PROMPT.md focus line for a project. Descriptions
// longer than the limit are truncated with an ellipsis. The limit counts
// runes, so truncation never splits a multi-byte character.
func FocusLine(feature, description string) string {
	description = strings.TrimSpace(whitespaceRe.ReplaceAllString(description, " "))
	if runes := []rune(description); len(runes) > focusDescriptionLimit {
		description = string(runes[:focusDescriptionLimit-3]) + "..."
	}

	if description == "" {
		return fmt.Sprintf("**Current Focus:** %s", feature)
	}
	return fmt.Sprintf("**Current Focus:** %s - %s", feature, description)
}

// updatePrompt rewrites the focus line in the project's prompt file. An
// existing line is replaced in place; otherwise the line is appended.
func (m *Manager) updatePrompt(feature, description string, summary *Summary, opts Options) error {
	relPath := m.cfg.Output.PromptFile
	path := filepath.Join(m.outputDir, relPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", relPath, err)
	}

	content := string(data)
	line := FocusLine(feature, description)

	if currentFocusRe.MatchString(content) {
		content = currentFocusRe.ReplaceAllLiteralString(content, line)
	} else {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\n" + line + "\n"
	}

	if !opts.DryRun {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", relPath, err)
		}
	}
	summary.Written = append(summary.Written, relPath)
	return nil
}
