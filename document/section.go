package document

import "strings"

// Section nesting levels used by the spec document dialect.
const (
	// LevelMajor is a top-level section header (## Constraints).
	LevelMajor = 2
	// LevelMinor is a priority tier or phase header (### Must Have).
	LevelMinor = 3
	// LevelItem is an individual feature header (#### Feature 1: Name).
	LevelItem = 4
)

// ExtractSection returns the verbatim trimmed body text owned by the first
// header at the given level whose text matches name case-insensitively.
// Ownership ends at the next header at the same or a shallower level, or end
// of document. Deeper headers are included verbatim: nested structure is
// preserved as text, not parsed further. Duplicate headers of the same name
// are not merged; only the first match is used. Returns "" when absent.
func ExtractSection(body, name string, level int) string {
	lines := strings.Split(body, "\n")

	var owned []string
	collecting := false

	for _, line := range lines {
		lvl, text, ok := HeaderLine(line)

		if collecting {
			if ok && lvl <= level {
				break
			}
			owned = append(owned, line)
			continue
		}

		if ok && lvl == level && strings.EqualFold(text, strings.TrimSpace(name)) {
			collecting = true
		}
	}

	if !collecting {
		return ""
	}
	return strings.TrimSpace(strings.Join(owned, "\n"))
}

// HeaderLine reports the level and text of an ATX header line.
// Returns ok=false for any line that is not a header.
func HeaderLine(line string) (level int, text string, ok bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return 0, "", false
	}
	rest := line[i:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	return i, strings.TrimSpace(rest), true
}
