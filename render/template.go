package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderRe matches a {snake_case} template placeholder.
var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Substitute performs a single pass of placeholder substitution over the
// template. Any placeholder with no entry in values is an error rather than
// literal template syntax silently surviving into output.
func Substitute(template string, values map[string]string) (string, error) {
	var missing []string
	seen := make(map[string]bool)

	result := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := values[name]
		if !ok {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return match
		}
		return value
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("unresolved template placeholders: %s", strings.Join(missing, ", "))
	}

	return result, nil
}

// DefaultFixPlanTemplate is the built-in fix-plan document template, used
// when no template override is configured.
const DefaultFixPlanTemplate = `# {project_name} Fix Plan

## High Priority

{high_priority_tasks}

## Medium Priority

{medium_priority_tasks}

## Low Priority

{low_priority_tasks}

## Completed

{completed_tasks}

## Parallel Execution

{parallel_notes}

## Dependencies

{dependency_notes}

## Traceability

{traceability_notes}
`
