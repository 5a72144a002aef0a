// Package marker detects unresolved clarification placeholders in
// specification documents. A document with any surviving marker is not
// ready for export.
package marker

import (
	"regexp"
	"strings"
)

// Phrase is the literal opening of a clarification marker tag.
const Phrase = "[NEEDS CLARIFICATION"

// markerRe matches a bracketed clarification tag with arbitrary trailing
// qualifier text up to the closing bracket.
var markerRe = regexp.MustCompile(`(?i)\[NEEDS CLARIFICATION[^\]]*\]`)

// Marker is one surviving clarification placeholder occurrence.
type Marker struct {
	// Line is the 1-based line number the marker was found on.
	Line int

	// Text is the raw matched tag, e.g. "[NEEDS CLARIFICATION: auth scheme]".
	Text string
}

// Rule is a named line-exclusion predicate. A line matching any rule is
// skipped entirely, even when the marker phrase is present on it. Rules are
// evaluated in order with first-match semantics; the order is part of the
// scanner contract.
type Rule struct {
	// Name identifies the rule in tests and documentation.
	Name string

	// Excluded reports whether the line should be skipped. It receives the
	// raw line and a lower-cased copy so predicates do not re-fold.
	Excluded func(line, lower string) bool
}

// docKeywords are meta-documentation fragments: lines that talk about the
// marker mechanism rather than containing a live marker.
var docKeywords = []string{
	"exit with error", "blocks export", "detects", "finds",
	"check for", "regex", "rule 1:", "rule 2:", "export shall",
	"script checks", "error detection", "caught", "markers block",
}

// checklistKeywords mark a checklist item as meta-documentation about
// marker handling (e.g. a validation checklist confirming markers were
// addressed). A checklist item without one of these is still scanned.
var checklistKeywords = []string{"no [needs clarification]", "markers", "addressed"}

// gherkinPrefixes are scenario step prefixes; markers quoted inside
// behavioral scenarios are examples, not live placeholders.
var gherkinPrefixes = []string{"given:", "when:", "then:", "and:", "but:"}

// numberedStepRe matches a numbered instructional step ("5. Script checks...").
var numberedStepRe = regexp.MustCompile(`^\s*\d+\.`)

// DefaultRules returns the exclusion rules in their contractual order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "inline-code-line",
			Excluded: func(line, _ string) bool {
				return strings.HasPrefix(strings.TrimSpace(line), "`")
			},
		},
		{
			Name: "validation-checklist",
			Excluded: func(_, lower string) bool {
				if !strings.Contains(lower, "- [x]") && !strings.Contains(lower, "- [ ]") {
					return false
				}
				for _, kw := range checklistKeywords {
					if strings.Contains(lower, kw) {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "documentation-keyword",
			Excluded: func(_, lower string) bool {
				for _, kw := range docKeywords {
					if strings.Contains(lower, kw) {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "marker-meta-reference",
			Excluded: func(_, lower string) bool {
				return strings.Contains(lower, "[needs clarification] markers")
			},
		},
		{
			Name: "gherkin-step",
			Excluded: func(_, lower string) bool {
				stripped := strings.TrimSpace(lower)
				for _, prefix := range gherkinPrefixes {
					if strings.HasPrefix(stripped, prefix) {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "diagram-arrow",
			Excluded: func(line, _ string) bool {
				return strings.Contains(line, "-->") || strings.Contains(line, "-->>")
			},
		},
		{
			Name: "table-row",
			Excluded: func(line, _ string) bool {
				return strings.HasPrefix(strings.TrimSpace(line), "|")
			},
		},
		{
			Name: "numbered-step",
			Excluded: func(line, _ string) bool {
				return numberedStepRe.MatchString(line)
			},
		},
	}
}

// Scanner finds surviving clarification markers in document text.
type Scanner struct {
	rules []Rule
}

// NewScanner creates a scanner with the given exclusion rules.
// A nil rule set uses DefaultRules.
func NewScanner(rules []Rule) *Scanner {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scanner{rules: rules}
}

// Scan returns every clarification marker that survives exclusion filtering,
// in document order. Lines inside fenced code blocks are never scanned, and
// a marker wrapped in inline-code backticks on its line is suppressed.
func (s *Scanner) Scan(content string) []Marker {
	var markers []Marker

	inCodeBlock := false
	for i, line := range strings.Split(content, "\n") {
		// A fence delimiter line toggles code-block state and is itself
		// never scanned.
		if strings.Contains(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		lower := strings.ToLower(line)
		if s.excluded(line, lower) {
			continue
		}

		for _, match := range markerRe.FindAllString(line, -1) {
			// Inline code on the same line suppresses the occurrence.
			if strings.Contains(line, "`"+match+"`") || strings.Contains(line, "`"+Phrase) {
				continue
			}
			markers = append(markers, Marker{Line: i + 1, Text: match})
		}
	}

	return markers
}

// excluded applies the rules in order; the first match wins.
func (s *Scanner) excluded(line, lower string) bool {
	for _, rule := range s.rules {
		if rule.Excluded(line, lower) {
			return true
		}
	}
	return false
}
