// Package validate checks specification bundles and target project
// structure for export readiness. Findings carry one of two severities:
// blocking errors halt the run, advisory warnings are logged and the run
// continues with reduced output fidelity.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c360studio/ralphex/marker"
)

// Required section markers checked by substring, matching the document
// dialect exactly.
var mustHaveHeaders = []string{"### Must Have Features", "### Must Have"}

// phaseOneRe matches a Phase 1 header specifically; a plan whose only
// phase is "### Phase 10" has no phase-1 block.
var phaseOneRe = regexp.MustCompile(`(?m)^###\s*Phase\s*1\b`)

// Bundle is the specification document set under validation. A nil pointer
// means the document is absent on disk.
type Bundle struct {
	PRD  *string
	SDD  *string
	Plan *string
}

// Result is the outcome of a validation pass.
type Result struct {
	// Errors are blocking findings; any entry halts the export.
	Errors []string

	// Warnings are advisory findings; the run continues.
	Warnings []string
}

// CanProceed reports whether the export may continue.
func (r *Result) CanProceed() bool {
	return len(r.Errors) == 0
}

// Validator validates specification bundles for export readiness.
type Validator struct {
	scanner *marker.Scanner
}

// NewValidator creates a validator with the default marker scanner.
func NewValidator() *Validator {
	return &Validator{scanner: marker.NewScanner(nil)}
}

// Bundle validates the document set. Blocking: PRD absent, surviving
// clarification markers in any present document, PRD without a Must-Have
// features section, or a plan without a Phase 1 block. Advisory: SDD or
// plan absent; without a plan the fix plan is derived from requirement
// priority tiers instead.
func (v *Validator) Bundle(b Bundle) *Result {
	result := &Result{}

	if b.PRD == nil {
		result.Errors = append(result.Errors, "PRD not found: product-requirements.md is required")
	} else {
		v.checkMarkers(result, "PRD", *b.PRD)

		if !containsAny(*b.PRD, mustHaveHeaders) {
			result.Errors = append(result.Errors, "PRD has no Must-Have features section")
		}
	}

	if b.SDD == nil {
		result.Warnings = append(result.Warnings, "SDD not found - specs/new-features/ will be incomplete")
	} else {
		v.checkMarkers(result, "SDD", *b.SDD)
	}

	if b.Plan == nil {
		result.Warnings = append(result.Warnings, "PLAN not found - fix plan will derive priorities from requirement tiers")
	} else {
		v.checkMarkers(result, "PLAN", *b.Plan)

		if !phaseOneRe.MatchString(*b.Plan) {
			result.Errors = append(result.Errors, "PLAN has no Phase 1 section")
		}
	}

	return result
}

// checkMarkers records a blocking error when the document contains
// surviving clarification markers. The count is surfaced, not the content.
func (v *Validator) checkMarkers(result *Result, label, content string) {
	if markers := v.scanner.Scan(content); len(markers) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s has %d %s] markers", label, len(markers), marker.Phrase))
	}
}

// ProjectStructure verifies the target project has the expected Ralph
// layout. Returns the missing items; an empty slice means the structure is
// valid.
func ProjectStructure(outputDir string) []string {
	required := []struct {
		path string
		name string
	}{
		{filepath.Join(outputDir, "PROMPT.md"), "PROMPT.md"},
		{filepath.Join(outputDir, "@AGENT.md"), "@AGENT.md"},
		{filepath.Join(outputDir, "specs"), "specs/"},
	}

	var missing []string
	for _, item := range required {
		if _, err := os.Stat(item.path); err != nil {
			missing = append(missing, item.name)
		}
	}

	return missing
}

// containsAny reports whether content contains any of the given substrings.
func containsAny(content string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(content, s) {
			return true
		}
	}
	return false
}
