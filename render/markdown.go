// Package render converts assembled fix-plan models and transduced
// scenarios into markdown documents.
package render

import (
	"fmt"
	"strings"

	"github.com/c360studio/ralphex/ears"
	"github.com/c360studio/ralphex/fixplan"
	"github.com/c360studio/ralphex/requirements"
)

// Fallback lines for empty fix-plan sections.
const (
	noHighTasks      = "- [ ] No high priority tasks defined"
	noMediumTasks    = "- [ ] No medium priority tasks defined"
	noLowTasks       = "- [ ] No low priority tasks defined"
	defaultDone      = "- [x] Project initialization"
	noParallelNote   = "- No parallel tasks identified"
	noDependencyNote = "- Execute tasks in order listed"
	noTraceNote      = "- All tasks trace to PRD requirements"
)

// Transformer renders models to markdown.
type Transformer struct {
	fixPlanTemplate string
}

// NewTransformer creates a transformer using the built-in fix-plan template.
func NewTransformer() *Transformer {
	return &Transformer{fixPlanTemplate: DefaultFixPlanTemplate}
}

// NewTransformerWithTemplate creates a transformer with a template override.
func NewTransformerWithTemplate(template string) *Transformer {
	if template == "" {
		template = DefaultFixPlanTemplate
	}
	return &Transformer{fixPlanTemplate: template}
}

// FixPlan renders the fix-plan model to a complete markdown document.
func (t *Transformer) FixPlan(model *fixplan.Model, projectName string) (string, error) {
	values := map[string]string{
		"project_name":          projectName,
		"high_priority_tasks":   joinOr(model.High, noHighTasks),
		"medium_priority_tasks": joinOr(model.Medium, noMediumTasks),
		"low_priority_tasks":    joinOr(model.Low, noLowTasks),
		"completed_tasks":       defaultDone,
		"parallel_notes":        joinOr(model.ParallelNotes, noParallelNote),
		"dependency_notes":      joinOr(model.DependencyNotes, noDependencyNote),
		"traceability_notes":    joinOr(traceLines(model.Traceability), noTraceNote),
		// Legacy template support.
		"notes": joinOr(model.DependencyNotes, noDependencyNote),
	}

	return Substitute(t.fixPlanTemplate, values)
}

// FeatureScenarios renders one feature's scenario document: one scenario
// block per acceptance criterion, with the original criterion text retained
// alongside the rendered form for auditability.
func (t *Transformer) FeatureScenarios(f requirements.Feature, scenarios []ears.Scenario) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Feature %d: %s\n\n", f.Number, f.Name)

	if f.UserStory != "" {
		sb.WriteString("**User Story:** ")
		sb.WriteString(f.UserStory)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Scenarios\n\n")

	for i, s := range scenarios {
		fmt.Fprintf(&sb, "### Scenario %d\n\n", i+1)
		fmt.Fprintf(&sb, "> %s\n\n", s.Source)
		t.writeScenario(&sb, s)
	}

	return sb.String()
}

// writeScenario writes the GIVEN/WHEN/THEN block for one scenario.
func (t *Transformer) writeScenario(sb *strings.Builder, s ears.Scenario) {
	if !s.Convertible() {
		sb.WriteString("**UNCONVERTED**: criterion does not match an EARS shape; carried verbatim for manual follow-up.\n\n")
		return
	}

	if s.Given != "" {
		sb.WriteString("**GIVEN** ")
		sb.WriteString(s.Given)
		sb.WriteString("\n")
	}
	if s.When != "" {
		sb.WriteString("**WHEN** ")
		sb.WriteString(s.When)
		sb.WriteString("\n")
	}
	if s.Then != "" {
		sb.WriteString("**THEN** ")
		sb.WriteString(s.Then)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// traceLines renders traceability groupings, one line per distinct
// reference listing the task identifiers that cite it.
func traceLines(refs []fixplan.TraceRef) []string {
	var lines []string
	for _, r := range refs {
		lines = append(lines, fmt.Sprintf("- %s -> %s", r.Ref, strings.Join(r.TaskIDs, ", ")))
	}
	return lines
}

// joinOr joins lines with newlines, or returns the fallback when empty.
func joinOr(lines []string, fallback string) string {
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "\n")
}
