package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

const validPRD = `# Tracker

## Requirements

### Must Have Features

#### Feature 1: Core

- [ ] THE SYSTEM SHALL work
`

const validPlan = `# Plan

### Phase 1: Foundation

- [ ] **T1.1 Task**
`

func TestBundle_Valid(t *testing.T) {
	result := NewValidator().Bundle(Bundle{
		PRD:  strPtr(validPRD),
		SDD:  strPtr("# Design\n"),
		Plan: strPtr(validPlan),
	})

	assert.True(t, result.CanProceed())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestBundle_MissingPRD(t *testing.T) {
	result := NewValidator().Bundle(Bundle{})

	assert.False(t, result.CanProceed())
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "PRD not found")
}

func TestBundle_MarkersBlock(t *testing.T) {
	prd := validPRD + "\nAuth is [NEEDS CLARIFICATION: provider?] still.\n"

	result := NewValidator().Bundle(Bundle{PRD: strPtr(prd)})

	assert.False(t, result.CanProceed())
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "PRD has 1 [NEEDS CLARIFICATION] markers")
}

func TestBundle_NoMustHaveSection(t *testing.T) {
	result := NewValidator().Bundle(Bundle{PRD: strPtr("# Tracker\n\nNo tiers.\n")})

	assert.False(t, result.CanProceed())
	assert.Contains(t, result.Errors[0], "Must-Have")
}

func TestBundle_ShortMustHaveHeaderAccepted(t *testing.T) {
	prd := "# Tracker\n\n### Must Have\n\n#### Feature 1: Core\n\n- [ ] THE SYSTEM SHALL work\n"

	result := NewValidator().Bundle(Bundle{PRD: strPtr(prd)})
	assert.True(t, result.CanProceed())
}

func TestBundle_MissingSDDIsAdvisory(t *testing.T) {
	result := NewValidator().Bundle(Bundle{PRD: strPtr(validPRD), Plan: strPtr(validPlan)})

	assert.True(t, result.CanProceed())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "SDD not found")
}

func TestBundle_MissingPlanIsAdvisory(t *testing.T) {
	result := NewValidator().Bundle(Bundle{PRD: strPtr(validPRD), SDD: strPtr("# Design\n")})

	assert.True(t, result.CanProceed())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "requirement tiers")
}

func TestBundle_PlanWithoutPhaseOne(t *testing.T) {
	result := NewValidator().Bundle(Bundle{
		PRD:  strPtr(validPRD),
		Plan: strPtr("# Plan\n\n### Phase 2: Later\n"),
	})

	assert.False(t, result.CanProceed())
	assert.Contains(t, result.Errors[0], "Phase 1")
}

func TestBundle_PhaseTenIsNotPhaseOne(t *testing.T) {
	result := NewValidator().Bundle(Bundle{
		PRD:  strPtr(validPRD),
		Plan: strPtr("# Plan\n\n### Phase 10: Someday\n\n- [ ] **T10.1 Task**\n"),
	})

	assert.False(t, result.CanProceed())
	assert.Contains(t, result.Errors[0], "Phase 1")
}

func TestBundle_PhaseOneWithColonAccepted(t *testing.T) {
	result := NewValidator().Bundle(Bundle{
		PRD:  strPtr(validPRD),
		Plan: strPtr("# Plan\n\n### Phase 1: Foundation\n\n- [ ] **T1.1 Task**\n"),
	})

	assert.True(t, result.CanProceed())
}

func TestBundle_MarkersInAllDocumentsReported(t *testing.T) {
	marker := "tbd [NEEDS CLARIFICATION]\n"

	result := NewValidator().Bundle(Bundle{
		PRD:  strPtr(validPRD + marker),
		SDD:  strPtr("# Design\n" + marker),
		Plan: strPtr(validPlan + marker),
	})

	assert.False(t, result.CanProceed())
	assert.Len(t, result.Errors, 3)
}

func TestProjectStructure(t *testing.T) {
	dir := t.TempDir()

	missing := ProjectStructure(dir)
	assert.ElementsMatch(t, []string{"PROMPT.md", "@AGENT.md", "specs/"}, missing)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "PROMPT.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "@AGENT.md"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "specs"), 0o755))

	assert.Empty(t, ProjectStructure(dir))
}
