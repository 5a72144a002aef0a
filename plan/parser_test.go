package plan

import (
	"testing"
)

const planFixture = `# Implementation Plan

### Phase 1: Foundation

- [ ] **T1.1 Project scaffolding** [parallel: true] [component: core]
  - Implement: Create ` + "`cmd/app/main.go`" + ` with entry point
  - Test: binary starts and prints usage
  - Success: exit code 0
  - [ref: PRD/AC-1.1]

- [ ] **T1.2 Config loading**
  - Implement: Create internal/config/config.go
  - Test: defaults load without a file
  - [ref: PRD/AC-1.1]

### Phase 2: Features

- [x] **T2.1 Export command**
  - Implement: wire the export pipeline
  - Success: fix plan written

### Phase 3: Polish

- [ ] **Cleanup pass**
`

func TestPhases(t *testing.T) {
	phases := NewParser(nil).Phases(planFixture)

	if len(phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(phases))
	}

	p1 := phases[1]
	if p1.Name != "Foundation" {
		t.Errorf("phase 1 Name = %q, want %q", p1.Name, "Foundation")
	}
	if len(p1.Tasks) != 2 {
		t.Fatalf("phase 1 expected 2 tasks, got %d", len(p1.Tasks))
	}

	task := p1.Tasks[0]
	if task.ID != "T1.1" {
		t.Errorf("task ID = %q, want %q", task.ID, "T1.1")
	}
	if task.Name != "Project scaffolding" {
		t.Errorf("task Name = %q, want %q", task.Name, "Project scaffolding")
	}
	if !task.Parallel {
		t.Error("task T1.1 should be parallel")
	}
	if task.Component != "core" {
		t.Errorf("task Component = %q, want %q", task.Component, "core")
	}
	if task.FilePath != "cmd/app/main.go" {
		t.Errorf("task FilePath = %q, want %q", task.FilePath, "cmd/app/main.go")
	}
	if task.TestDesc != "binary starts and prints usage" {
		t.Errorf("task TestDesc = %q", task.TestDesc)
	}
	if task.Success != "exit code 0" {
		t.Errorf("task Success = %q", task.Success)
	}
	if task.Ref != "PRD/AC-1.1" {
		t.Errorf("task Ref = %q, want %q", task.Ref, "PRD/AC-1.1")
	}
}

func TestPhases_CreatePathFallback(t *testing.T) {
	phases := NewParser(nil).Phases(planFixture)

	task := phases[1].Tasks[1]
	if task.FilePath != "internal/config/config.go" {
		t.Errorf("FilePath = %q, want %q", task.FilePath, "internal/config/config.go")
	}
}

func TestPhases_CheckedTasksIncluded(t *testing.T) {
	phases := NewParser(nil).Phases(planFixture)

	if len(phases[2].Tasks) != 1 {
		t.Fatalf("phase 2 expected 1 task, got %d", len(phases[2].Tasks))
	}
	if phases[2].Tasks[0].ID != "T2.1" {
		t.Errorf("task ID = %q, want %q", phases[2].Tasks[0].ID, "T2.1")
	}
}

func TestPhases_LabelWithoutTaskID(t *testing.T) {
	phases := NewParser(nil).Phases(planFixture)

	task := phases[3].Tasks[0]
	if task.ID != "Cleanup pass" {
		t.Errorf("ID = %q, want raw label", task.ID)
	}
	if task.Name != "Cleanup pass" {
		t.Errorf("Name = %q, want raw label", task.Name)
	}
}

func TestPhases_DuplicateNumberLaterWins(t *testing.T) {
	content := `### Phase 1: First

- [ ] **T1.1 Old task**

### Phase 1: Second

- [ ] **T1.1 New task**
`

	phases := NewParser(nil).Phases(content)

	if len(phases) != 1 {
		t.Fatalf("expected 1 phase, got %d", len(phases))
	}
	if phases[1].Name != "Second" {
		t.Errorf("phase Name = %q, want %q", phases[1].Name, "Second")
	}
	if phases[1].Tasks[0].Name != "New task" {
		t.Errorf("task Name = %q, want %q", phases[1].Tasks[0].Name, "New task")
	}
}

func TestPhases_HeaderWithoutName(t *testing.T) {
	phases := NewParser(nil).Phases("### Phase 4\n\n- [ ] **T4.1 Task**\n")

	if phases[4].Name != "" {
		t.Errorf("phase Name = %q, want empty", phases[4].Name)
	}
}

func TestPhases_PlainChecklistItemsIgnored(t *testing.T) {
	content := `### Phase 1: Only Bold

- [ ] plain item without bold label
- [ ] **T1.1 Real task**
`

	phases := NewParser(nil).Phases(content)
	if len(phases[1].Tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(phases[1].Tasks))
	}
}

func TestPhases_Empty(t *testing.T) {
	phases := NewParser(nil).Phases("# No phases here\n")
	if len(phases) != 0 {
		t.Errorf("expected 0 phases, got %d", len(phases))
	}
}
