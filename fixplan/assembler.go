// Package fixplan buckets parsed tasks or features into the prioritized
// fix-plan model. Bucketing is purely numeric: phase 1 is high, phase 2 is
// medium, and every phase numbered 3 or above is low, regardless of what
// the phase is named.
package fixplan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/ralphex/plan"
	"github.com/c360studio/ralphex/requirements"
)

// TraceRef pairs an upstream requirement reference with the task
// identifiers that cite it, in first-seen order.
type TraceRef struct {
	Ref     string
	TaskIDs []string
}

// Model is the assembled fix-plan content prior to rendering.
// Document order is preserved within every list.
type Model struct {
	// High, Medium, and Low are rendered checklist lines per priority bucket.
	High   []string
	Medium []string
	Low    []string

	// ParallelNotes holds one line per parallel-eligible task.
	ParallelNotes []string

	// DependencyNotes holds one line per phase describing its priority
	// relationship to adjacent phases.
	DependencyNotes []string

	// Traceability groups tasks by upstream reference in first-seen order.
	Traceability []TraceRef
}

// Assembler accumulates tasks into the fix-plan model. It is the sole owner
// of the model during assembly; there are no concurrent writers.
type Assembler struct {
	model    *Model
	refIndex map[string]int
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		model:    &Model{},
		refIndex: make(map[string]int),
	}
}

// FromPhases assembles the fix-plan model from a parsed plan.
func FromPhases(phases map[int]plan.Phase) *Model {
	a := NewAssembler()

	if p, ok := phases[1]; ok {
		a.addDependencyNote(p, "Must complete before Phase 2")
		for _, t := range p.Tasks {
			a.addTask(&a.model.High, t)
		}
	}

	if p, ok := phases[2]; ok {
		a.addDependencyNote(p, "Depends on Phase 1 completion")
		for _, t := range p.Tasks {
			a.addTask(&a.model.Medium, t)
		}
	}

	// Phase 3 and above land in the low bucket in ascending phase order.
	var lowNums []int
	for num := range phases {
		if num >= 3 {
			lowNums = append(lowNums, num)
		}
	}
	sort.Ints(lowNums)
	for _, num := range lowNums {
		p := phases[num]
		a.addDependencyNote(p, "Lower priority, implement after core features")
		for _, t := range p.Tasks {
			a.addTask(&a.model.Low, t)
		}
	}

	return a.model
}

// FromTiers assembles the fix-plan model from requirement priority tiers.
// Used when no implementation plan was supplied: must-have features go to
// the high bucket, should-have to medium, could-have to low, each with a
// tier-prefixed synthetic identifier in place of a task identifier.
func FromTiers(tiers map[requirements.Tier][]requirements.Feature) *Model {
	a := NewAssembler()

	buckets := []struct {
		tier   requirements.Tier
		prefix string
		lines  *[]string
	}{
		{requirements.TierMust, "F", &a.model.High},
		{requirements.TierShould, "S", &a.model.Medium},
		{requirements.TierCould, "C", &a.model.Low},
	}

	for _, b := range buckets {
		for i, f := range tiers[b.tier] {
			id := fmt.Sprintf("%s%d", b.prefix, i+1)
			*b.lines = append(*b.lines, fmt.Sprintf("- [ ] %s: %s", id, f.Name))
		}
	}

	return a.model
}

// addTask renders the task to its bucket and accumulates its notes.
func (a *Assembler) addTask(bucket *[]string, t plan.Task) {
	*bucket = append(*bucket, FlattenTask(t))

	if t.Parallel {
		a.model.ParallelNotes = append(a.model.ParallelNotes,
			fmt.Sprintf("- %s can run in parallel with other parallel tasks", t.ID))
	}

	if t.Ref != "" {
		idx, seen := a.refIndex[t.Ref]
		if !seen {
			idx = len(a.model.Traceability)
			a.refIndex[t.Ref] = idx
			a.model.Traceability = append(a.model.Traceability, TraceRef{Ref: t.Ref})
		}
		a.model.Traceability[idx].TaskIDs = append(a.model.Traceability[idx].TaskIDs, t.ID)
	}
}

// addDependencyNote records one human-readable line for a phase.
func (a *Assembler) addDependencyNote(p plan.Phase, relation string) {
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Phase %d", p.Number)
	}
	a.model.DependencyNotes = append(a.model.DependencyNotes,
		fmt.Sprintf("- **Phase %d (%s)**: %s", p.Number, name, relation))
}

// FlattenTask renders a task to a single checklist line:
//
//	- [ ] T1.1: Name with test description (file/path) [ref: PRD/AC-1.2]
//
// Absent optional fields never introduce empty placeholder syntax.
func FlattenTask(t plan.Task) string {
	var sb strings.Builder
	sb.WriteString("- [ ] ")
	sb.WriteString(t.ID)
	sb.WriteString(": ")
	sb.WriteString(t.Name)

	if t.TestDesc != "" {
		sb.WriteString(" with ")
		sb.WriteString(t.TestDesc)
	}
	if t.FilePath != "" {
		sb.WriteString(" (")
		sb.WriteString(t.FilePath)
		sb.WriteString(")")
	}
	if t.Ref != "" {
		sb.WriteString(" [ref: ")
		sb.WriteString(t.Ref)
		sb.WriteString("]")
	}

	return sb.String()
}
