// Package plan parses implementation-plan documents into numbered phases of
// tasks. The phase number alone determines output priority; document order
// only matters within a phase.
package plan

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	// phaseHeaderRe matches a phase block header: ### Phase N[: name]
	phaseHeaderRe = regexp.MustCompile(`(?m)^###\s*Phase\s*(\d+)[:\s]*(.*)$`)

	// taskLabelRe matches a checklist item whose label is wrapped in bold
	// markers, capturing the label and same-line metadata.
	taskLabelRe = regexp.MustCompile(`(?m)^-\s*\[\s*[xX ]?\s*\]\s*\*\*([^*]+)\*\*(.*)$`)

	// taskIDRe splits a label into a T<phase>.<index> identifier and a name.
	taskIDRe = regexp.MustCompile(`^(T\d+\.\d+)\s+(.+)$`)

	// componentRe captures a bracketed component tag from label metadata.
	componentRe = regexp.MustCompile(`(?i)\[component:\s*([^\]]+)\]`)

	// Labeled single lines captured verbatim from the task body.
	implementRe = regexp.MustCompile(`Implement:\s*(.+)`)
	testRe      = regexp.MustCompile(`Test:\s*(.+)`)
	successRe   = regexp.MustCompile(`Success:\s*(.+)`)

	// backtickPathRe and createPathRe extract a file path from the
	// Implement line; the backtick form is preferred.
	backtickPathRe = regexp.MustCompile("`([^`]+)`")
	createPathRe   = regexp.MustCompile(`Create\s+(\S+)`)

	// refRe captures an upstream requirement reference anywhere in the body.
	refRe = regexp.MustCompile(`\[ref:\s*(PRD/AC-[\d.]+)\]`)
)

// Task is one checklist item inside a phase block. Created once per item;
// never mutated after creation. Absent optional fields are empty strings.
type Task struct {
	// ID is the T<phase>.<index> identifier, or the raw label when the
	// pattern does not match.
	ID string

	// Name is the label with the identifier stripped.
	Name string

	// Parallel marks the task as eligible for parallel execution.
	Parallel bool

	// Component is the bracketed component tag, trimmed.
	Component string

	// FilePath is the implementation file extracted from the Implement line.
	FilePath string

	// TestDesc is the Test: line text.
	TestDesc string

	// Success is the Success: line text.
	Success string

	// Ref is the upstream requirement reference (PRD/AC-<n>.<n>).
	Ref string
}

// Phase is a numbered group of tasks in document order.
type Phase struct {
	// Number is the phase ordinal; it alone determines fix-plan priority.
	Number int

	// Name is the display name following the phase number, may be empty.
	Name string

	// Tasks preserves document order.
	Tasks []Task
}

// Parser extracts phases and tasks from plan text.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a plan parser. A nil logger uses slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Phases parses all phase blocks from plan text. A phase block runs from its
// header to the next phase header or end of document. Duplicate phase numbers
// are flagged and the later block wins.
func (p *Parser) Phases(content string) map[int]Phase {
	phases := make(map[int]Phase)

	headers := phaseHeaderRe.FindAllStringSubmatchIndex(content, -1)
	for i, h := range headers {
		num, err := strconv.Atoi(content[h[2]:h[3]])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(content[h[4]:h[5]])

		bodyStart := h[1]
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}

		if _, exists := phases[num]; exists {
			p.logger.Warn("Duplicate phase number in plan, later block overwrites earlier",
				"phase", num, "name", name)
		}

		phases[num] = Phase{
			Number: num,
			Name:   name,
			Tasks:  p.tasks(content[bodyStart:bodyEnd]),
		}
	}

	return phases
}

// tasks parses the bolded-label checklist items within one phase body.
// A task body runs until the next bolded-label item or end of phase.
func (p *Parser) tasks(phaseBody string) []Task {
	var tasks []Task

	labels := taskLabelRe.FindAllStringSubmatchIndex(phaseBody, -1)
	for i, l := range labels {
		label := strings.TrimSpace(phaseBody[l[2]:l[3]])
		meta := strings.TrimSpace(phaseBody[l[4]:l[5]])

		bodyStart := l[1]
		bodyEnd := len(phaseBody)
		if i+1 < len(labels) {
			bodyEnd = labels[i+1][0]
		}
		body := strings.TrimSpace(phaseBody[bodyStart:bodyEnd])

		tasks = append(tasks, parseTask(label, meta, body))
	}

	return tasks
}

// parseTask builds a Task record from its label, same-line metadata, and body.
func parseTask(label, meta, body string) Task {
	task := Task{ID: label, Name: label}
	if m := taskIDRe.FindStringSubmatch(label); m != nil {
		task.ID = m[1]
		task.Name = m[2]
	}

	task.Parallel = strings.Contains(strings.ToLower(meta), "[parallel: true]")
	if m := componentRe.FindStringSubmatch(meta); m != nil {
		task.Component = strings.TrimSpace(m[1])
	}

	if m := implementRe.FindStringSubmatch(body); m != nil {
		task.FilePath = extractFilePath(m[1])
	}
	if m := testRe.FindStringSubmatch(body); m != nil {
		task.TestDesc = strings.TrimSpace(m[1])
	}
	if m := successRe.FindStringSubmatch(body); m != nil {
		task.Success = strings.TrimSpace(m[1])
	}
	if m := refRe.FindStringSubmatch(body); m != nil {
		task.Ref = m[1]
	}

	return task
}

// extractFilePath pulls a file path from an Implement line: backtick-quoted
// text when present, otherwise the argument of a "Create <path>" phrase.
func extractFilePath(implementText string) string {
	if m := backtickPathRe.FindStringSubmatch(implementText); m != nil {
		return m[1]
	}
	if m := createPathRe.FindStringSubmatch(implementText); m != nil {
		return m[1]
	}
	return ""
}
