// Package ears classifies acceptance criteria written in EARS form (Easy
// Approach to Requirements Syntax) and renders each as a behavioral
// scenario. Classification and rendering happen in one step: Transduce is a
// pure function of the criterion text.
package ears

import (
	"regexp"
	"strings"
)

// Form identifies which EARS requirement shape matched a criterion.
type Form string

// The five EARS shapes plus the pass-through form for unmatched criteria.
const (
	FormEventDriven Form = "event-driven"
	FormConditional Form = "conditional"
	FormStateDriven Form = "state-driven"
	FormOptional    Form = "optional"
	FormUbiquitous  Form = "ubiquitous"
	FormUnknown     Form = "unconvertible"
)

// ReadyPrecondition is the generic precondition for event-driven criteria.
const ReadyPrecondition = "system is ready"

// GenericTrigger is the generic trigger for conditional criteria.
const GenericTrigger = "the operation is triggered"

// Scenario is the behavioral rendering of one acceptance criterion.
// A zero field means the scenario has no line of that kind.
type Scenario struct {
	// Form is the EARS shape that matched.
	Form Form

	// Source is the original criterion text, retained for auditability.
	Source string

	// Given is the precondition, empty for ubiquitous criteria.
	Given string

	// When is the trigger, empty for state-driven and optional criteria.
	When string

	// Then is the outcome. Empty only for unconvertible criteria.
	Then string
}

// Convertible reports whether the criterion matched an EARS shape.
func (s Scenario) Convertible() bool {
	return s.Form != FormUnknown
}

// classifier pairs an EARS shape with its pattern and scenario builder.
type classifier struct {
	form    Form
	pattern *regexp.Regexp
	build   func(source string, groups []string) Scenario
}

// classifiers are tried top to bottom; the first match wins. A criterion
// matching two shapes textually is resolved by this priority order, not by
// best match. Every pattern requires the mandatory "THE SYSTEM SHALL"
// clause in the outcome half.
var classifiers = []classifier{
	{
		form:    FormEventDriven,
		pattern: regexp.MustCompile(`(?i)^\s*WHEN\s+(.+?),\s*(?:THEN\s+)?THE\s+SYSTEM\s+SHALL\s+(.+?)\s*$`),
		build: func(source string, g []string) Scenario {
			return Scenario{
				Form:   FormEventDriven,
				Source: source,
				Given:  ReadyPrecondition,
				When:   strings.ToLower(g[1]),
				Then:   strings.ToLower(g[2]),
			}
		},
	},
	{
		form:    FormConditional,
		pattern: regexp.MustCompile(`(?i)^\s*IF\s+(.+?),\s*(?:THEN\s+)?THE\s+SYSTEM\s+SHALL\s+(.+?)\s*$`),
		build: func(source string, g []string) Scenario {
			return Scenario{
				Form:   FormConditional,
				Source: source,
				Given:  strings.ToLower(g[1]),
				When:   GenericTrigger,
				Then:   strings.ToLower(g[2]),
			}
		},
	},
	{
		form:    FormStateDriven,
		pattern: regexp.MustCompile(`(?i)^\s*WHILE\s+(.+?),\s*THE\s+SYSTEM\s+SHALL\s+(.+?)\s*$`),
		build: func(source string, g []string) Scenario {
			return Scenario{
				Form:   FormStateDriven,
				Source: source,
				Given:  strings.ToLower(g[1]),
				Then:   strings.ToLower(g[2]),
			}
		},
	},
	{
		form:    FormOptional,
		pattern: regexp.MustCompile(`(?i)^\s*WHERE\s+(.+?),\s*THE\s+SYSTEM\s+SHALL\s+(.+?)\s*$`),
		build: func(source string, g []string) Scenario {
			return Scenario{
				Form:   FormOptional,
				Source: source,
				Given:  strings.ToLower(g[1]),
				Then:   strings.ToLower(g[2]),
			}
		},
	},
	{
		form:    FormUbiquitous,
		pattern: regexp.MustCompile(`(?i)THE\s+SYSTEM\s+SHALL\s+(.+?)\s*$`),
		build: func(source string, g []string) Scenario {
			return Scenario{
				Form:   FormUbiquitous,
				Source: source,
				Then:   strings.ToLower(g[1]),
			}
		},
	},
}

// Transduce classifies one acceptance criterion and renders its scenario.
// It never fails: a criterion matching none of the five shapes degrades to
// an unconvertible pass-through carrying the original text, so a malformed
// criterion cannot block the rest of the document.
func Transduce(criterion string) Scenario {
	source := strings.TrimSpace(criterion)

	for _, c := range classifiers {
		if g := c.pattern.FindStringSubmatch(source); g != nil {
			return c.build(source, g)
		}
	}

	return Scenario{Form: FormUnknown, Source: source}
}

// TransduceAll transduces criteria in order.
func TransduceAll(criteria []string) []Scenario {
	scenarios := make([]Scenario, 0, len(criteria))
	for _, c := range criteria {
		scenarios = append(scenarios, Transduce(c))
	}
	return scenarios
}
