// Package export orchestrates the spec-to-Ralph conversion pipeline.
// Processing order is strict: validate, parse, transduce, assemble, render,
// write. No step begins before the prior step's full output is available.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/c360studio/ralphex/config"
	"github.com/c360studio/ralphex/document"
	"github.com/c360studio/ralphex/ears"
	"github.com/c360studio/ralphex/fixplan"
	"github.com/c360studio/ralphex/plan"
	"github.com/c360studio/ralphex/render"
	"github.com/c360studio/ralphex/requirements"
	"github.com/c360studio/ralphex/validate"
)

// Specification bundle filenames inside a spec directory.
const (
	PRDFile  = "product-requirements.md"
	SDDFile  = "solution-design.md"
	PlanFile = "implementation-plan.md"
)

// VisionSection is the PRD subsection used for the focus-line description.
const VisionSection = "Vision"

// specIDRe matches a 3-digit spec identifier.
var specIDRe = regexp.MustCompile(`^\d{3}$`)

// Sentinel errors surfaced to the CLI.
var (
	// ErrBlocked indicates validation produced blocking errors.
	ErrBlocked = errors.New("export blocked by validation errors")

	// ErrSpecNotFound indicates the spec ID or path could not be resolved.
	ErrSpecNotFound = errors.New("spec not found")
)

// Options control a single export run.
type Options struct {
	// DryRun records intended actions without writing anything.
	DryRun bool

	// Force overwrites existing files without confirmation.
	Force bool

	// NoCleanup keeps the source spec directory after conversion.
	NoCleanup bool

	// Confirm is consulted before overwriting an existing fix plan when
	// Force is unset. A nil Confirm refuses the overwrite.
	Confirm func(path string) bool
}

// Summary reports what an export run produced.
type Summary struct {
	// RunID identifies the run in logs.
	RunID string

	// ProjectName is the title derived from the PRD.
	ProjectName string

	// SpecDir is the resolved source spec directory.
	SpecDir string

	// Copied lists source documents copied into the new-features directory.
	Copied []string

	// Written lists files created or updated, relative to the output dir.
	Written []string

	// Skipped lists files left untouched (overwrite refused).
	Skipped []string

	// Warnings are the advisory validation findings.
	Warnings []string

	// CleanedUp reports whether the source spec directory was deleted.
	CleanedUp bool
}

// Manager runs exports against a Ralph project directory.
type Manager struct {
	cfg       *config.Config
	outputDir string
	logger    *slog.Logger
}

// NewManager creates an export manager. A nil config uses defaults; a nil
// logger uses slog.Default.
func NewManager(cfg *config.Config, outputDir string, logger *slog.Logger) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, outputDir: outputDir, logger: logger}
}

// ResolveSpecDir resolves a spec ID (e.g. "002") or path to an existing
// spec directory. A 3-digit ID matches the first NNN-* directory under the
// configured specs dir.
func (m *Manager) ResolveSpecDir(spec string) (string, error) {
	if info, err := os.Stat(spec); err == nil && info.IsDir() {
		return spec, nil
	}

	if specIDRe.MatchString(spec) {
		pattern := filepath.Join(m.cfg.Specs.Dir, spec+"-*")
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("glob spec directories: %w", err)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				return match, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s (looked in %s)", ErrSpecNotFound, spec, m.cfg.Specs.Dir)
}

// ReadBundle reads the specification documents from a spec directory.
// Absent documents yield nil entries; absence is judged later by the
// validator, not here.
func ReadBundle(specDir string) (validate.Bundle, error) {
	var bundle validate.Bundle

	read := func(name string) (*string, error) {
		data, err := os.ReadFile(filepath.Join(specDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		content := string(data)
		return &content, nil
	}

	var err error
	if bundle.PRD, err = read(PRDFile); err != nil {
		return bundle, err
	}
	if bundle.SDD, err = read(SDDFile); err != nil {
		return bundle, err
	}
	if bundle.Plan, err = read(PlanFile); err != nil {
		return bundle, err
	}

	return bundle, nil
}

// Check validates a spec directory for export readiness without writing
// anything.
func (m *Manager) Check(specDir string) (*validate.Result, error) {
	bundle, err := ReadBundle(specDir)
	if err != nil {
		return nil, err
	}
	return validate.NewValidator().Bundle(bundle), nil
}

// Export runs the full conversion pipeline for one spec directory.
// Blocking validation failures return an error wrapping ErrBlocked;
// advisory findings are logged and collected on the summary.
func (m *Manager) Export(ctx context.Context, spec string, opts Options) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := m.logger.With("run_id", runID)

	specDir, err := m.ResolveSpecDir(spec)
	if err != nil {
		return nil, err
	}
	logger.Info("Resolved spec directory", "spec", spec, "dir", specDir)

	summary := &Summary{RunID: runID, SpecDir: specDir}

	// The export targets an established Ralph project; refuse to scatter
	// files into anything else.
	if missing := validate.ProjectStructure(m.outputDir); len(missing) > 0 {
		return nil, fmt.Errorf("project missing required Ralph files: %s", strings.Join(missing, ", "))
	}

	bundle, err := ReadBundle(specDir)
	if err != nil {
		return nil, err
	}

	result := validate.NewValidator().Bundle(bundle)
	for _, w := range result.Warnings {
		logger.Warn("Validation warning", "finding", w)
	}
	summary.Warnings = result.Warnings
	if !result.CanProceed() {
		return summary, fmt.Errorf("%w:\n  - %s", ErrBlocked, strings.Join(result.Errors, "\n  - "))
	}

	prd := document.Parse(PRDFile, []byte(*bundle.PRD))
	summary.ProjectName = prd.Title()
	vision := document.ExtractSection(prd.Body, VisionSection, document.LevelMinor)
	tiers := requirements.ParseTiers(prd.Body)

	var model *fixplan.Model
	if bundle.Plan != nil {
		phases := plan.NewParser(logger).Phases(*bundle.Plan)
		model = fixplan.FromPhases(phases)
		logger.Info("Assembled fix plan from implementation plan", "phases", len(phases))
	} else {
		model = fixplan.FromTiers(tiers)
		logger.Info("Assembled fix plan from requirement tiers", "tiers", len(tiers))
	}

	transformer := render.NewTransformerWithTemplate(m.loadFixPlanTemplate(logger))
	fixPlanContent, err := transformer.FixPlan(model, summary.ProjectName)
	if err != nil {
		return summary, fmt.Errorf("render fix plan: %w", err)
	}

	scenarioDocs := m.renderScenarioDocs(transformer, tiers)

	if err := m.copySpecFiles(specDir, summary, opts); err != nil {
		return summary, err
	}
	if err := m.writeFixPlan(fixPlanContent, summary, opts); err != nil {
		return summary, err
	}
	if err := m.writeScenarioDocs(scenarioDocs, summary, opts); err != nil {
		return summary, err
	}
	if err := m.updatePrompt(summary.ProjectName, vision, summary, opts); err != nil {
		return summary, err
	}

	if !opts.NoCleanup && !opts.DryRun {
		if err := os.RemoveAll(specDir); err != nil {
			return summary, fmt.Errorf("cleanup spec directory: %w", err)
		}
		summary.CleanedUp = true
		logger.Info("Deleted source spec directory", "dir", specDir)
	}

	logger.Info("Export complete",
		"project", summary.ProjectName,
		"copied", len(summary.Copied),
		"written", len(summary.Written),
		"dry_run", opts.DryRun)

	return summary, nil
}

// loadFixPlanTemplate returns the configured template override, or the
// built-in template when unset or unreadable. A broken override is
// advisory, not fatal.
func (m *Manager) loadFixPlanTemplate(logger *slog.Logger) string {
	if m.cfg.Template.FixPlan == "" {
		return render.DefaultFixPlanTemplate
	}

	data, err := os.ReadFile(m.cfg.Template.FixPlan)
	if err != nil {
		logger.Warn("Fix-plan template override unreadable, using built-in",
			"path", m.cfg.Template.FixPlan, "error", err)
		return render.DefaultFixPlanTemplate
	}
	return string(data)
}

// scenarioDoc is one rendered per-feature scenario document.
type scenarioDoc struct {
	name    string
	content string
}

// renderScenarioDocs transduces every feature's criteria and renders one
// scenario document per feature, in tier then document order.
func (m *Manager) renderScenarioDocs(t *render.Transformer, tiers map[requirements.Tier][]requirements.Feature) []scenarioDoc {
	var docs []scenarioDoc

	for _, tier := range []requirements.Tier{requirements.TierMust, requirements.TierShould, requirements.TierCould} {
		for _, f := range tiers[tier] {
			scenarios := ears.TransduceAll(f.Criteria)
			docs = append(docs, scenarioDoc{
				name:    fmt.Sprintf("feature-%d-%s.md", f.Number, Slugify(f.Name)),
				content: t.FeatureScenarios(f, scenarios),
			})
		}
	}

	return docs
}
