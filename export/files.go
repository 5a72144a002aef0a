package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// slugRe collapses every run of non-alphanumerics to a single hyphen.
var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a feature name to a filesystem-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "feature"
	}
	return slug
}

// copySpecFiles copies the source documents present in the spec directory
// into the configured new-features directory, preserving filenames.
func (m *Manager) copySpecFiles(specDir string, summary *Summary, opts Options) error {
	destDir := filepath.Join(m.outputDir, m.cfg.Output.NewFeaturesDir)

	if !opts.DryRun {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", destDir, err)
		}
	}

	for _, name := range []string{PRDFile, SDDFile, PlanFile} {
		src := filepath.Join(specDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}

		if !opts.DryRun {
			if err := copyFile(src, filepath.Join(destDir, name)); err != nil {
				return fmt.Errorf("copy %s: %w", name, err)
			}
		}
		summary.Copied = append(summary.Copied, filepath.Join(m.cfg.Output.NewFeaturesDir, name))
	}

	return nil
}

// writeFixPlan writes the rendered fix plan at the project root. An existing
// file is only replaced with Force or an affirmative Confirm.
func (m *Manager) writeFixPlan(content string, summary *Summary, opts Options) error {
	relPath := m.cfg.Output.FixPlanFile
	path := filepath.Join(m.outputDir, relPath)

	if _, err := os.Stat(path); err == nil && !opts.Force {
		if opts.Confirm == nil || !opts.Confirm(path) {
			summary.Skipped = append(summary.Skipped, relPath)
			return nil
		}
	}

	if !opts.DryRun {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", relPath, err)
		}
	}
	summary.Written = append(summary.Written, relPath)
	return nil
}

// writeScenarioDocs writes the per-feature scenario documents under the
// scenarios directory inside the new-features directory.
func (m *Manager) writeScenarioDocs(docs []scenarioDoc, summary *Summary, opts Options) error {
	dir := filepath.Join(m.cfg.Output.NewFeaturesDir, m.cfg.Output.ScenariosDir)

	if len(docs) > 0 && !opts.DryRun {
		if err := os.MkdirAll(filepath.Join(m.outputDir, dir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	for _, doc := range docs {
		relPath := filepath.Join(dir, doc.name)
		if !opts.DryRun {
			if err := os.WriteFile(filepath.Join(m.outputDir, relPath), []byte(doc.content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", relPath, err)
			}
		}
		summary.Written = append(summary.Written, relPath)
	}

	return nil
}

// copyFile copies src to dst, replacing any existing file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
