package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/ralphex/validate"
)

const (
	// defaultDebounce is how long to wait for more changes before
	// re-validating.
	defaultDebounce = 500 * time.Millisecond

	// resultChannelBuffer is the size of the result channel.
	resultChannelBuffer = 16
)

// CheckResult is one validation pass emitted by the watcher.
type CheckResult struct {
	// Changed lists the bundle files whose content changed since the last
	// pass.
	Changed []string

	// Result is the validation outcome for the current bundle.
	Result *validate.Result
}

// SpecWatcher watches a spec directory and re-validates the bundle whenever
// a specification document changes. Edit-save cycles are debounced so one
// save produces one validation pass.
type SpecWatcher struct {
	specDir  string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changed files before re-validating.
	pendingMu sync.Mutex
	pending   map[string]bool

	// Hash-based change detection to ignore no-op saves.
	hashes map[string]string

	results chan CheckResult
}

// NewSpecWatcher creates a watcher over one spec directory. A zero debounce
// uses the default. A nil logger uses slog.Default.
func NewSpecWatcher(specDir string, debounce time.Duration, logger *slog.Logger) (*SpecWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SpecWatcher{
		specDir:  specDir,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]bool),
		hashes:   make(map[string]string),
		results:  make(chan CheckResult, resultChannelBuffer),
	}, nil
}

// Results returns the channel of validation results. The channel is closed
// when the watcher stops.
func (w *SpecWatcher) Results() <-chan CheckResult {
	return w.results
}

// Start validates the bundle once, then begins watching for changes.
func (w *SpecWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.specDir); err != nil {
		return err
	}

	// Seed hashes and emit an initial pass so the user sees the current
	// state before touching anything.
	for _, name := range []string{PRDFile, SDDFile, PlanFile} {
		if data, err := os.ReadFile(filepath.Join(w.specDir, name)); err == nil {
			w.hashes[name] = contentHash(data)
		}
	}
	w.emit(nil)

	go w.processEvents(ctx)

	w.logger.Info("Spec watcher started",
		"spec_dir", w.specDir,
		"debounce", w.debounce)

	return nil
}

// Stop stops the watcher. The results channel is closed by processEvents
// when it exits.
func (w *SpecWatcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (w *SpecWatcher) processEvents(ctx context.Context) {
	defer close(w.results)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent accumulates a change to one of the bundle files.
func (w *SpecWatcher) handleFSEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !isBundleFile(name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[name] = true
	w.pendingMu.Unlock()

	w.logger.Debug("Spec document change detected",
		"file", name,
		"op", event.Op.String())
}

// flushPending re-validates the bundle if any accumulated change survives
// hash comparison.
func (w *SpecWatcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toCheck := w.pending
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	var changed []string
	for name := range toCheck {
		data, err := os.ReadFile(filepath.Join(w.specDir, name))
		if err != nil {
			// Deleted files count as changed; their hash entry goes away
			// so recreation is detected later.
			if _, had := w.hashes[name]; had {
				delete(w.hashes, name)
				changed = append(changed, name)
			}
			continue
		}

		hash := contentHash(data)
		if w.hashes[name] == hash {
			continue
		}
		w.hashes[name] = hash
		changed = append(changed, name)
	}

	if len(changed) == 0 {
		return
	}
	w.emit(changed)
}

// emit runs a validation pass and sends the result without blocking.
func (w *SpecWatcher) emit(changed []string) {
	bundle, err := ReadBundle(w.specDir)
	if err != nil {
		w.logger.Error("Failed to read spec bundle", "error", err)
		return
	}

	result := CheckResult{
		Changed: changed,
		Result:  validate.NewValidator().Bundle(bundle),
	}

	select {
	case w.results <- result:
	default:
		w.logger.Warn("Result channel full, dropping validation result",
			"changed", strings.Join(changed, ", "))
	}
}

// isBundleFile reports whether name is one of the specification documents.
func isBundleFile(name string) bool {
	switch name {
	case PRDFile, SDDFile, PlanFile:
		return true
	}
	return false
}

// contentHash returns the hex SHA-256 of content.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
