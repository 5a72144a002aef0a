package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/ralphex/config"
	"github.com/c360studio/ralphex/export"
	"github.com/c360studio/ralphex/validate"
)

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Export specification bundles to Ralph projects",
		Long: `Ralphex converts a specification bundle (product-requirements.md,
solution-design.md, implementation-plan.md) into Ralph project files:

- @fix_plan.md with tasks bucketed by implementation phase priority
- per-feature Gherkin scenario documents derived from EARS criteria
- an updated Current Focus line in PROMPT.md

Validation runs before any file is written. Surviving [NEEDS CLARIFICATION
markers or a missing must-have section block the export.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(exportCmd(&configPath, &logLevel))
	cmd.AddCommand(checkCmd(&configPath, &logLevel))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func exportCmd(configPath, logLevel *string) *cobra.Command {
	var (
		outputDir string
		dryRun    bool
		force     bool
		noCleanup bool
	)

	cmd := &cobra.Command{
		Use:   "export <spec-id-or-path>",
		Short: "Export a spec bundle into a Ralph project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			manager := export.NewManager(cfg, outputDir, logger)
			opts := export.Options{
				DryRun:    dryRun,
				Force:     force,
				NoCleanup: noCleanup,
				Confirm:   confirmOverwrite,
			}

			summary, err := manager.Export(cmd.Context(), args[0], opts)
			if err != nil {
				if errors.Is(err, export.ErrBlocked) {
					fmt.Fprintln(os.Stderr, err)
					fmt.Fprintln(os.Stderr, "\nFix the errors above and re-run the export.")
					os.Exit(1)
				}
				return err
			}

			printSummary(summary, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Ralph project directory to export into")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report intended actions without writing files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files without confirmation")
	cmd.Flags().BoolVar(&noCleanup, "no-cleanup", false, "Keep the source spec directory after export")

	return cmd
}

func checkCmd(configPath, logLevel *string) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <spec-id-or-path>",
		Short: "Validate a spec bundle without exporting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			manager := export.NewManager(cfg, ".", logger)
			specDir, err := manager.ResolveSpecDir(args[0])
			if err != nil {
				return err
			}

			if watch {
				return watchSpec(cmd.Context(), specDir, logger)
			}

			result, err := manager.Check(specDir)
			if err != nil {
				return err
			}

			printResult(specDir, result)
			if !result.CanProceed() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever a spec document changes")

	return cmd
}

// watchSpec blocks re-validating the bundle on every change until
// interrupted.
func watchSpec(ctx context.Context, specDir string, logger *slog.Logger) error {
	watcher, err := export.NewSpecWatcher(specDir, 0, logger)
	if err != nil {
		return fmt.Errorf("create spec watcher: %w", err)
	}

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := watcher.Start(signalCtx); err != nil {
		return fmt.Errorf("start spec watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", specDir)

	for {
		select {
		case <-signalCtx.Done():
			fmt.Println("\nWatch stopped")
			return nil
		case res, ok := <-watcher.Results():
			if !ok {
				return nil
			}
			if len(res.Changed) > 0 {
				fmt.Printf("\n[%s] changed: %s\n", time.Now().Format("15:04:05"), strings.Join(res.Changed, ", "))
			}
			printResult(specDir, res.Result)
		}
	}
}

// setupLogging configures the default slog logger on stderr.
func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig loads layered configuration, or a specific file when --config
// was passed.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if configPath != "" {
		cfg, err := loader.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// confirmOverwrite asks on stdin before replacing an existing file.
func confirmOverwrite(path string) bool {
	fmt.Printf("%s already exists. Overwrite? [y/N] ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printResult writes validation findings to stdout.
func printResult(specDir string, result *validate.Result) {
	if result.CanProceed() && len(result.Warnings) == 0 {
		fmt.Printf("%s: OK, ready to export\n", specDir)
		return
	}

	for _, e := range result.Errors {
		fmt.Printf("ERROR: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}

	if result.CanProceed() {
		fmt.Printf("%s: ready to export with warnings\n", specDir)
	} else {
		fmt.Printf("%s: blocked, %d error(s)\n", specDir, len(result.Errors))
	}
}

// printSummary writes the export outcome to stdout.
func printSummary(s *export.Summary, dryRun bool) {
	verb := "Exported"
	if dryRun {
		verb = "Would export"
	}
	fmt.Printf("%s %q from %s\n", verb, s.ProjectName, s.SpecDir)

	for _, f := range s.Copied {
		fmt.Printf("  copied  %s\n", f)
	}
	for _, f := range s.Written {
		fmt.Printf("  written %s\n", f)
	}
	for _, f := range s.Skipped {
		fmt.Printf("  skipped %s (exists, use --force to overwrite)\n", f)
	}
	if s.CleanedUp {
		fmt.Printf("  deleted %s\n", s.SpecDir)
	}
}
