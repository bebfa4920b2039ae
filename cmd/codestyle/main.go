// Package main provides the codestyle binary entry point.
// Codestyle checks Rust sources against a fixed set of project
// conventions and can rewrite files to satisfy the fixable ones.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valeratrades/codestyle/config"
	"github.com/valeratrades/codestyle/discover"
	"github.com/valeratrades/codestyle/engine"
	"github.com/valeratrades/codestyle/report"
	"github.com/valeratrades/codestyle/rules"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "codestyle"
)

// exitCodeError carries a specific process exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Source code convention checker",
		Long: `Codestyle enforces project source conventions that rustfmt and
clippy do not cover, such as loop justification comments, impl
placement, and format-string variable embedding.

Modes:
- assert: report violations, never modify files (exit 1 on findings)
- format: apply automatic fixes, report what needs manual work`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(rustCmd())

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func rustCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		jobs       int
	)

	cmd := &cobra.Command{
		Use:   "rust",
		Short: "Check Rust sources",
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: .codestyle.yaml discovered upwards)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().IntVar(&jobs, "jobs", 0, "Max concurrent files (0 = number of CPUs)")

	// One bool flag per rule so single rules can be toggled without a
	// config file. Only flags the user actually set override the config.
	for _, r := range rules.All() {
		cmd.PersistentFlags().Bool(r.Name(), r.DefaultEnabled(), "Enable the "+r.Name()+" rule")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "assert <path>",
		Short: "Report violations without modifying files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], configPath, logLevel, jobs, engine.ModeAssert)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "format <path>",
		Short: "Apply automatic fixes and report the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], configPath, logLevel, jobs, engine.ModeFormat)
		},
	})

	return cmd
}

func run(cmd *cobra.Command, target, configPath, logLevel string, jobs int, mode engine.Mode) error {
	// Configure logging
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve target path: %w", err)
	}
	startDir := absTarget
	if info, err := os.Stat(absTarget); err != nil {
		return fmt.Errorf("stat target path: %w", err)
	} else if !info.IsDir() {
		startDir = filepath.Dir(absTarget)
	}

	cfg, err := config.NewLoader(logger).Load(startDir, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flag overrides on top of the config file
	for _, r := range rules.All() {
		if cmd.Flags().Changed(r.Name()) {
			enabled, _ := cmd.Flags().GetBool(r.Name())
			if err := cfg.SetRule(r.Name(), enabled); err != nil {
				return err
			}
		}
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = jobs
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	files, err := discover.RustFiles(absTarget, cfg.Ignore)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	logger.Debug("Discovered files", slog.Int("count", len(files)))

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := engine.NewRunner(cfg.ActiveRules(), cfg.Jobs, logger)
	result, err := runner.Run(ctx, files, mode)
	if err != nil {
		return err
	}

	if mode == engine.ModeFormat {
		if err := engine.WriteResults(result); err != nil {
			return fmt.Errorf("write fixed files: %w", err)
		}
		cleanSnapshots(result, startDir, logger)
	}

	report.Render(os.Stdout, result)

	if code := result.ExitCode(); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// cleanSnapshots removes pending snapshot artifacts when the inline
// snapshot rule touched any file this run.
func cleanSnapshots(result *engine.Result, root string, logger *slog.Logger) {
	fired := false
	for _, fr := range result.Files {
		if fr.SnapshotRuleFired {
			fired = true
			break
		}
	}
	if !fired {
		return
	}
	deleted, err := engine.CleanPendingSnapshots(root)
	if err != nil {
		logger.Warn("Failed to clean pending snapshots", slog.String("error", err.Error()))
		return
	}
	if len(deleted) > 0 {
		logger.Info("Removed pending snapshots", slog.Int("count", len(deleted)))
	}
}
