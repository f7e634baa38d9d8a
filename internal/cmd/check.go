package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/readmeright/readme-right/internal/config"
	"github.com/readmeright/readme-right/internal/engine"
	"github.com/readmeright/readme-right/internal/logger"
	"github.com/readmeright/readme-right/internal/models"
	"github.com/readmeright/readme-right/internal/reconcile"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Execute documented commands and verify their recorded output",
		Long: `Execute every tagged example block in the given files and compare the
captured output against the output recorded in the documentation.

Without --fix, mismatches are reported and no file is modified. With --fix,
recorded output is replaced with actual output and the file is rewritten
atomically. A rewritten file still fails the run so hook integrations can
require a clean second pass.

Configuration is loaded from .readme-right.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Report mismatches in one file
  readme-right check README.md

  # Correct the files in place
  readme-right check --fix README.md docs/usage.md

  # Check many files in parallel with a per-example timeout
  readme-right check --jobs 4 --timeout 30s docs/*.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: checkCommand,
	}

	cmd.Flags().Bool("fix", false, "Rewrite files so recorded output matches actual output")
	cmd.Flags().String("config", "", "Path to config file (default: .readme-right.yaml)")
	cmd.Flags().Int("jobs", 0, "Number of files to process in parallel (0 = use config)")
	cmd.Flags().String("timeout", "", "Maximum execution time per example (e.g., 30s, 2m)")
	cmd.Flags().String("shell", "", "Shell binary used for $ examples")
	cmd.Flags().Bool("verbose", false, "Show detailed execution information")
	cmd.Flags().Bool("no-diff", false, "Do not print diffs of mismatched output")

	return cmd
}

// checkCommand implements the check command logic
func checkCommand(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	fix, _ := cmd.Flags().GetBool("fix")
	jobs, _ := cmd.Flags().GetInt("jobs")
	timeoutStr, _ := cmd.Flags().GetString("timeout")
	shell, _ := cmd.Flags().GetString("shell")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noDiff, _ := cmd.Flags().GetBool("no-diff")

	if jobs > 0 {
		cfg.MaxConcurrency = jobs
	}
	if timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid timeout format %q: %w", timeoutStr, err)
		}
		cfg.Timeout = timeout
	}
	if shell != "" {
		cfg.Shell = shell
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if noDiff {
		cfg.ShowDiffs = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	eng := engine.New(cfg, log, fix)
	summary := eng.Run(cmd.Context(), args)

	report(log, summary, cfg.ShowDiffs)

	if !summary.Failed() {
		log.Successf("Ran readme-right on %s in %s; no changes made.",
			countNoun(summary.Blocks, "block"), countNoun(len(summary.Results), "file"))
		return nil
	}
	return exitError(summary, fix)
}

// report prints per-file findings and diffs to the logger.
func report(log *logger.ConsoleLogger, summary *models.Summary, showDiffs bool) {
	for _, result := range summary.Results {
		if result.Err != nil {
			log.Errorf("%v", result.Err)
		}
		for _, parseErr := range result.ParseErrs {
			log.Errorf("%s: readme-commands block: %v", result.Path, parseErr)
		}
		for _, mismatch := range result.Mismatches {
			log.Warnf("%s:%d: output of %q does not match", mismatch.Path, mismatch.Line, mismatch.Command)
		}
		if showDiffs && result.Diff != "" {
			log.Raw(reconcile.Colorize(result.Diff))
		}
	}
}

// exitError maps the summary onto the tool's exit contract: nil only when
// every file was already correct. A corrected file still fails the run so a
// second pass can confirm stability.
func exitError(summary *models.Summary, fix bool) error {
	if !summary.Failed() {
		return nil
	}

	var failed []string
	for _, result := range summary.Results {
		if result.Failed() {
			failed = append(failed, result.Path)
		}
	}

	action := "are incorrect"
	if fix {
		action = "were updated"
	}
	return fmt.Errorf("file contents %s for %s: %s",
		action, countNoun(len(failed), "file"), strings.Join(failed, ", "))
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
