package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/readmeright/readme-right/internal/models"
)

// DefaultShell is used when no shell is configured.
const DefaultShell = "sh"

// ShellRunner executes shell examples as subprocesses via `shell -c`.
//
// Each example gets a fresh process with the environment inherited from the
// invoking process; side effects on the filesystem persist across examples,
// which is why execution order is strictly source order.
type ShellRunner struct {
	// Shell is the shell binary to invoke (default: sh).
	Shell string

	// WorkDir is the working directory for commands (empty = current dir).
	WorkDir string
}

// NewShellRunner creates a runner that executes real shell commands.
func NewShellRunner(shell, workDir string) *ShellRunner {
	if shell == "" {
		shell = DefaultShell
	}
	return &ShellRunner{Shell: shell, WorkDir: workDir}
}

// Run executes the example's command and captures stdout and stderr
// separately, each with a single trailing newline trimmed to match
// conventional terminal display. A non-zero exit flags the result as failed
// but is not an error.
func (r *ShellRunner) Run(ctx context.Context, ex models.Example) models.ExecutionResult {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", ex.Command)
	if r.WorkDir != "" {
		cmd.Dir = r.WorkDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := models.ExecutionResult{
		Stdout: strings.TrimSuffix(stdout.String(), "\n"),
		Stderr: strings.TrimSuffix(stderr.String(), "\n"),
	}
	if err != nil {
		result.Failed = true
		// A command that could not even start (missing shell, cancelled
		// context) has no process output; its failure text is the error.
		if result.Stdout == "" && result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}
	return result
}
