package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for readme-right
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readme-right",
		Short: "Verifies that command examples in documentation still work",
		Long: `readme-right executes the commands embedded in documentation files and
compares their output to the output the documentation claims.

Files are scanned for fenced blocks tagged readme-commands. Inside a block,
lines starting with "$ " run as shell commands and lines starting with ">>> "
are evaluated as Go expressions; the text below each command is the output
the documentation records for it. Mismatches are reported, or corrected in
place with --fix.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewCheckCommand())

	return cmd
}
