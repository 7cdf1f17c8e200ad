package tui

import (
	"github.com/blackwell-systems/catalogctl/internal/util"
	"github.com/spf13/cobra"
)

// ShouldUseTUI returns true if the command should open the interactive shell.
// That requires a terminal on stdout, no --no-interactive flag and no
// explicit --format (scripting intent).
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}
	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return false
	}
	return true
}
