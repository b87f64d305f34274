package tui

import (
	"github.com/blackwell-systems/cardctl/internal/util"
	"github.com/spf13/cobra"
)

// ShouldUseTUI returns true if the command should show interactive progress.
// It requires a terminal on stdout, no --no-interactive flag and no
// --json or --format flag (both signal scripting intent).
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}
	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return false
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return false
	}
	return true
}
