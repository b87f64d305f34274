package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/tui"
	"github.com/blackwell-systems/cardctl/internal/updater"
)

// updateSteps are the stages of a successful attempt, in order.
var updateSteps = []string{
	string(updater.StageBackup),
	string(updater.StageFetch),
	string(updater.StageParse),
	string(updater.StagePersist),
	string(updater.StageCommit),
	string(updater.StageDone),
}

func newUpdateCmd() *cobra.Command {
	var (
		force   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download and install the latest catalog",
		Long: `Download the provider's catalog and replace the local copy.

The version check is skipped with --force. If any step fails the previous
catalog and version are restored and the command exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				avail, err := upd.NewVersionAvailable(ctx)
				if err != nil {
					return err
				}
				if !avail {
					ok("Catalog is up to date")
					return nil
				}
			}

			var res updater.Result
			if tui.ShouldUseTUI(cmd) {
				stages := make(chan string, len(updateSteps)+1)
				u := upd.WithStageHook(func(s updater.Stage) { stages <- string(s) })
				done := u.UpdateAsync(ctx)
				results := make(chan updater.Result, 1)
				go func() {
					r := <-done
					close(stages)
					results <- r
				}()
				if err := tui.ShowStages("Updating catalog", updateSteps, stages); err != nil {
					warn("progress display failed: %v", err)
				}
				res = <-results
			} else {
				u := upd
				if !jsonOut {
					u = upd.WithStageHook(func(s updater.Stage) { fmt.Printf("  %s\n", s) })
					header("Updating catalog")
				}
				res = u.Update(ctx)
			}

			if jsonOut {
				if err := printFormatted(cmd.OutOrStdout(), resultOutput{res, res.Error()}, "json"); err != nil {
					return err
				}
			} else {
				printResult(res)
			}
			if res.Status != updater.Complete {
				return fmt.Errorf("update %s", res.Status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Update even if the local version matches")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

type resultOutput struct {
	updater.Result
	Error string `json:"error,omitempty"`
}

func printResult(res updater.Result) {
	switch res.Status {
	case updater.Complete:
		ok("Catalog %s installed (%d cards, %d sets, %d ban list entries)",
			res.Version, res.Counts.Cards, res.Counts.Sets, res.Counts.Banlists)
	case updater.Incomplete:
		fail("Update rolled back: %v", res.Err)
	default:
		fail("Update failed: %v", res.Err)
	}
	fmt.Printf("  attempt %s, %s\n", res.AttemptID, res.Finished.Sub(res.Started).Round(time.Millisecond))
}
