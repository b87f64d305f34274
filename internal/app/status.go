package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/history"
)

type statusOutput struct {
	Version     string          `json:"version,omitempty"`
	Synced      bool            `json:"synced"`
	DataDir     string          `json:"data_dir"`
	CatalogFile string          `json:"catalog_file"`
	Counts      catalog.Counts  `json:"counts"`
	Relational  *catalog.Counts `json:"relational,omitempty"`
	Verified    *cache.Report   `json:"verified,omitempty"`
	LastSuccess *history.Entry  `json:"last_success,omitempty"`
	History     []history.Entry `json:"history,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var (
		verify  bool
		jsonOut bool
		last    int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the local catalog version, size and recent updates",
		Long: `Show the local catalog version, record counts and recent update attempts.

Use --verify to decode the catalog file, re-encode it and compare the bytes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if last < 0 {
				return fmt.Errorf("--history must be 0 or more, got %d", last)
			}
			out := statusOutput{
				DataDir:     cfg.Data.Dir,
				CatalogFile: layout.CatalogPath(),
				Counts:      active.Snapshot().Counts(),
			}

			var err error
			out.Version, out.Synced, err = checker.Local()
			if err != nil {
				return err
			}

			if pg != nil {
				counts, err := pg.Counts(cmd.Context())
				if err != nil {
					warn("Could not read relational store: %v", err)
				} else {
					out.Relational = &counts
				}
			}

			if verify {
				report, err := cache.Verify(layout.CatalogPath())
				if err != nil {
					if jsonOut {
						return err
					}
					fail("Catalog file failed verification: %v", err)
					return fmt.Errorf("verification failed")
				}
				out.Verified = report
			}

			out.History, err = ledger.Last(last)
			if err != nil {
				warn("Could not read update history: %v", err)
			}
			if out.LastSuccess, err = ledger.LastSuccess(); err != nil {
				warn("Could not read update history: %v", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printStatusText(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the catalog file round-trips byte for byte")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&last, "history", 5, "Number of recent update attempts to show")
	return cmd
}

func printStatusText(out statusOutput) {
	header("Catalog")
	if out.Synced {
		fmt.Printf("  version:   %s\n", out.Version)
	} else {
		fmt.Printf("  version:   %s\n", color.YellowString("never synced"))
	}
	fmt.Printf("  data dir:  %s\n", out.DataDir)
	fmt.Printf("  cards:     %d\n", out.Counts.Cards)
	fmt.Printf("  sets:      %d (%d printings)\n", out.Counts.Sets, out.Counts.SetContents)
	fmt.Printf("  ban lists: %d entries\n", out.Counts.Banlists)
	if out.LastSuccess != nil {
		fmt.Printf("  updated:   %s\n", out.LastSuccess.Finished.Local().Format("2006-01-02 15:04"))
	}

	if out.Relational != nil {
		fmt.Println()
		header("Relational store")
		fmt.Printf("  cards: %d  sets: %d  set contents: %d\n",
			out.Relational.Cards, out.Relational.Sets, out.Relational.SetContents)
	}

	if out.Verified != nil {
		fmt.Println()
		ok("Catalog file verified (%d bytes, sha256 %s)", out.Verified.Size, out.Verified.SHA256[:12])
	}

	if len(out.History) > 0 {
		fmt.Println()
		header("Recent updates")
		for _, e := range out.History {
			status := e.Status
			switch status {
			case "complete":
				status = color.GreenString(status)
			case "incomplete":
				status = color.YellowString(status)
			default:
				status = color.RedString(status)
			}
			line := fmt.Sprintf("  %s  %-10s", e.Finished.Local().Format("2006-01-02 15:04"), status)
			if e.Version != "" {
				line += "  " + e.Version
			}
			if e.Error != "" {
				line += "  " + color.New(color.Faint).Sprint(e.Error)
			}
			fmt.Println(line)
		}
	}
}
