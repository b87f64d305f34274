package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

func newBanlistCmd() *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "banlist [list]",
		Short: "Show ban lists, or the entries of one list",
		Example: `  cardctl banlist
  cardctl banlist "2024.01 TCG" --limit 0`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: completeBanlistNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCatalog(); err != nil {
				return err
			}
			snap := active.Snapshot()

			if len(args) == 0 {
				names := snap.BanlistNames()
				if format != "" {
					return printFormatted(os.Stdout, names, format)
				}
				for _, n := range names {
					fmt.Printf("%s  (%d entries)\n", orDash(n), len(snap.Banlist(n)))
				}
				return nil
			}

			name := strings.Join(args, " ")
			entries := snap.Banlist(name)
			if entries == nil {
				return fmt.Errorf("no ban list named %q", name)
			}
			if limit >= 0 {
				var filtered []catalog.BanlistEntry
				for _, e := range entries {
					if int(e.Limit) == limit {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			if format != "" {
				return printFormatted(os.Stdout, entries, format)
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				cardName := e.Card
				if e.CardID != 0 {
					if c := snap.CardByID(e.CardID); c != nil {
						cardName = c.Name
					}
				}
				rows[i] = []string{cardName, limitLabel(e.Limit), e.Note}
			}
			header("%s", name)
			printTable(os.Stdout, []column{{"CARD", 40}, {"STATUS", 0}, {"NOTE", 0}}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")
	cmd.Flags().IntVar(&limit, "limit", -1, "Only entries with this limit (0 forbidden, 1 limited, 2 semi-limited)")
	return cmd
}
