package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

func newSetsCmd() *cobra.Command {
	var (
		format string
		search string
	)

	cmd := &cobra.Command{
		Use:               "sets [name]",
		Short:             "List card sets, or the cards of one set",
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: completeSetNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCatalog(); err != nil {
				return err
			}
			snap := active.Snapshot()

			if len(args) > 0 {
				return showSet(snap, strings.Join(args, " "), format)
			}

			sets := snap.Sets
			if search != "" {
				q := strings.ToLower(search)
				var filtered []catalog.CardSet
				for _, s := range sets {
					if strings.Contains(strings.ToLower(s.Name), q) || strings.EqualFold(s.Code, search) {
						filtered = append(filtered, s)
					}
				}
				sets = filtered
			}
			if format != "" {
				return printFormatted(os.Stdout, sets, format)
			}
			rows := make([][]string, len(sets))
			for i, s := range sets {
				rows[i] = []string{orDash(s.Code), s.Name, orDash(s.Date), intOrDash(s.CardCount)}
			}
			printTable(os.Stdout, []column{{"CODE", 8}, {"NAME", 48}, {"RELEASED", 10}, {"CARDS", 5}}, rows)
			fmt.Printf("\n%d set(s)\n", len(sets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name substring or exact code")
	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")
	return cmd
}

func showSet(snap *catalog.Catalog, name, format string) error {
	set := snap.SetByName(name)
	if set == nil {
		return fmt.Errorf("no set named %q", name)
	}

	cards := make([]catalog.Card, 0, len(set.CardIDs))
	for _, id := range set.CardIDs {
		if c := snap.CardByID(id); c != nil {
			cards = append(cards, *c)
		}
	}
	if format != "" {
		return printFormatted(os.Stdout, struct {
			Set   catalog.CardSet `json:"set" yaml:"set"`
			Cards []catalog.Card  `json:"cards" yaml:"cards"`
		}{*set, cards}, format)
	}

	header("%s", set.Name)
	fmt.Printf("  code: %s  released: %s  cards: %s\n\n", orDash(set.Code), orDash(set.Date), intOrDash(set.CardCount))

	rarity := make(map[int64]string)
	for _, sc := range snap.SetContents {
		if sc.SetName == set.Name {
			if _, seen := rarity[sc.CardID]; !seen {
				rarity[sc.CardID] = sc.Rarity
			}
		}
	}
	rows := make([][]string, len(cards))
	for i, c := range cards {
		rows[i] = []string{strconv.FormatInt(c.ID, 10), c.Name, orDash(rarity[c.ID])}
	}
	printTable(os.Stdout, []column{{"ID", 10}, {"NAME", 40}, {"RARITY", 24}}, rows)
	return nil
}
