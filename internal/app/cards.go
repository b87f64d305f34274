package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

func newCardsCmd() *cobra.Command {
	var (
		f      catalog.Filter
		format string
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List cards in the local catalog",
		Example: `  cardctl cards --search "blue-eyes"
  cardctl cards --type spell --limit 20
  cardctl cards --set "Legend of Blue Eyes White Dragon" --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCatalog(); err != nil {
				return err
			}
			cards := f.Apply(active.Snapshot())
			if format != "" {
				return printFormatted(os.Stdout, cards, format)
			}
			if len(cards) == 0 {
				warn("No matching cards")
				return nil
			}
			rows := make([][]string, len(cards))
			for i, c := range cards {
				rows[i] = []string{
					strconv.FormatInt(c.ID, 10),
					c.Name,
					c.Type,
					orDash(c.Attribute),
					intOrDash(c.Atk),
					intOrDash(c.Def),
				}
			}
			printTable(os.Stdout, []column{
				{"ID", 10}, {"NAME", 36}, {"TYPE", 22}, {"ATTR", 6}, {"ATK", 5}, {"DEF", 5},
			}, rows)
			fmt.Printf("\n%d card(s)\n", len(cards))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Match name, archetype or description")
	cmd.Flags().StringVar(&f.Type, "type", "", "Card type contains (e.g. spell, xyz)")
	cmd.Flags().StringVar(&f.Attribute, "attribute", "", "Attribute (e.g. DARK)")
	cmd.Flags().StringVar(&f.Race, "race", "", "Monster type or spell/trap race")
	cmd.Flags().StringVar(&f.Archetype, "archetype", "", "Archetype")
	cmd.Flags().StringVar(&f.Set, "set", "", "Printed in this set")
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", 0, "Maximum number of cards")
	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")
	return cmd
}

func newCardCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "card <id|name>",
		Short: "Show one card with its printings and ban status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCatalog(); err != nil {
				return err
			}
			snap := active.Snapshot()
			card, err := lookupCard(snap, strings.Join(args, " "))
			if err != nil {
				return err
			}
			sets := snap.SetsForCard(card.ID)
			bans := snap.BanStatus(*card)

			if format != "" {
				return printFormatted(os.Stdout, struct {
					Card catalog.Card           `json:"card" yaml:"card"`
					Sets []catalog.SetContent   `json:"sets" yaml:"sets"`
					Bans []catalog.BanlistEntry `json:"bans" yaml:"bans"`
				}{*card, sets, bans}, format)
			}

			header("%s", card.Name)
			fmt.Printf("  id:        %d\n", card.ID)
			fmt.Printf("  type:      %s\n", card.Type)
			if card.Race != "" {
				fmt.Printf("  race:      %s\n", card.Race)
			}
			if card.Attribute != "" {
				fmt.Printf("  attribute: %s\n", card.Attribute)
			}
			if card.Level != nil {
				fmt.Printf("  level:     %d\n", *card.Level)
			}
			if card.LinkRating != nil {
				fmt.Printf("  link:      %d\n", *card.LinkRating)
			}
			if card.Scale != nil {
				fmt.Printf("  scale:     %d\n", *card.Scale)
			}
			if card.Atk != nil || card.Def != nil {
				fmt.Printf("  atk/def:   %s/%s\n", intOrDash(card.Atk), intOrDash(card.Def))
			}
			if card.Archetype != "" {
				fmt.Printf("  archetype: %s\n", card.Archetype)
			}
			if card.Desc != "" {
				fmt.Println()
				fmt.Println(indent(card.Desc, "  "))
			}

			if len(sets) > 0 {
				fmt.Println()
				header("Printings")
				for _, s := range sets {
					fmt.Printf("  %s  %s\n", s.SetName, color.New(color.Faint).Sprint(orDash(s.Rarity)))
				}
			}
			if len(bans) > 0 {
				fmt.Println()
				header("Ban lists")
				for _, b := range bans {
					fmt.Printf("  %-20s %s\n", orDash(b.List), limitLabel(b.Limit))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json")
	return cmd
}

// lookupCard resolves an id, then an exact name, then a unique search hit.
func lookupCard(c *catalog.Catalog, query string) (*catalog.Card, error) {
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		if card := c.CardByID(id); card != nil {
			return card, nil
		}
		return nil, fmt.Errorf("no card with id %d", id)
	}
	matches := catalog.Filter{Search: query}.Apply(c)
	for i := range matches {
		if strings.EqualFold(matches[i].Name, query) {
			return &matches[i], nil
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no card matches %q", query)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%d cards match %q; use the id or `cardctl cards --search`", len(matches), query)
	}
}

func limitLabel(limit int32) string {
	switch limit {
	case 0:
		return color.RedString("forbidden")
	case 1:
		return color.YellowString("limited")
	case 2:
		return color.YellowString("semi-limited")
	default:
		return fmt.Sprintf("%d", limit)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// requireCatalog fails with a hint when nothing has been synced yet.
func requireCatalog() error {
	if active.Empty() {
		return fmt.Errorf("the local catalog is empty; run: cardctl update")
	}
	return nil
}
