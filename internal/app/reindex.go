package app

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/store"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the relational store from the local catalog",
		Long: `Load the local catalog into the Postgres tables without contacting the
provider. Use this after setting database.url on an existing data directory.

The tables are dropped and recreated in a single transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pg == nil {
				return errors.New("no relational store configured (set database.url or CARDCTL_DATABASE_URL)")
			}
			if err := requireCatalog(); err != nil {
				return err
			}
			if err := store.Persist(cmd.Context(), pg, active.Snapshot()); err != nil {
				return err
			}
			counts, err := pg.Counts(cmd.Context())
			if err != nil {
				return err
			}
			ok("Relational store rebuilt (%d cards, %d sets, %d set contents)",
				counts.Cards, counts.Sets, counts.SetContents)
			return nil
		},
	}
}
