package app

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/config"
	"github.com/blackwell-systems/cardctl/internal/util"
)

func newInitCmd() *cobra.Command {
	var (
		apiBase     string
		banlistURL  string
		databaseURL string
		timeout     time.Duration
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Long: `Write a config file populated with defaults, environment overrides and
the flags given here. Refuses to overwrite an existing file without --force.`,
		Example: `  # Default provider, catalog under ~/.local/share/cardctl
  cardctl init

  # Mirror the catalog into Postgres as well
  cardctl init --database-url postgres://localhost/cards`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			exists, err := util.Exists(path)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if apiBase != "" {
				cfg.Provider.APIBase = apiBase
			}
			if banlistURL != "" {
				cfg.Provider.BanlistURL = banlistURL
			}
			if databaseURL != "" {
				cfg.Database.URL = databaseURL
			}
			if timeout > 0 {
				cfg.Provider.Timeout = timeout
			}

			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)
			fmt.Printf("  data dir: %s\n", cfg.Data.Dir)
			if cfg.RelationalEnabled() {
				fmt.Println("  relational store: enabled")
			}
			fmt.Println()
			fmt.Printf("Next: %s\n", color.CyanString("cardctl update"))
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "Provider API base URL")
	cmd.Flags().StringVar(&banlistURL, "banlist-url", "", "Ban list URL")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL for the relational store")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP timeout for provider requests")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
