package app

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/backup"
	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/config"
	"github.com/blackwell-systems/cardctl/internal/history"
	"github.com/blackwell-systems/cardctl/internal/logging"
	"github.com/blackwell-systems/cardctl/internal/provider"
	"github.com/blackwell-systems/cardctl/internal/store"
	"github.com/blackwell-systems/cardctl/internal/updater"
	"github.com/blackwell-systems/cardctl/internal/util"
	"github.com/blackwell-systems/cardctl/internal/version"
)

var (
	cfg     *config.Config
	layout  cache.Layout
	client  *provider.Client
	checker *version.Checker
	coord   *backup.Coordinator
	blob    *store.Blob
	pg      *store.Postgres
	ledger  *history.Ledger
	active  *cache.Cache
	upd     *updater.Updater

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagDataDir       string
	flagLogLevel      string
)

var appVersion = "dev"

// SetVersion records the build version printed by `cardctl version`.
func SetVersion(v string) { appVersion = v }

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "Keep an offline copy of the trading-card catalog in sync",
	Long: `cardctl downloads the card catalog (cards, card sets, set rarities and
ban lists) from the provider, stores it locally and keeps it up to date.

An update either commits completely or leaves the previous catalog in place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// standalone commands run without opening the data directory.
var standalone = map[string]bool{
	"init":       true,
	"version":    true,
	"completion": true,
	"help":       true,

	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive progress display")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/cardctl/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Override data.dir from the config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if flagConfig != "" {
			if err := os.Setenv("CARDCTL_CONFIG", flagConfig); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagDataDir != "" {
			cfg.Data.Dir = config.ExpandHome(flagDataDir)
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		logging.Setup(cfg.Log.Level, cfg.Log.Format)

		if standalone[cmd.Name()] {
			return nil
		}
		return open(cmd.Context())
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if pg != nil {
			pg.Close()
			pg = nil
		}
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newCheckCmd(),
		newUpdateCmd(),
		newStatusCmd(),
		newCardsCmd(),
		newCardCmd(),
		newSetsCmd(),
		newBanlistCmd(),
		newExportCmd(),
		newReindexCmd(),
		newServeCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// open wires the data directory: it finishes any interrupted update, then
// loads the persisted catalog into the cache.
func open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	layout = cache.NewLayout(cfg.Data.Dir)
	if err := layout.EnsureDir(); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	client = provider.New(cfg.Provider.Timeout)
	checker = version.NewChecker(layout.VersionPath(), cfg.Provider.VersionEndpoint(), client)
	coord = backup.New(layout.JournalPath(), layout.CatalogPath(), layout.VersionPath())

	recovered, err := coord.Recover()
	if err != nil {
		return fmt.Errorf("recovering interrupted update: %w", err)
	}
	if recovered {
		warn("Restored the previous catalog after an interrupted update")
	}

	blob = store.NewBlob(layout.CatalogPath())
	persisters := []store.Persister{blob}
	if cfg.RelationalEnabled() {
		pg, err = store.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		persisters = append(persisters, pg)
	}

	ledger, err = history.Open(layout.HistoryPath())
	if err != nil {
		return fmt.Errorf("opening update history: %w", err)
	}

	active = cache.New()
	if err := active.LoadFromDisk(ctx, blob); err != nil {
		return err
	}

	upd = updater.New(updater.Config{
		Endpoints: provider.Endpoints{
			Version: cfg.Provider.VersionEndpoint(),
			Sets:    cfg.Provider.CardSetsEndpoint(),
			Cards:   cfg.Provider.CardInfoEndpoint(),
			Banlist: cfg.Provider.BanlistURL,
		},
		Fetcher:    client,
		Checker:    checker,
		Backup:     coord,
		Persisters: persisters,
		Cache:      active,
		History:    ledger,
	})
	return nil
}
