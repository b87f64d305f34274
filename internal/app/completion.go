package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/cache"
	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/config"
	"github.com/blackwell-systems/cardctl/internal/store"
)

func newCompletionCmd() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell autocompletion scripts",
		Long: `Generate autocompletion scripts for your shell. Set and ban list names
complete from the local catalog.

Examples:
  # Bash (add to ~/.bashrc)
  source <(cardctl completion bash)

  # Zsh (add to ~/.zshrc)
  source <(cardctl completion zsh)

  # Fish
  cardctl completion fish > ~/.config/fish/completions/cardctl.fish

  # PowerShell
  cardctl completion powershell | Out-String | Invoke-Expression`,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(os.Stdout)
				}
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(os.Stdout)
				}
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "Omit completion descriptions")
	return cmd
}

// completionCatalog loads the persisted catalog directly. Completion runs
// without the root command's setup hooks.
func completionCatalog() *catalog.Catalog {
	c, err := config.Load()
	if err != nil {
		return nil
	}
	dir := c.Data.Dir
	if flagDataDir != "" {
		dir = config.ExpandHome(flagDataDir)
	}
	cat, err := store.NewBlob(cache.NewLayout(dir).CatalogPath()).Load(context.Background())
	if err != nil {
		return nil
	}
	return cat
}

func completeNames(names []string, toComplete string) []string {
	var out []string
	prefix := strings.ToLower(toComplete)
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), prefix) {
			out = append(out, n)
		}
	}
	return out
}

func completeSetNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	if cat := completionCatalog(); cat != nil {
		for _, s := range cat.Sets {
			names = append(names, s.Name)
		}
	}
	return completeNames(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeBanlistNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeNames(completionCatalog().BanlistNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
}
