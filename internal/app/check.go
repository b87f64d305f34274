package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the provider has a newer catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			local, synced, err := checker.Local()
			if err != nil {
				return err
			}
			if !synced {
				warn("No local catalog yet")
				fmt.Println("Run: cardctl update")
				return nil
			}

			upstream, err := checker.Upstream(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("local:    %q\n", local)
			fmt.Printf("upstream: %q\n", upstream)
			if local == upstream {
				ok("Catalog is up to date")
				return nil
			}
			warn("A new catalog version is available")
			fmt.Println("Run: cardctl update")
			return nil
		},
	}
}
