package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/util"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole local catalog as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCatalog(); err != nil {
				return err
			}
			data, err := catalog.Marshal(active.Snapshot(), format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := util.WriteFileAtomic(out, data); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			ok("Exported %s (%s)", out, humanBytes(int64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
