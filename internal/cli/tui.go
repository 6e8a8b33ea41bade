package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/velotel/dialmap/internal/tui"
	"github.com/velotel/dialmap/pkg/dialplan"
	"github.com/velotel/dialmap/pkg/digitmap"
)

func newTUICmd() *cobra.Command {
	var cfgPath, dialplanDir string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse contexts and their digit maps interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := loadRegistry(cfgPath, dialplanDir)
			if err != nil {
				return err
			}
			opts := digitmap.Options{
				MaxBytes:        digitmapBudget(cfgPath),
				MaxIncludeDepth: dialplan.MaxIncludeDepth,
			}
			return tui.Run(reg, opts, os.Stdin, os.Stdout)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&cfgPath, "config", "c", "dialmap.yaml", "config yaml path")
	fs.StringVar(&dialplanDir, "dialplan-dir", "", "dialplan dir path (overrides config)")
	return cmd
}
