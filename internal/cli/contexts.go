package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContextsCmd() *cobra.Command {
	var cfgPath, dialplanDir string
	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "List loaded dialplan contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := loadRegistry(cfgPath, dialplanDir)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&cfgPath, "config", "c", "dialmap.yaml", "config yaml path")
	fs.StringVar(&dialplanDir, "dialplan-dir", "", "dialplan dir path (overrides config)")
	return cmd
}
