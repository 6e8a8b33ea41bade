// Package cli implements the dialmap-admin command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velotel/dialmap/pkg/config"
	"github.com/velotel/dialmap/pkg/dialplan"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dialmap-admin",
		Short:         "Administer dialplan digit map generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newContextsCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadRegistry resolves the dialplan directory from the flag or config
// and loads every conf file in it.
func loadRegistry(cfgPath, dirOverride string) (*dialplan.Registry, dialplan.LoadResult, error) {
	cfg, err := config.LoadIfExists(strings.TrimSpace(cfgPath))
	if err != nil {
		return nil, dialplan.LoadResult{}, fmt.Errorf("load config: %w", err)
	}
	dir := strings.TrimSpace(dirOverride)
	if dir == "" {
		dir = strings.TrimSpace(cfg.Dialplan.Dir)
	}
	reg := dialplan.NewRegistry()
	res, err := reg.ReloadFromDir(dir)
	if err != nil {
		return nil, dialplan.LoadResult{}, fmt.Errorf("load dialplan dir %q: %w", dir, err)
	}
	return reg, res, nil
}

func digitmapBudget(cfgPath string) int {
	cfg, err := config.LoadIfExists(strings.TrimSpace(cfgPath))
	if err != nil {
		return 0
	}
	return cfg.Digitmap.MaxBytes
}
