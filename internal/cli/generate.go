package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velotel/dialmap/pkg/dialplan"
	"github.com/velotel/dialmap/pkg/digitmap"
)

type generateOptions struct {
	cfgPath     string
	dialplanDir string
	context     string
	maxBytes    int
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{
		cfgPath: "dialmap.yaml",
	}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the device digit map for a dialplan context",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateWithOptions(cmd, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "dialmap.yaml", "config yaml path")
	fs.StringVar(&opts.dialplanDir, "dialplan-dir", "", "dialplan dir path (overrides config)")
	fs.StringVar(&opts.context, "context", "", "root dialplan context")
	fs.IntVar(&opts.maxBytes, "max-bytes", 0, "digit map byte budget (overrides config)")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func runGenerateWithOptions(cmd *cobra.Command, opts generateOptions) error {
	context := strings.TrimSpace(opts.context)
	if context == "" {
		return errors.New("missing context: use --context")
	}
	reg, res, err := loadRegistry(opts.cfgPath, opts.dialplanDir)
	if err != nil {
		return err
	}
	for path, reason := range res.SkippedFiles {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s: %s\n", path, reason)
	}

	maxBytes := opts.maxBytes
	if maxBytes <= 0 {
		maxBytes = digitmapBudget(opts.cfgPath)
	}
	out, warnings, err := digitmap.Generate(reg, context, digitmap.Options{
		MaxBytes:        maxBytes,
		MaxIncludeDepth: dialplan.MaxIncludeDepth,
	})
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("generate digit map for %q: %w", context, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
