package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type validateOptions struct {
	cfgPath     string
	dialplanDir string
	strict      bool
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{
		cfgPath: "dialmap.yaml",
	}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the dialplan for dangling, circular or too-deep includes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWithOptions(cmd, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "dialmap.yaml", "config yaml path")
	fs.StringVar(&opts.dialplanDir, "dialplan-dir", "", "dialplan dir path (overrides config)")
	fs.BoolVar(&opts.strict, "strict", false, "exit non-zero on warnings")
	return cmd
}

func runValidateWithOptions(cmd *cobra.Command, opts validateOptions) error {
	reg, res, err := loadRegistry(opts.cfgPath, opts.dialplanDir)
	if err != nil {
		return err
	}
	problems := 0
	for path, reason := range res.SkippedFiles {
		problems++
		fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: %s\n", path, reason)
	}
	warnings := reg.Validate()
	for _, w := range warnings {
		problems++
		fmt.Fprintln(cmd.OutOrStdout(), w.String())
	}
	if problems == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d context(s), no findings\n", len(res.Contexts))
		return nil
	}
	if opts.strict {
		return fmt.Errorf("validation found %d problem(s)", problems)
	}
	return nil
}
