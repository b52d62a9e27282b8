package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and seed the registry",
		Long: `Create the configuration directory and config.yaml if missing, then
seed the snapshot with the default administrator and item types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeConfigIfMissing(a.resolvedConfigDir, a.cfg.DBFile)
			if err != nil {
				return sysErr(fmt.Errorf("write config: %w", err))
			}
			if err := a.registry.Seed(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", configPathIn(a.resolvedConfigDir))
			}
			fmt.Fprintf(out, "Registry initialized at %s\n", a.store.Path())
			return nil
		},
	}
}
