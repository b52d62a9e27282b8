package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current release of the reuse CLI.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/reuse"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the reuse version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "reuse v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
