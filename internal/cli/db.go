package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reuse/internal/sqlexport"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and export the snapshot file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the snapshot file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.store.Path())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "resave",
		Short: "Rewrite the snapshot file in canonical form",
		Long: `Load the snapshot and write it back. Numeric ids become strings,
missing members become empty lists, and a damaged file is replaced by an
empty snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Save(); err != nil {
				return err
			}
			snap := a.store.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %s (%d users, %d item types, %d items)\n",
				a.store.Path(), len(snap.Users), len(snap.ItemTypes), len(snap.Items))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write the snapshot into a SQLite database for querying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := sqlexport.Export(cmd.Context(), a.store.Snapshot(), args[0])
			if err != nil {
				return sysErr(err)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), counts)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d users, %d item types, %d items to %s\n",
				counts.Users, counts.ItemTypes, counts.Items, args[0])
			return nil
		},
	})
	return cmd
}
