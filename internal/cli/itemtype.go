package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

func newTypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Manage item types and their attributes",
	}
	cmd.AddCommand(newTypeAddCmd(a))
	cmd.AddCommand(newTypeListCmd(a))
	cmd.AddCommand(newTypeShowCmd(a))
	cmd.AddCommand(newTypeEditCmd(a))
	return cmd
}

func newTypeAddCmd(a *app) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "add <name> [attribute...]",
		Short: "Add an item type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := types.ItemType{Name: args[0], Attributes: append([]string{}, args[1:]...)}
			if err := a.registry.AddItemType(actor, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item type %s\n", t.Normalize().Name)
			return nil
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}

func newTypeListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List item types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.store.ItemTypes()
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), list)
			}
			printItemTypeTable(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newTypeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one item type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := a.store.GetItemType(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], types.ErrItemTypeNotFound)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), t)
			}
			printItemTypeTable(cmd.OutOrStdout(), []types.ItemType{t})
			return nil
		},
	}
}

func newTypeEditCmd(a *app) *cobra.Command {
	var (
		actor string
		name  string
		attrs []string
	)
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Rename an item type or replace its attribute list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, ok := a.store.GetItemType(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], types.ErrItemTypeNotFound)
			}
			next := cur
			if cmd.Flags().Changed("name") {
				next.Name = name
			}
			if cmd.Flags().Changed("attr") {
				next.Attributes = append([]string{}, attrs...)
			}
			if err := a.registry.EditItemType(actor, args[0], next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item type %s\n", next.Normalize().Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute (repeatable); replaces the whole list")
	addActorFlag(cmd, &actor)
	return cmd
}
