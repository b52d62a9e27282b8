package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "List, search and remove items",
	}
	cmd.AddCommand(newItemAddCmd(a))
	cmd.AddCommand(newItemListCmd(a))
	cmd.AddCommand(newItemShowCmd(a))
	cmd.AddCommand(newItemUpdateCmd(a))
	cmd.AddCommand(newItemDeleteCmd(a))
	return cmd
}

func newItemAddCmd(a *app) *cobra.Command {
	var (
		owner string
		it    types.Item
		attrs []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a new item for re-use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := parseAssignments(attrs)
			if err != nil {
				return err
			}
			it.ExtraAttributes = extra
			added, err := a.registry.ListItem(owner, it)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), added)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listed item %s\n", added.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&owner, "user", "", "username listing the item")
	f.StringVar(&it.ItemType, "type", "", "item type name")
	f.StringVar(&it.Name, "name", "", "item name")
	f.StringVar(&it.Description, "description", "", "description")
	f.StringVar(&it.Address, "address", "", "pickup address")
	f.StringVar(&it.ContactPhone, "phone", "", "contact phone")
	f.StringVar(&it.ContactEmail, "email", "", "contact email")
	f.StringArrayVar(&attrs, "attr", nil, "type attribute as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemListCmd(a *app) *cobra.Command {
	var filter types.ItemFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally by type and keyword",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := a.store.Items(filter)
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), items)
			}
			printItemTable(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.ItemType, "type", "", "only items of this type")
	cmd.Flags().StringVar(&filter.Keyword, "keyword", "", "case-insensitive match on name, description or address")
	return cmd
}

func newItemShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, ok := a.store.GetItem(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], types.ErrItemNotFound)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), it)
			}
			printItem(cmd.OutOrStdout(), it)
			return nil
		},
	}
}

func newItemUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <field>=<value>...",
		Short: "Change fields of an item",
		Long: `Change fields of an item. Fields: name, description, address,
contact_phone, contact_email, item_type, user, and extra_attributes.<name>.
The id cannot change.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			upd, err := types.ParseItemUpdate(fields)
			if err != nil {
				return err
			}
			if err := a.registry.UpdateItem(args[0], upd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", types.NormalizeID(args[0]))
			return nil
		},
	}
}

func newItemDeleteCmd(a *app) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.registry.RemoveItem(actor, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", types.NormalizeID(args[0]))
			return nil
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}
