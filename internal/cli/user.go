package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register, approve and manage users",
	}
	cmd.AddCommand(newUserRegisterCmd(a))
	cmd.AddCommand(newUserLoginCmd(a))
	cmd.AddCommand(newUserShowCmd(a))
	cmd.AddCommand(newUserListCmd(a))
	cmd.AddCommand(newUserPendingCmd(a))
	cmd.AddCommand(newUserApproveCmd(a))
	cmd.AddCommand(newUserUpdateCmd(a))
	return cmd
}

func newUserRegisterCmd(a *app) *cobra.Command {
	var u types.User
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.registry.Register(u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s; waiting for administrator approval\n", u.Username)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&u.Username, "username", "", "login name")
	f.StringVar(&u.Password, "password", "", "password")
	f.StringVar(&u.Name, "name", "", "display name")
	f.StringVar(&u.Address, "address", "", "address")
	f.StringVar(&u.Phone, "phone", "", "phone number")
	f.StringVar(&u.Email, "email", "", "email address")
	for _, name := range []string{"username", "password", "name", "address", "phone", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUserLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a user's credentials and approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.registry.Login(username, password)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), toPublic(u))
			}
			role := "member"
			if u.IsAdmin {
				role = "administrator"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s)\n", u.Name, role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := a.store.GetUser(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], types.ErrUserNotFound)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), toPublic(u))
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := a.store.Users()
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), publicUsers(users))
			}
			printUserTable(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func newUserPendingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List users awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := a.store.PendingUsers()
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), publicUsers(users))
			}
			printUserTable(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func newUserApproveCmd(a *app) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "approve <username>...",
		Short: "Approve one or more pending users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.registry.Approve(actor, args...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved %d user(s)\n", len(args))
			return nil
		},
	}
	addActorFlag(cmd, &actor)
	return cmd
}

func newUserUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <username> <field>=<value>...",
		Short: "Change fields of a user",
		Long: `Change fields of a user. Fields: password, name, address, phone, email,
is_admin, is_approved. The username itself cannot change.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			upd, err := types.ParseUserUpdate(fields)
			if err != nil {
				return err
			}
			if err := a.registry.UpdateUser(args[0], upd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s\n", args[0])
			return nil
		},
	}
}
