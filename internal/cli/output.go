package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// publicUser is the user record shown on output; the password never leaves
// the snapshot file.
type publicUser struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"is_admin"`
	IsApproved bool   `json:"is_approved"`
}

func toPublic(u types.User) publicUser {
	return publicUser{
		Username:   u.Username,
		Name:       u.Name,
		Address:    u.Address,
		Phone:      u.Phone,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsApproved: u.IsApproved,
	}
}

func publicUsers(users []types.User) []publicUser {
	out := make([]publicUser, len(users))
	for i, u := range users {
		out[i] = toPublic(u)
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	return tw
}

func printUserTable(w io.Writer, users []types.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := newTable(w, "USERNAME", "NAME", "PHONE", "EMAIL", "ADMIN", "APPROVED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%t\n", u.Username, u.Name, u.Phone, u.Email, u.IsAdmin, u.IsApproved)
	}
	tw.Flush()
}

func printUser(w io.Writer, u types.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Address:\t%s\n", u.Address)
	fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Admin:\t%t\n", u.IsAdmin)
	fmt.Fprintf(tw, "Approved:\t%t\n", u.IsApproved)
	tw.Flush()
}

func printItemTypeTable(w io.Writer, list []types.ItemType) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No item types found.")
		return
	}
	tw := newTable(w, "NAME", "ATTRIBUTES")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, strings.Join(t.Attributes, ", "))
	}
	tw.Flush()
}

func printItemTable(w io.Writer, items []types.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	tw := newTable(w, "ID", "NAME", "TYPE", "USER", "ADDRESS")
	for _, it := range items {
		name := it.Name
		if r := []rune(name); len(r) > 40 {
			name = string(r[:37]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, name, it.ItemType, it.User, it.Address)
	}
	tw.Flush()
}

func printItem(w io.Writer, it types.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", it.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", it.Name)
	fmt.Fprintf(tw, "Type:\t%s\n", it.ItemType)
	fmt.Fprintf(tw, "Description:\t%s\n", it.Description)
	fmt.Fprintf(tw, "Address:\t%s\n", it.Address)
	fmt.Fprintf(tw, "Phone:\t%s\n", it.ContactPhone)
	fmt.Fprintf(tw, "Email:\t%s\n", it.ContactEmail)
	fmt.Fprintf(tw, "User:\t%s\n", it.User)
	keys := make([]string, 0, len(it.ExtraAttributes))
	for k := range it.ExtraAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%s\n", k, it.ExtraAttributes[k])
	}
	tw.Flush()
}

// addActorFlag registers --as, the username a command acts for. Without it the
// caller is trusted.
func addActorFlag(cmd *cobra.Command, actor *string) {
	cmd.Flags().StringVar(actor, "as", "", "username performing the change; checked for ownership or administrator rights")
}

// parseAssignments turns key=value arguments into a map. The value may itself
// contain '='.
func parseAssignments(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%q is not key=value: %w", arg, types.ErrInvalidValue)
		}
		fields[key] = value
	}
	return fields, nil
}
