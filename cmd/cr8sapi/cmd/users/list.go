package users

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users and their roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIAM(cmd, func(ctx context.Context, bundle *cmdutil.IAMServiceBundle) error {
			users, err := bundle.Service.ListUsersWithRoles(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLES\tCREATED")
			for _, u := range users {
				codes := make([]string, len(u.Roles))
				for i, role := range u.Roles {
					codes[i] = role.Code
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.User.ID, u.User.Username, strings.Join(codes, ","), u.User.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		})
	},
}
