package users

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd/cmdutil"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and its role assignments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		return withIAM(cmd, func(ctx context.Context, bundle *cmdutil.IAMServiceBundle) error {
			deleted, err := bundle.Service.DeleteUser(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			if deleted == 0 {
				return fmt.Errorf("user %d not found", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", id)
			return nil
		})
	},
}
