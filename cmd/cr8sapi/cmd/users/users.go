package users

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd/cmdutil"
	"github.com/cr8s/cr8sapi/internal/config"
)

// UsersCmd is the parent command for user management operations
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users and their roles",
	Long:  `Commands for provisioning, listing and removing users directly against the database.`,
}

// withIAM loads configuration and runs fn with a ready IAM service bundle.
func withIAM(cmd *cobra.Command, fn func(ctx context.Context, bundle *cmdutil.IAMServiceBundle) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bundle, err := cmdutil.NewIAMServiceBundle(ctx, cfg)
	if err != nil {
		return err
	}
	defer bundle.Close()

	return fn(ctx, bundle)
}

func init() {
	UsersCmd.AddCommand(createCmd)
	UsersCmd.AddCommand(listCmd)
	UsersCmd.AddCommand(deleteCmd)
}
