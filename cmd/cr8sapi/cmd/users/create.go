package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd/cmdutil"
	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
)

var createCmd = &cobra.Command{
	Use:   "create <username> <password> <roles>",
	Short: "Create a user with a comma separated list of roles",
	Example: `  cr8sapi users create alice s3cret editor
  cr8sapi users create root s3cret admin,editor`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]
		if strings.TrimSpace(username) == "" || password == "" {
			return fmt.Errorf("username and password must not be empty")
		}

		roles, err := auth.ParseRoleCodes(args[2])
		if err != nil {
			return fmt.Errorf("%w (valid roles: %s)", err, strings.Join(knownRoleNames(), ", "))
		}

		return withIAM(cmd, func(ctx context.Context, bundle *cmdutil.IAMServiceBundle) error {
			user, err := bundle.Service.CreateUserWithRoles(ctx, models.NewUser{Username: username, Password: password}, roles)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "User created successfully!")
			fmt.Fprintln(out, "----------------------------------------")
			fmt.Fprintf(out, "User ID: %d\n", user.ID)
			fmt.Fprintf(out, "Username: %s\n", user.Username)
			if len(roles) > 0 {
				fmt.Fprintf(out, "Roles: %s\n", joinRoles(roles))
			}
			fmt.Fprintln(out, "----------------------------------------")
			return nil
		})
	},
}

func knownRoleNames() []string {
	names := make([]string, len(auth.KnownRoles))
	for i, code := range auth.KnownRoles {
		names[i] = code.String()
	}
	return names
}

func joinRoles(codes []auth.RoleCode) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = code.String()
	}
	return strings.Join(parts, ", ")
}
