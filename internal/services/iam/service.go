package iam

import (
	"context"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
)

// Service provides all identity and access management operations.
type Service interface {
	// =========================================================================
	// Authentication (Request Path)
	// =========================================================================

	// Login checks username and password and returns a new session token.
	//
	// Returns:
	//   - (token, nil): credentials valid, session stored with the configured TTL
	//   - ("", ErrInvalidCredentials): unknown user or wrong password
	//   - ("", ErrInternal): store, cache, or stored-hash failure
	//
	// Existing sessions of the same user are left untouched.
	Login(ctx context.Context, username, password string) (string, error)

	// ResolveBearer resolves an Authorization header of the form
	// "Bearer <token>" to the user that owns the session.
	//
	// A malformed header, unknown or expired token, or a session whose user
	// was deleted returns ErrUnauthenticated.
	ResolveBearer(ctx context.Context, authorization string) (*models.User, error)

	// =========================================================================
	// Authorization (Request Path)
	// =========================================================================

	// Authorize loads the user's roles and succeeds when at least one of
	// them is in allowed. ErrForbidden and ErrInternal are kept distinct: a
	// failed role lookup never reads as a denial.
	Authorize(ctx context.Context, user *models.User, allowed ...auth.RoleCode) (*auth.AuthorizedUser, error)

	// =========================================================================
	// Provisioning (Administrative)
	// =========================================================================

	// CreateUserWithRoles creates a user and links it to roleCodes in one
	// transaction. Duplicate codes are ignored and roles that do not exist
	// yet are created with their code as name.
	CreateUserWithRoles(ctx context.Context, in models.NewUser, roleCodes []auth.RoleCode) (*models.User, error)

	// DeleteUser removes a user's role links and then the user in one
	// transaction. It returns the number of user rows removed.
	DeleteUser(ctx context.Context, id int64) (int64, error)

	// ListUsersWithRoles returns every user with its roles.
	ListUsersWithRoles(ctx context.Context) ([]models.UserWithRoles, error)
}
