package middleware

import (
	"context"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
)

// IdentityResolver turns an Authorization header into a user.
type IdentityResolver interface {
	ResolveBearer(ctx context.Context, authorization string) (*models.User, error)
}

// AccessController checks a user against an allowed role set.
type AccessController interface {
	Authorize(ctx context.Context, user *models.User, allowed ...auth.RoleCode) (*auth.AuthorizedUser, error)
}
