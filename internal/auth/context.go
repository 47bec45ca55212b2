package auth

import (
	"context"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// AuthorizedUser is an authenticated user whose roles passed a role check.
type AuthorizedUser struct {
	User  *models.User
	Roles []RoleCode
}

type userContextKey struct{}

// WithUser stores the authenticated user on the context for downstream handlers.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	return user, ok && user != nil
}

type authorizedUserContextKey struct{}

// WithAuthorizedUser stores the result of a successful role check.
func WithAuthorizedUser(ctx context.Context, au *AuthorizedUser) context.Context {
	return context.WithValue(ctx, authorizedUserContextKey{}, au)
}

// AuthorizedUserFromContext retrieves the result of a successful role check.
func AuthorizedUserFromContext(ctx context.Context) (*AuthorizedUser, bool) {
	au, ok := ctx.Value(authorizedUserContextKey{}).(*AuthorizedUser)
	return au, ok && au != nil
}
