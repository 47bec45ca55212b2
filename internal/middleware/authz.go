package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/respond"
)

// RequireRoles admits requests whose authenticated user holds at least one
// of allowed. It must run after Authenticate and reuses the user that
// Authenticate stored instead of reading the token again.
//
// Responses: 401 without an authenticated user, 403 when no role matches,
// 500 when the role lookup fails.
func RequireRoles(controller AccessController, allowed ...auth.RoleCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			authorized, err := controller.Authorize(r.Context(), user, allowed...)
			if err != nil {
				log.WithFields(log.Fields{
					"user_id": user.ID,
					"method":  r.Method,
					"path":    r.URL.Path,
				}).WithError(err).Debug("authorization rejected")
				respond.FromError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithAuthorizedUser(r.Context(), authorized)))
		})
	}
}
