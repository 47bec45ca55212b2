package middleware

import (
	"net/http"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/respond"
)

// Authenticate resolves the bearer token of every request and stores the
// user on the context. Requests that fail resolution stop here with 401, or
// 500 when the user store itself failed.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.ResolveBearer(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				respond.FromError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
