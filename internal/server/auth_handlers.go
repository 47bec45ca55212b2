package server

import (
	"context"
	"net/http"

	"github.com/cr8s/cr8sapi/internal/respond"
)

// Authenticator is the part of the IAM service the login endpoint needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin exchanges a username and password for a session token.
func HandleLogin(authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Bad request")
			return
		}

		token, err := authenticator.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			respond.FromError(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, loginResponse{Token: token})
	}
}
