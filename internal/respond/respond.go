// Package respond writes JSON responses and maps domain errors to HTTP
// status codes. Internal error details never reach the response body.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/services/iam"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("encode response")
	}
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Status maps err to an HTTP status and a short public message.
//
//	iam.ErrInvalidCredentials                          -> 401 Wrong credentials
//	iam.ErrUnauthenticated                             -> 401 Unauthorized
//	iam.ErrForbidden                                   -> 403 Forbidden
//	iam.ErrInvalidInput                                -> 400 Bad request
//	repository.ErrNotFound, ErrForeignKeyViolation     -> 404 Not found
//	repository.ErrConflict                             -> 409 Conflict
//	anything else, iam.ErrInternal included            -> 500 Error
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, iam.ErrInternal):
		return http.StatusInternalServerError, "Error"
	case errors.Is(err, iam.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Wrong credentials"
	case errors.Is(err, iam.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, iam.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, iam.ErrInvalidInput):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrForeignKeyViolation):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "Conflict"
	default:
		return http.StatusInternalServerError, "Error"
	}
}

// FromError writes the response Status chooses for err. 5xx errors are
// logged with their full detail.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	Error(w, status, msg)
}
