package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
	"github.com/cr8s/cr8sapi/internal/services/iam"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

type mockResolver struct {
	user *models.User
	err  error
	seen string
}

func (m *mockResolver) ResolveBearer(_ context.Context, header string) (*models.User, error) {
	m.seen = header
	return m.user, m.err
}

type mockController struct {
	roles []auth.RoleCode
	err   error
	calls int
}

func (m *mockController) Authorize(_ context.Context, user *models.User, allowed ...auth.RoleCode) (*auth.AuthorizedUser, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if !auth.HasAnyRole(m.roles, allowed) {
		return nil, iam.ErrForbidden
	}
	return &auth.AuthorizedUser{User: user, Roles: m.roles}, nil
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	t.Run("stores user on context", func(t *testing.T) {
		resolver := &mockResolver{user: alice}
		var got *models.User
		handler := Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = auth.UserFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/rustaceans", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer abc", resolver.seen)
		assert.Same(t, alice, got)
	})

	t.Run("unauthenticated short-circuits with 401", func(t *testing.T) {
		called := false
		handler := Authenticate(&mockResolver{err: iam.ErrUnauthenticated})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rustaceans", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("store failure is 500", func(t *testing.T) {
		handler := Authenticate(&mockResolver{err: fmt.Errorf("%w: db down", iam.ErrInternal)})(okHandler(t))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rustaceans", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Error"}`, rec.Body.String())
	})
}

func TestRequireRoles(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}

	serve := func(controller AccessController, user *models.User) *httptest.ResponseRecorder {
		handler := RequireRoles(controller, auth.ElevatedRoles...)(okHandler(t))
		req := httptest.NewRequest(http.MethodPost, "/rustaceans", nil)
		if user != nil {
			req = req.WithContext(auth.WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("editor passes", func(t *testing.T) {
		rec := serve(&mockController{roles: []auth.RoleCode{auth.RoleEditor}}, alice)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("viewer is 403", func(t *testing.T) {
		rec := serve(&mockController{roles: []auth.RoleCode{auth.RoleViewer}}, alice)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
	})

	t.Run("lookup failure is 500 not 403", func(t *testing.T) {
		rec := serve(&mockController{err: fmt.Errorf("%w: roles", iam.ErrInternal)}, alice)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing user is 401 without a role lookup", func(t *testing.T) {
		controller := &mockController{roles: []auth.RoleCode{auth.RoleAdmin}}
		rec := serve(controller, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, controller.calls)
	})

	t.Run("authorized user reaches the handler", func(t *testing.T) {
		var got *auth.AuthorizedUser
		handler := RequireRoles(&mockController{roles: []auth.RoleCode{auth.RoleAdmin}}, auth.ElevatedRoles...)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.AuthorizedUserFromContext(r.Context())
			}))
		req := httptest.NewRequest(http.MethodDelete, "/crates/1", nil)
		req = req.WithContext(auth.WithUser(req.Context(), alice))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.User.ID)
	})
}

func TestMetrics(t *testing.T) {
	metrics, err := telemetry.NewServerMetrics()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Get("/crates/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crates/1", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	passthrough := Metrics(nil)(okHandler(t))
	rec = httptest.NewRecorder()
	passthrough.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
