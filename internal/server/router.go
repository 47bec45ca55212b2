package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
	cr8smw "github.com/cr8s/cr8sapi/internal/middleware"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/respond"
	"github.com/cr8s/cr8sapi/internal/services/iam"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

// RouterOptions controls the construction of the cr8s HTTP router.
// IAM is required; resource routes are only mounted when their repository is set.
type RouterOptions struct {
	IAM           iam.Service
	Rustaceans    repository.RustaceanRepository
	Crates        repository.CrateRepository
	CORSOptions   *cors.Options
	Metrics       *telemetry.ServerMetrics
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the CORS policy used when none is configured.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter assembles a chi.Router with shared middleware, the CORS policy,
// the public login and health endpoints, and the token protected resource
// routes.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.StandardLogger(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))
	r.Use(cr8smw.Metrics(opts.Metrics))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	if opts.IAM == nil {
		log.Warn("IAM service not configured; skipping login and resource routes")
		return r
	}

	r.Post("/login", HandleLogin(opts.IAM))

	r.Group(func(r chi.Router) {
		r.Use(cr8smw.Authenticate(opts.IAM))

		if opts.Rustaceans != nil {
			mountResource[models.Rustacean, models.NewRustacean, models.UpdateRustacean](r, "/rustaceans", opts.Rustaceans, opts.IAM)
		}
		if opts.Crates != nil {
			mountResource[models.Crate, models.NewCrate, models.UpdateCrate](r, "/crates", opts.Crates, opts.IAM)
		}
	})

	return r
}

// mountResource mounts the five CRUD routes for one resource. Reads need an
// authenticated user; writes additionally need an elevated role.
func mountResource[T any, N payload, U payload](r chi.Router, path string, store resourceStore[T, N, U], controller cr8smw.AccessController) {
	h := &resourceHandlers[T, N, U]{store: store}

	r.Route(path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(cr8smw.RequireRoles(controller, auth.ElevatedRoles...))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// NewH2CHandler wraps the router with an h2c server to provide HTTP/2 over
// cleartext.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}
