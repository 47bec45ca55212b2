package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/bunx"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/respond"
	"github.com/cr8s/cr8sapi/internal/server"
	"github.com/cr8s/cr8sapi/internal/services/iam"
	"github.com/cr8s/cr8sapi/internal/sessions"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cr8s API server",
	Long:  `Starts the HTTP server with the login endpoint and the rustaceans and crates resources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		shutdownTelemetry, err := telemetry.Init(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(ctx); err != nil {
				log.WithError(err).Warn("telemetry shutdown failed")
			}
		}()

		serverMetrics, err := telemetry.NewServerMetrics()
		if err != nil {
			return fmt.Errorf("failed to create server metrics: %w", err)
		}
		dbMetrics, err := telemetry.NewDatabaseMetrics()
		if err != nil {
			return fmt.Errorf("failed to create database metrics: %w", err)
		}
		authMetrics, err := telemetry.NewAuthMetrics()
		if err != nil {
			return fmt.Errorf("failed to create auth metrics: %w", err)
		}

		db, err := bunx.NewDB(ctx, cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)
		db.AddQueryHook(telemetry.NewQueryHook(dbMetrics))

		log.WithField("type", bunx.DetectDatabaseType(cfg.DatabaseURL)).Info("connected to database")

		store, closeStore, err := newSessionStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		iamService, err := iam.NewIAMService(
			iam.IAMServiceDependencies{
				Users:      repository.NewBunUserRepository(db),
				Roles:      repository.NewBunRoleRepository(db),
				UnitOfWork: repository.NewBunUnitOfWork(db),
				Sessions:   store,
				Metrics:    authMetrics,
			},
			iam.IAMServiceConfig{SessionTTL: cfg.SessionTTL},
		)
		if err != nil {
			return fmt.Errorf("failed to initialize IAM service: %w", err)
		}

		corsOpts := server.DefaultCORSOptions()
		corsOpts.AllowedOrigins = cfg.CORSAllowedOrigins

		handler := server.NewH2CHandler(server.RouterOptions{
			IAM:           iamService,
			Rustaceans:    repository.NewBunRustaceanRepository(db),
			Crates:        repository.NewBunCrateRepository(db),
			CORSOptions:   &corsOpts,
			Metrics:       serverMetrics,
			HealthHandler: healthHandler(db),
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.WithField("addr", cfg.ServerAddr).Info("starting server")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.WithField("signal", sig.String()).Info("shutting down gracefully")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return stopServer(ctx, srv)
		}
	},
}

// stoppable is the part of *http.Server used to stop it.
type stoppable interface {
	Shutdown(ctx context.Context) error
	Close() error
}

// stopServer drains in-flight requests and force-closes the server when
// draining fails.
func stopServer(ctx context.Context, srv stoppable) error {
	if err := srv.Shutdown(ctx); err != nil {
		if closeErr := srv.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("failed to close server")
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newSessionStore picks Redis when a URL is configured and the in-process
// cache otherwise. The returned func releases the store.
func newSessionStore(ctx context.Context) (sessions.Store, func(), error) {
	if !cfg.UsesRedis() {
		log.WithField("size", cfg.SessionCacheSize).Info("using in-process session cache")
		return sessions.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL), func() {}, nil
	}

	rc, err := sessions.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("using redis session cache")

	return sessions.NewRedisStore(rc), func() {
		if err := rc.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis client")
		}
	}, nil
}

// healthHandler reports ok while the database answers a ping.
func healthHandler(db *bun.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Warn("health check: database ping failed")
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
