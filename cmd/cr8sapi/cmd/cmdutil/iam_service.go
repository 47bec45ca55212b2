package cmdutil

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/config"
	"github.com/cr8s/cr8sapi/internal/db/bunx"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/services/iam"
	"github.com/cr8s/cr8sapi/internal/sessions"
)

// IAMServiceBundle bundles the service with its underlying DB connection so callers can
// reuse the connection for other repositories when necessary.
type IAMServiceBundle struct {
	Service iam.Service
	DB      *bun.DB
}

// Close releases the underlying database connection.
func (b *IAMServiceBundle) Close() {
	if b == nil || b.DB == nil {
		return
	}
	bunx.Close(b.DB)
}

// NewIAMServiceBundle centralizes IAM service construction for CLI commands.
// Provisioning never issues tokens, so a small in-process session store is
// enough.
func NewIAMServiceBundle(ctx context.Context, cfg *config.Config) (*IAMServiceBundle, error) {
	db, err := bunx.NewDB(ctx, cfg.DatabaseURL, cfg.MaxDBConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	svc, err := iam.NewIAMService(iam.IAMServiceDependencies{
		Users:      repository.NewBunUserRepository(db),
		Roles:      repository.NewBunRoleRepository(db),
		UnitOfWork: repository.NewBunUnitOfWork(db),
		Sessions:   sessions.NewMemoryStore(1, cfg.SessionTTL),
	}, iam.IAMServiceConfig{SessionTTL: cfg.SessionTTL})
	if err != nil {
		bunx.Close(db)
		return nil, fmt.Errorf("failed to create IAM service: %w", err)
	}

	return &IAMServiceBundle{
		Service: svc,
		DB:      db,
	}, nil
}
