package repository

import (
	"context"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// UserRepository exposes persistence operations for local user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// RoleRepository exposes persistence operations for roles.
type RoleRepository interface {
	// FindByCodes returns the roles whose code is in codes, in one query.
	FindByCodes(ctx context.Context, codes []string) ([]models.Role, error)
	// FindByUserID returns the roles linked to a user through user_roles.
	FindByUserID(ctx context.Context, userID int64) ([]models.Role, error)
	// CreateMany inserts roles in one statement and returns them with IDs set.
	CreateMany(ctx context.Context, roles []models.Role) ([]models.Role, error)
}

// UserRoleRepository exposes persistence operations for user/role links.
type UserRoleRepository interface {
	CreateMany(ctx context.Context, links []models.UserRole) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}

// RustaceanRepository exposes persistence operations for rustaceans.
type RustaceanRepository interface {
	Find(ctx context.Context, id int64) (*models.Rustacean, error)
	FindMultiple(ctx context.Context, limit int) ([]models.Rustacean, error)
	Create(ctx context.Context, in models.NewRustacean) (*models.Rustacean, error)
	Update(ctx context.Context, id int64, in models.UpdateRustacean) (*models.Rustacean, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CrateRepository exposes persistence operations for crates.
type CrateRepository interface {
	Find(ctx context.Context, id int64) (*models.Crate, error)
	FindMultiple(ctx context.Context, limit int) ([]models.Crate, error)
	Create(ctx context.Context, in models.NewCrate) (*models.Crate, error)
	Update(ctx context.Context, id int64, in models.UpdateCrate) (*models.Crate, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
