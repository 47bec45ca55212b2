package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// ========================================
// Role Repository
// ========================================

// BunRoleRepository implements RoleRepository using Bun ORM
type BunRoleRepository struct {
	db bun.IDB
}

// NewBunRoleRepository creates a new Bun-based role repository
func NewBunRoleRepository(db bun.IDB) *BunRoleRepository {
	return &BunRoleRepository{db: db}
}

// FindByCodes retrieves every role whose code is in codes
func (r *BunRoleRepository) FindByCodes(ctx context.Context, codes []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(codes))
	if len(codes) == 0 {
		return roles, nil
	}

	err := r.db.NewSelect().
		Model(&roles).
		Where("r.code IN (?)", bun.In(codes)).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapError("find roles by codes", err)
	}
	return roles, nil
}

// FindByUserID retrieves the roles assigned to a user
func (r *BunRoleRepository) FindByUserID(ctx context.Context, userID int64) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.NewSelect().
		Model(&roles).
		Join("JOIN user_roles AS ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("find roles for user %d", userID), err)
	}
	return roles, nil
}

// CreateMany inserts all roles in a single statement
func (r *BunRoleRepository) CreateMany(ctx context.Context, roles []models.Role) ([]models.Role, error) {
	if len(roles) == 0 {
		return roles, nil
	}

	_, err := r.db.NewInsert().
		Model(&roles).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, wrapError("create roles", err)
	}
	return roles, nil
}

// ========================================
// UserRole Repository
// ========================================

// BunUserRoleRepository implements UserRoleRepository using Bun ORM
type BunUserRoleRepository struct {
	db bun.IDB
}

// NewBunUserRoleRepository creates a new Bun-based user role repository
func NewBunUserRoleRepository(db bun.IDB) *BunUserRoleRepository {
	return &BunUserRoleRepository{db: db}
}

// CreateMany inserts all user-role links in a single statement
func (r *BunUserRoleRepository) CreateMany(ctx context.Context, links []models.UserRole) error {
	if len(links) == 0 {
		return nil
	}

	_, err := r.db.NewInsert().
		Model(&links).
		Exec(ctx)
	if err != nil {
		return wrapError("create user roles", err)
	}
	return nil
}

// DeleteByUserID removes every role link of a user
func (r *BunUserRoleRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*models.UserRole)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, wrapError("delete user roles", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}
