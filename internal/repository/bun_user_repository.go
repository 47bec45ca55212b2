package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// BunUserRepository implements UserRepository using Bun ORM
type BunUserRepository struct {
	db bun.IDB
}

// NewBunUserRepository creates a new Bun-based user repository. db may be a
// *bun.DB or a bun.Tx.
func NewBunUserRepository(db bun.IDB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts a new user and fills in its generated columns.
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return wrapError("create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *BunUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("get user %d", id), err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *BunUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, wrapError("get user by username", err)
	}
	return user, nil
}

// List retrieves all users ordered by ID
func (r *BunUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapError("list users", err)
	}
	return users, nil
}

// Delete removes a user row and reports how many rows were deleted.
// Role links must be removed first.
func (r *BunUserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, wrapError("delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}
