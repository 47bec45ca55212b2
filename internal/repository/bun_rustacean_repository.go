package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// BunRustaceanRepository implements RustaceanRepository using Bun ORM
type BunRustaceanRepository struct {
	db bun.IDB
}

// NewBunRustaceanRepository creates a new Bun-based rustacean repository
func NewBunRustaceanRepository(db bun.IDB) *BunRustaceanRepository {
	return &BunRustaceanRepository{db: db}
}

// Find retrieves a rustacean by ID
func (r *BunRustaceanRepository) Find(ctx context.Context, id int64) (*models.Rustacean, error) {
	rustacean := new(models.Rustacean)
	err := r.db.NewSelect().
		Model(rustacean).
		Where("rs.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("get rustacean %d", id), err)
	}
	return rustacean, nil
}

// FindMultiple retrieves up to limit rustaceans ordered by ID
func (r *BunRustaceanRepository) FindMultiple(ctx context.Context, limit int) ([]models.Rustacean, error) {
	rustaceans := make([]models.Rustacean, 0)
	err := r.db.NewSelect().
		Model(&rustaceans).
		Order("rs.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, wrapError("list rustaceans", err)
	}
	return rustaceans, nil
}

// Create inserts a rustacean
func (r *BunRustaceanRepository) Create(ctx context.Context, in models.NewRustacean) (*models.Rustacean, error) {
	rustacean := &models.Rustacean{
		Name:  in.Name,
		Email: in.Email,
	}

	_, err := r.db.NewInsert().
		Model(rustacean).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, wrapError("create rustacean", err)
	}
	return rustacean, nil
}

// Update replaces the mutable fields of a rustacean
func (r *BunRustaceanRepository) Update(ctx context.Context, id int64, in models.UpdateRustacean) (*models.Rustacean, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Rustacean)(nil)).
		Set("name = ?", in.Name).
		Set("email = ?", in.Email).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, wrapError("update rustacean", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("update rustacean %d: %w", id, ErrNotFound)
	}

	return r.Find(ctx, id)
}

// Delete removes a rustacean and, through the foreign key, its crates
func (r *BunRustaceanRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*models.Rustacean)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, wrapError("delete rustacean", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}
