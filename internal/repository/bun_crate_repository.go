package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

// BunCrateRepository implements CrateRepository using Bun ORM
type BunCrateRepository struct {
	db bun.IDB
}

// NewBunCrateRepository creates a new Bun-based crate repository
func NewBunCrateRepository(db bun.IDB) *BunCrateRepository {
	return &BunCrateRepository{db: db}
}

// Find retrieves a crate by ID
func (r *BunCrateRepository) Find(ctx context.Context, id int64) (*models.Crate, error) {
	crate := new(models.Crate)
	err := r.db.NewSelect().
		Model(crate).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("get crate %d", id), err)
	}
	return crate, nil
}

// FindMultiple retrieves up to limit crates ordered by ID
func (r *BunCrateRepository) FindMultiple(ctx context.Context, limit int) ([]models.Crate, error) {
	crates := make([]models.Crate, 0)
	err := r.db.NewSelect().
		Model(&crates).
		Order("c.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, wrapError("list crates", err)
	}
	return crates, nil
}

// Create inserts a crate. A rustacean_id with no matching owner yields
// ErrForeignKeyViolation.
func (r *BunCrateRepository) Create(ctx context.Context, in models.NewCrate) (*models.Crate, error) {
	crate := &models.Crate{
		RustaceanID: in.RustaceanID,
		Code:        in.Code,
		Name:        in.Name,
		Version:     in.Version,
		Description: in.Description,
	}

	_, err := r.db.NewInsert().
		Model(crate).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, wrapError("create crate", err)
	}
	return crate, nil
}

// Update replaces the mutable fields of a crate
func (r *BunCrateRepository) Update(ctx context.Context, id int64, in models.UpdateCrate) (*models.Crate, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Crate)(nil)).
		Set("rustacean_id = ?", in.RustaceanID).
		Set("code = ?", in.Code).
		Set("name = ?", in.Name).
		Set("version = ?", in.Version).
		Set("description = ?", in.Description).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, wrapError("update crate", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("update crate %d: %w", id, ErrNotFound)
	}

	return r.Find(ctx, id)
}

// Delete removes a crate
func (r *BunCrateRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*models.Crate)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, wrapError("delete crate", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}
