package repository

import (
	"context"

	"github.com/uptrace/bun"
)

// Repositories groups the credential repositories bound to one database
// handle, either the pool or an open transaction.
type Repositories struct {
	Users     UserRepository
	Roles     RoleRepository
	UserRoles UserRoleRepository
}

// NewRepositories binds every credential repository to db.
func NewRepositories(db bun.IDB) Repositories {
	return Repositories{
		Users:     NewBunUserRepository(db),
		Roles:     NewBunRoleRepository(db),
		UserRoles: NewBunUserRoleRepository(db),
	}
}

// UnitOfWork runs fn with transaction-bound repositories. If fn returns an
// error, or ctx is cancelled before commit, nothing fn wrote is kept.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// BunUnitOfWork implements UnitOfWork with bun.DB.RunInTx.
type BunUnitOfWork struct {
	db *bun.DB
}

// NewBunUnitOfWork creates a unit of work over db.
func NewBunUnitOfWork(db *bun.DB) *BunUnitOfWork {
	return &BunUnitOfWork{db: db}
}

// Do implements UnitOfWork.
func (u *BunUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
