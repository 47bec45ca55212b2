package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cr8s/cr8sapi/internal/db/models"
	"github.com/cr8s/cr8sapi/internal/testutil"
)

func TestBunUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	uow := NewBunUnitOfWork(db)
	ctx := context.Background()

	var userID int64
	err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		user := &models.User{Username: "alice", Password: "hash"}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		userID = user.ID

		roles, err := repos.Roles.CreateMany(ctx, []models.Role{{Code: "editor", Name: "editor"}})
		if err != nil {
			return err
		}
		return repos.UserRoles.CreateMany(ctx, []models.UserRole{{UserID: user.ID, RoleID: roles[0].ID}})
	})
	require.NoError(t, err)

	roles, err := NewBunRoleRepository(db).FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, roleCodes(roles))
}

func TestBunUnitOfWork_RollsBackOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	uow := NewBunUnitOfWork(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Users.Create(ctx, &models.User{Username: "alice", Password: "hash"}); err != nil {
			return err
		}
		if _, err := repos.Roles.CreateMany(ctx, []models.Role{{Code: "admin", Name: "admin"}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewBunUserRepository(db).GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	roles, err := NewBunRoleRepository(db).FindByCodes(ctx, []string{"admin"})
	require.NoError(t, err)
	assert.Empty(t, roles)
}
