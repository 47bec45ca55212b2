// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/bunx"
	"github.com/cr8s/cr8sapi/internal/migrations"
)

// NewSQLiteDB opens a private in-memory SQLite database with the full schema
// applied. The database is closed when the test finishes.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := bunx.NewDB(ctx, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bunx.Close(db)
	})

	_, err = migrations.Apply(ctx, db)
	require.NoError(t, err)

	return db
}
