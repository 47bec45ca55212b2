package migrations

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/cr8s/cr8sapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20251018090000, down_20251018090000)
}

// up_20251018090000 creates the credential tables and the resource tables.
func up_20251018090000(ctx context.Context, db *bun.DB) error {
	log.Debug("[up] creating users table")
	if _, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	log.Debug("[up] creating roles table")
	if _, err := db.NewCreateTable().
		Model((*models.Role)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create roles table: %w", err)
	}

	// No cascade here: deleting a user removes its links explicitly in the
	// same transaction.
	log.Debug("[up] creating user_roles table")
	if _, err := db.NewCreateTable().
		Model((*models.UserRole)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id")`).
		ForeignKey(`("role_id") REFERENCES "roles" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user_roles table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_user_roles_role_id ON user_roles(role_id)`); err != nil {
		return fmt.Errorf("failed to create user_roles role_id index: %w", err)
	}

	log.Debug("[up] creating rustaceans table")
	if _, err := db.NewCreateTable().
		Model((*models.Rustacean)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create rustaceans table: %w", err)
	}

	log.Debug("[up] creating crates table")
	if _, err := db.NewCreateTable().
		Model((*models.Crate)(nil)).
		IfNotExists().
		ForeignKey(`("rustacean_id") REFERENCES "rustaceans" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create crates table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_crates_rustacean_id ON crates(rustacean_id)`); err != nil {
		return fmt.Errorf("failed to create crates rustacean_id index: %w", err)
	}

	return nil
}

func down_20251018090000(ctx context.Context, db *bun.DB) error {
	// Children first so SQLite, which lacks DROP ... CASCADE, can follow along.
	tables := []string{
		"crates",
		"rustaceans",
		"user_roles",
		"roles",
		"users",
	}

	for _, table := range tables {
		log.Debugf("[down] dropping %s table", table)
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if IsPostgreSQL(db) {
			stmt += " CASCADE"
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
	}

	return nil
}
