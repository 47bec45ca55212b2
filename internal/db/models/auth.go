package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a local account that can log in with a username and password.
// Password holds the argon2id hash, never the plaintext.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NewUser carries the input for provisioning a user. Password is plaintext
// and is hashed before it reaches the store.
type NewUser struct {
	Username string
	Password string
}

// Role is reference data identified by its short code (admin, editor, viewer).
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Code      string    `bun:"code,notnull,unique" json:"code"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// UserRole links a user to a role. The (user_id, role_id) pair is the key.
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	UserID int64 `bun:"user_id,pk"`
	RoleID int64 `bun:"role_id,pk"`
}

// UserWithRoles is a read model used by the users list command.
type UserWithRoles struct {
	User  User
	Roles []Role
}
