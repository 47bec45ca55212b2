package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Rustacean is a crate owner.
type Rustacean struct {
	bun.BaseModel `bun:"table:rustaceans,alias:rs"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NewRustacean is the create payload for a rustacean.
type NewRustacean struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateRustacean is the update payload for a rustacean.
type UpdateRustacean struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Crate is a published package owned by a rustacean.
type Crate struct {
	bun.BaseModel `bun:"table:crates,alias:c"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	RustaceanID int64     `bun:"rustacean_id,notnull" json:"rustacean_id"`
	Code        string    `bun:"code,notnull" json:"code"`
	Name        string    `bun:"name,notnull" json:"name"`
	Version     string    `bun:"version,notnull" json:"version"`
	Description *string   `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// NewCrate is the create payload for a crate.
type NewCrate struct {
	RustaceanID int64   `json:"rustacean_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description *string `json:"description"`
}

// UpdateCrate is the update payload for a crate.
type UpdateCrate struct {
	RustaceanID int64   `json:"rustacean_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description *string `json:"description"`
}

// ErrInvalidPayload is returned by the Validate methods of request payloads.
var ErrInvalidPayload = errors.New("invalid payload")

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidPayload, name)
		}
	}
	return nil
}

func (in NewRustacean) Validate() error {
	return requireFields(map[string]string{"name": in.Name, "email": in.Email})
}

func (in UpdateRustacean) Validate() error {
	return requireFields(map[string]string{"name": in.Name, "email": in.Email})
}

func validateCrate(rustaceanID int64, code, name, version string) error {
	if rustaceanID <= 0 {
		return fmt.Errorf("%w: rustacean_id must be positive", ErrInvalidPayload)
	}
	return requireFields(map[string]string{"code": code, "name": name, "version": version})
}

func (in NewCrate) Validate() error {
	return validateCrate(in.RustaceanID, in.Code, in.Name, in.Version)
}

func (in UpdateCrate) Validate() error {
	return validateCrate(in.RustaceanID, in.Code, in.Name, in.Version)
}
