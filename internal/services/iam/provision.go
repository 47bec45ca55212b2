package iam

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

// dedupeRoleCodes drops repeated codes and keeps first-seen order.
func dedupeRoleCodes(codes []auth.RoleCode) []string {
	seen := make(map[auth.RoleCode]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code.String())
	}
	return out
}

// CreateUserWithRoles implements Service.
//
// The password is hashed before the transaction opens so no connection is
// held during the argon2 derivation. Inside the transaction:
//  1. insert the user
//  2. stop here when no role codes were given
//  3. fetch the roles that already exist, in one query
//  4. insert the missing ones in one statement
//  5. insert one user_roles row per distinct role
//
// Two concurrent calls introducing the same new code race on roles.code; the
// loser fails with repository.ErrConflict and rolls back entirely.
func (s *iamService) CreateUserWithRoles(ctx context.Context, in models.NewUser, roleCodes []auth.RoleCode) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.CreateUserWithRoles",
		attribute.String(telemetry.AttrUsername, in.Username),
		attribute.StringSlice(telemetry.AttrRoleCodes, roleStrings(roleCodes)),
	)
	defer span.End()

	if strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	for _, code := range roleCodes {
		if !code.IsKnown() {
			return nil, fmt.Errorf("%w: unknown role code %q", ErrInvalidInput, code)
		}
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}

	codes := dedupeRoleCodes(roleCodes)
	user := &models.User{Username: in.Username, Password: hash}
	rolesCreated := 0

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}

		if len(codes) == 0 {
			return nil
		}

		existing, err := repos.Roles.FindByCodes(ctx, codes)
		if err != nil {
			return err
		}

		have := make(map[string]struct{}, len(existing))
		for _, role := range existing {
			have[role.Code] = struct{}{}
		}

		var missing []models.Role
		for _, code := range codes {
			if _, ok := have[code]; !ok {
				missing = append(missing, models.Role{Code: code, Name: code})
			}
		}

		created, err := repos.Roles.CreateMany(ctx, missing)
		if err != nil {
			return err
		}
		rolesCreated = len(created)

		links := make([]models.UserRole, 0, len(existing)+len(created))
		for _, role := range append(existing, created...) {
			links = append(links, models.UserRole{UserID: user.ID, RoleID: role.ID})
		}
		return repos.UserRoles.CreateMany(ctx, links)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create user %q: %w", in.Username, err)
	}

	span.SetAttributes(
		attribute.Int64(telemetry.AttrUserID, user.ID),
		attribute.Int(telemetry.AttrRolesCreated, rolesCreated),
	)
	log.WithFields(log.Fields{
		"user_id": user.ID,
		"roles":   codes,
	}).Info("user created")

	return user, nil
}

// DeleteUser implements Service.
func (s *iamService) DeleteUser(ctx context.Context, id int64) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.DeleteUser",
		attribute.Int64(telemetry.AttrUserID, id),
	)
	defer span.End()

	var deleted int64
	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.UserRoles.DeleteByUserID(ctx, id); err != nil {
			return err
		}

		n, err := repos.Users.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("delete user %d: %w", id, err)
	}

	span.SetAttributes(attribute.Int64(telemetry.AttrRowsDeleted, deleted))
	log.WithFields(log.Fields{
		"user_id": id,
		"deleted": deleted,
	}).Info("user deleted")

	return deleted, nil
}

// ListUsersWithRoles implements Service.
func (s *iamService) ListUsersWithRoles(ctx context.Context) ([]models.UserWithRoles, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.ListUsersWithRoles")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]models.UserWithRoles, 0, len(users))
	for _, user := range users {
		roles, err := s.roles.FindByUserID(ctx, user.ID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("list roles for user %d: %w", user.ID, err)
		}
		out = append(out, models.UserWithRoles{User: user, Roles: roles})
	}
	return out, nil
}
