package iam

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/db/models"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

func roleStrings(codes []auth.RoleCode) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = code.String()
	}
	return out
}

// Authorize implements Service.
func (s *iamService) Authorize(ctx context.Context, user *models.User, allowed ...auth.RoleCode) (au *auth.AuthorizedUser, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.Authorize",
		attribute.StringSlice(telemetry.AttrAllowedRoles, roleStrings(allowed)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		// A lookup failure is not an authorization decision.
		if err == nil || errors.Is(err, ErrForbidden) {
			s.metrics.RecordAuth(ctx, "role", err == nil, sinceMs(start))
		}
	}()

	if user == nil {
		return nil, ErrUnauthenticated
	}
	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, user.ID))

	roles, err := s.roles.FindByUserID(ctx, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("authorize: load roles")
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: load roles: %w", ErrInternal, err)
	}

	held := make([]auth.RoleCode, 0, len(roles))
	for _, role := range roles {
		held = append(held, auth.RoleCode(role.Code))
	}
	span.SetAttributes(attribute.StringSlice(telemetry.AttrRoleCodes, roleStrings(held)))

	if !auth.HasAnyRole(held, allowed) {
		span.SetAttributes(attribute.Bool(telemetry.AttrAuthzAllowed, false))
		return nil, ErrForbidden
	}

	span.SetAttributes(attribute.Bool(telemetry.AttrAuthzAllowed, true))
	return &auth.AuthorizedUser{User: user, Roles: held}, nil
}
