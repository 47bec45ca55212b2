package iam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cr8s/cr8sapi/internal/db/models"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/sessions"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

const bearerScheme = "Bearer"

// parseBearer splits "Bearer <token>" on whitespace. Anything other than
// exactly two fields with the Bearer scheme first is rejected.
func parseBearer(authorization string) (string, bool) {
	fields := strings.Fields(authorization)
	if len(fields) != 2 || fields[0] != bearerScheme {
		return "", false
	}
	return fields[1], true
}

// ResolveBearer implements Service.
func (s *iamService) ResolveBearer(ctx context.Context, authorization string) (user *models.User, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.ResolveBearer")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordAuth(ctx, "bearer", err == nil, sinceMs(start))
	}()

	token, ok := parseBearer(authorization)
	if !ok {
		telemetry.AddEvent(span, "authentication.malformed_header")
		return nil, ErrUnauthenticated
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, sessions.ErrNotFound) {
			// Cache outages are reported to the caller as a plain miss.
			log.WithError(err).Warn("resolve bearer: session lookup failed")
			telemetry.RecordError(span, err)
		}
		telemetry.AddEvent(span, "authentication.no_session")
		return nil, ErrUnauthenticated
	}

	user, err = s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WithField("user_id", userID).Info("resolve bearer: session refers to a deleted user")
			telemetry.AddEvent(span, "authentication.orphaned_session",
				attribute.Int64(telemetry.AttrUserID, userID),
			)
			return nil, ErrUnauthenticated
		}
		log.WithError(err).WithField("user_id", userID).Error("resolve bearer: load user")
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: load user: %w", ErrInternal, err)
	}

	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, user.ID))
	return user, nil
}
