package iam

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

// Login implements Service.
//
// Steps run strictly in order; no session is written before the password
// has been verified.
func (s *iamService) Login(ctx context.Context, username, password string) (token string, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "iam.Login",
		attribute.String(telemetry.AttrUsername, username),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordAuth(ctx, "password", err == nil, sinceMs(start))
		if err != nil && !errors.Is(err, ErrInvalidCredentials) {
			telemetry.RecordError(span, err)
		}
	}()

	// Step 1: look the user up by name
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same argon2 work as a real mismatch.
			if dummy := s.unknownUserHash(); dummy != "" {
				_, _ = auth.VerifyPassword(password, dummy)
			}
			telemetry.AddEvent(span, "login.unknown_user")
			return "", ErrInvalidCredentials
		}
		log.WithError(err).Error("login: load user")
		return "", fmt.Errorf("%w: load user: %w", ErrInternal, err)
	}

	// Step 2: verify the password against the stored hash
	ok, err := auth.VerifyPassword(password, user.Password)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("login: stored password hash is unreadable")
		return "", fmt.Errorf("%w: verify password: %w", ErrInternal, err)
	}
	if !ok {
		telemetry.AddEvent(span, "login.wrong_password")
		return "", ErrInvalidCredentials
	}

	// Step 3: mint a token
	token, err = s.generateToken()
	if err != nil {
		log.WithError(err).Error("login: generate token")
		return "", fmt.Errorf("%w: generate token: %w", ErrInternal, err)
	}

	// Step 4: store token -> user id with the session TTL
	if err := s.sessions.Set(ctx, token, user.ID, s.sessionTTL); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("login: store session")
		return "", fmt.Errorf("%w: store session: %w", ErrInternal, err)
	}

	span.SetAttributes(attribute.Int64(telemetry.AttrUserID, user.ID))
	log.WithField("user_id", user.ID).Debug("login succeeded")
	return token, nil
}
