package iam

import (
	"errors"
	"sync"
	"time"

	"github.com/cr8s/cr8sapi/internal/auth"
	"github.com/cr8s/cr8sapi/internal/repository"
	"github.com/cr8s/cr8sapi/internal/sessions"
	"github.com/cr8s/cr8sapi/internal/telemetry"
)

const tracerName = "cr8sapi/services/iam"

// iamService implements the Service interface.
type iamService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	uow      repository.UnitOfWork
	sessions sessions.Store

	sessionTTL time.Duration
	metrics    *telemetry.AuthMetrics

	// Test seams for token minting and password hashing.
	generateToken func() (string, error)
	hashPassword  func(string) (string, error)

	// Hash verified against when the username is unknown, so both failure
	// paths cost one argon2 derivation.
	dummyHashOnce sync.Once
	dummyHash     string
}

// IAMServiceDependencies contains all dependencies for IAM service construction.
type IAMServiceDependencies struct {
	Users      repository.UserRepository
	Roles      repository.RoleRepository
	UnitOfWork repository.UnitOfWork
	Sessions   sessions.Store

	// Optional; nil disables auth metrics.
	Metrics *telemetry.AuthMetrics
}

// IAMServiceConfig contains configuration for IAM service construction.
type IAMServiceConfig struct {
	// SessionTTL defaults to sessions.DefaultTTL when zero.
	SessionTTL time.Duration
}

// NewIAMService creates a new IAM service with all dependencies.
func NewIAMService(deps IAMServiceDependencies, cfg IAMServiceConfig) (Service, error) {
	switch {
	case deps.Users == nil:
		return nil, errors.New("iam service requires user repository")
	case deps.Roles == nil:
		return nil, errors.New("iam service requires role repository")
	case deps.UnitOfWork == nil:
		return nil, errors.New("iam service requires unit of work")
	case deps.Sessions == nil:
		return nil, errors.New("iam service requires session store")
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = sessions.DefaultTTL
	}

	return &iamService{
		users:         deps.Users,
		roles:         deps.Roles,
		uow:           deps.UnitOfWork,
		sessions:      deps.Sessions,
		sessionTTL:    ttl,
		metrics:       deps.Metrics,
		generateToken: auth.GenerateToken,
		hashPassword:  auth.HashPassword,
	}, nil
}

func (s *iamService) unknownUserHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hashPassword("cr8s-unknown-user")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
