package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studyshare-platform/material-service/internal/auth"
	"github.com/studyshare-platform/material-service/internal/mailer"
	"github.com/studyshare-platform/material-service/internal/otp"
	"github.com/studyshare-platform/material-service/internal/repositories"
	"github.com/studyshare-platform/material-service/internal/storage"
	"github.com/studyshare-platform/material-service/internal/validator"
)

// ServiceManager provides access to all services and manages their lifecycle
type ServiceManager interface {
	Auth() AuthService
	Material() MaterialService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Dependencies holds everything the services are built from
type Dependencies struct {
	Repo       repositories.Repository
	Ledger     *otp.Ledger
	Tokens     *auth.TokenManager
	Hasher     auth.PasswordHasher
	Mailer     mailer.Mailer
	Blobs      storage.BlobStore
	AdminEmail string
	Logger     *slog.Logger
	Validator  *validator.Validator
}

type defaultServiceManager struct {
	deps Dependencies

	authService     AuthService
	materialService MaterialService
}

func NewDefaultServiceManager(deps Dependencies) ServiceManager {
	return &defaultServiceManager{deps: deps}
}

func (m *defaultServiceManager) Initialize(_ context.Context) error {
	if m.deps.Repo == nil {
		return fmt.Errorf("repository is required")
	}
	if m.deps.Ledger == nil {
		return fmt.Errorf("otp ledger is required")
	}
	if m.deps.Tokens == nil {
		return fmt.Errorf("token manager is required")
	}
	if m.deps.Blobs == nil {
		return fmt.Errorf("blob store is required")
	}

	m.authService = NewAuthService(
		m.deps.Repo,
		m.deps.Ledger,
		m.deps.Tokens,
		m.deps.Hasher,
		m.deps.Mailer,
		m.deps.AdminEmail,
		m.deps.Logger,
		m.deps.Validator,
	)
	m.materialService = NewMaterialService(
		m.deps.Repo,
		m.deps.Blobs,
		m.deps.Logger,
		m.deps.Validator,
	)

	return nil
}

func (m *defaultServiceManager) Auth() AuthService {
	return m.authService
}

func (m *defaultServiceManager) Material() MaterialService {
	return m.materialService
}

func (m *defaultServiceManager) HealthCheck(ctx context.Context) error {
	return m.deps.Repo.Ping(ctx)
}

func (m *defaultServiceManager) Shutdown(_ context.Context) error {
	return nil
}
