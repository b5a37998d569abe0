package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studyshare-platform/material-service/internal/auth"
	"github.com/studyshare-platform/material-service/internal/mailer"
	"github.com/studyshare-platform/material-service/internal/models"
	"github.com/studyshare-platform/material-service/internal/otp"
	"github.com/studyshare-platform/material-service/internal/repositories"
	"github.com/studyshare-platform/material-service/internal/validator"
)

type authService struct {
	repo       repositories.Repository
	ledger     *otp.Ledger
	tokens     *auth.TokenManager
	hasher     auth.PasswordHasher
	mail       mailer.Mailer
	adminEmail string
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewAuthService(
	repo repositories.Repository,
	ledger *otp.Ledger,
	tokens *auth.TokenManager,
	hasher auth.PasswordHasher,
	mail mailer.Mailer,
	adminEmail string,
	logger *slog.Logger,
	validator *validator.Validator,
) AuthService {
	return &authService{
		repo:       repo,
		ledger:     ledger,
		tokens:     tokens,
		hasher:     hasher,
		mail:       mail,
		adminEmail: adminEmail,
		logger:     logger,
		validator:  validator,
	}
}

func (s *authService) RequestRegistration(ctx context.Context, email string) error {
	if errs := s.validator.Validate(&models.SendOTPRequest{Email: email}); errs != nil {
		return NewValidationError(errs.Error())
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return NewStorageError("Failed to check registration status", err)
	}
	if exists {
		return ErrEmailTaken
	}

	code, err := s.ledger.Issue(ctx, email)
	if err != nil {
		return NewStorageError("Failed to issue verification code", err)
	}

	// Delivery failure does not invalidate the issued code; the user can
	// retry send-otp and get a fresh one.
	if err := s.mail.SendOTP(ctx, email, code); err != nil {
		s.logger.Warn("OTP mail dispatch failed", "email", email, "error", err)
	}

	s.logger.Info("Registration OTP issued", "email", email)
	return nil
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs.Error())
	}

	ok, err := s.ledger.Consume(ctx, req.Email, req.OTP)
	if err != nil {
		return nil, NewStorageError("Failed to verify code", err)
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	// The window between send-otp and register can admit another
	// registration for the same address, so uniqueness is re-checked here.
	// The database unique index remains the authoritative guard.
	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewStorageError("Failed to check registration status", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, NewStorageError("Failed to process credentials", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleForEmail(req.Email, s.adminEmail),
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, NewStorageError("Failed to create account", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	view := models.NewUserView(user)
	return &view, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs.Error())
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// same outcome as a wrong password, resisting enumeration
			return nil, ErrInvalidCredentials
		}
		return nil, NewStorageError("Failed to look up account", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, NewStorageError("Failed to issue session", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &models.LoginResponse{
		Token: token,
		User:  models.NewUserView(user),
	}, nil
}

func (s *authService) ResolveIdentity(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// the account behind a still-valid token is gone
			return nil, ErrInvalidToken
		}
		return nil, NewStorageError("Failed to look up account", err)
	}

	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, NewStorageError("Failed to list users", fmt.Errorf("list users: %w", err))
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, models.NewUserView(u))
	}
	return views, nil
}
