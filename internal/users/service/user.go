package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"deskly/internal/users/repository"
	"deskly/internal/users/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
	"deskly/pkg/sanitizer"
	"deskly/pkg/sealer"

	usererrors "deskly/internal/users/errors"
)

type UserService interface {
	Register(ctx context.Context, user *model.User) error
	Login(ctx context.Context, creds *model.Credentials) (*model.Session, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	sealer    *sealer.Sealer
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	sealer *sealer.Sealer,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		sealer:    sealer,
		cfg:       cfg,
	}
}

func (s *userService) Register(ctx context.Context, user *model.User) error {
	user.ID = ""
	user.Name = sanitizer.NormalizeName(user.Name)
	user.Email = sanitizer.NormalizeEmail(user.Email)

	if err := s.validator.ValidateRegistration(user); err != nil {
		s.cfg.Log.Warn("User registration validation failed", "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = hash
	user.Password = ""

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, usererrors.ErrEmailTaken) {
			return apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)
	return nil
}

// Login verifies credentials and seals a session token. The same error is
// returned whether the email is unknown or the password wrong.
func (s *userService) Login(ctx context.Context, creds *model.Credentials) (*model.Session, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)

	if err := s.validator.ValidateCredentials(creds); err != nil {
		return nil, apperrors.Validation("Invalid credentials input", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user for login", "error", err)
		return nil, apperrors.Internal("Failed to authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	token, err := s.sealer.SealSession(user.ID, expiresAt)
	if err != nil {
		s.cfg.Log.Error("Failed to seal session token", "error", err)
		return nil, apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return &model.Session{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, usererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}
