package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"deskly/internal/users/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/logger"
	"deskly/pkg/model"
	"deskly/pkg/sealer"

	usererrors "deskly/internal/users/errors"
)

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, usererrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, usererrors.ErrNotFound
}

func newTestSealer(t *testing.T) *sealer.Sealer {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	s, err := sealer.New(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("failed to build sealer: %v", err)
	}
	return s
}

func newTestService(t *testing.T, repo *mockUserRepository) (UserService, *sealer.Sealer) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		SessionTTL:   time.Hour,
	}
	s := newTestSealer(t)
	return NewUserService(repo, validator.NewUserValidator(log), s, cfg), s
}

func TestRegister_HashesPassword(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "507f1f77bcf86cd799439011"
			stored = user
			return nil
		},
	}
	svc, _ := newTestService(t, repo)

	user := &model.User{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "correct horse battery",
	}
	if err := svc.Register(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", stored.Email)
	}
	if stored.Password != "" {
		t.Error("plaintext password must be cleared before storage")
	}
	if err := bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("correct horse battery")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t, &mockUserRepository{})

	tests := []struct {
		name string
		user *model.User
	}{
		{"missing email", &model.User{Name: "Alice", Password: "longenough"}},
		{"bad email", &model.User{Name: "Alice", Email: "nope", Password: "longenough"}},
		{"short password", &model.User{Name: "Alice", Email: "a@b.com", Password: "short"}},
		{"missing password", &model.User{Name: "Alice", Email: "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.user)
			if !apperrors.HasCode(err, apperrors.CodeValidation) {
				t.Errorf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return usererrors.ErrEmailTaken
		},
	}
	svc, _ := newTestService(t, repo)

	err := svc.Register(context.Background(), &model.User{
		Name:     "Alice",
		Email:    "a@b.com",
		Password: "longenough",
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict, got: %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	known := &model.User{
		ID:           "507f1f77bcf86cd799439011",
		Name:         "Alice",
		Email:        "a@b.com",
		PasswordHash: hash,
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == known.Email {
				clone := *known
				return &clone, nil
			}
			return nil, usererrors.ErrNotFound
		},
	}
	svc, s := newTestService(t, repo)

	t.Run("valid credentials yield a working token", func(t *testing.T) {
		session, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "A@B.com",
			Password: "longenough",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		userID, expiresAt, err := s.OpenSession(session.Token)
		if err != nil {
			t.Fatalf("token does not open: %v", err)
		}
		if userID != known.ID {
			t.Errorf("token carries wrong user id: %s", userID)
		}
		if !expiresAt.After(time.Now()) {
			t.Error("token already expired")
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "a@b.com",
			Password: "wrong",
		})
		if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
			t.Errorf("expected unauthorized, got: %v", err)
		}
	})

	t.Run("unknown email gets the same rejection", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.Credentials{
			Email:    "nobody@b.com",
			Password: "longenough",
		})
		if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
			t.Errorf("expected unauthorized, got: %v", err)
		}
	})
}
