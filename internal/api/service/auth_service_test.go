package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohith2506/wbso-time-tracker/internal/config"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

func newTestAuthService(userRepo *MockUserRepository) AuthService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAuthService(logger, userRepo, &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:              "Dev@Example.com",
		Password:           "correct horse battery staple",
		ProjectName:        "Adaptive Routing Research",
		ApplicationNumber:  "WBSO-2024-00123",
		ProjectStartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ProjectEndDate:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		ApprovedCentiHours: 80000,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "dev@example.com").Return(nil, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Email == "dev@example.com" && u.PasswordHash != "" && u.ApprovedCentiHours == 80000
		})).Return(nil).Once()

		u, token, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "dev@example.com", u.Email, "email is normalized to lower case")
		assert.NotEmpty(t, token)

		// The stored hash must verify against the original password
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse battery staple")))

		// The token subject must carry the user ID
		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		subject, err := parsed.Claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), subject)

		userRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo)

		existing := &user.User{ID: uuid.New(), Email: "dev@example.com"}
		userRepo.On("GetByEmail", ctx, "dev@example.com").Return(existing, nil).Once()

		u, token, err := svc.Register(ctx, validRegisterInput())
		assert.Nil(t, u)
		assert.Empty(t, token)
		var dupErr user.ErrDuplicateEmail
		assert.ErrorAs(t, err, &dupErr)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery staple"), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := &user.User{
		ID:           uuid.New(),
		Email:        "dev@example.com",
		PasswordHash: string(passwordHash),
	}

	t.Run("valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "dev@example.com").Return(storedUser, nil).Once()

		u, token, err := svc.Login(ctx, "dev@example.com", "correct horse battery staple")
		require.NoError(t, err)
		assert.Equal(t, storedUser, u)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "dev@example.com").Return(storedUser, nil).Once()

		u, token, err := svc.Login(ctx, "dev@example.com", "wrong")
		assert.Nil(t, u)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil).Once()

		u, token, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.Nil(t, u)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo)

	id := uuid.New()
	userRepo.On("GetByID", ctx, id).Return(nil, user.ErrUserNotFound{UserID: id}).Once()

	u, err := svc.GetUserByID(ctx, id)
	assert.Nil(t, u)
	var notFoundErr user.ErrUserNotFound
	assert.ErrorAs(t, err, &notFoundErr)
}
