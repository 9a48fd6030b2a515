package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohith2506/wbso-time-tracker/internal/config"
	"github.com/rohith2506/wbso-time-tracker/internal/domain/user"
)

// ErrInvalidCredentials is returned for any login failure. The reason is
// deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	userRepo user.Repository
	authCfg  *config.AuthConfig
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(logger *slog.Logger, userRepo user.Repository, authCfg *config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		authCfg:  authCfg,
		logger:   logger,
	}
}

// Register creates a new user and returns it with a signed access token
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*user.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", user.ErrDuplicateEmail{Email: email}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u, err := user.New(
		email,
		string(passwordHash),
		input.ProjectName,
		input.ApplicationNumber,
		input.ProjectStartDate,
		input.ProjectEndDate,
		input.ApprovedCentiHours,
		now,
	)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.createToken(u.ID, now)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Registered new user", "user_id", u.ID.String(), "project", u.ProjectName)
	return u, token, nil
}

// Login verifies the credentials and returns the user with a signed access token
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.createToken(u.ID, time.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// createToken signs an HMAC access token whose subject is the user ID
func (s *AuthServiceImpl) createToken(userID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.authCfg.TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
