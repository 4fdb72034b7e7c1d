package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/spendbook/internal/auth"
	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/models"
)

// AuthService registers users and issues session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	publisher     events.Publisher
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, publisher events.Publisher) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		publisher:     publisher,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	slog.Info("Register request received", "email", email)

	if email == "" || password == "" {
		return nil, ValidationError("email and password are required")
	}

	user, err := s.authenticator.Register(ctx, email, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, ConflictError("email already registered", err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, ValidationError(err.Error())
		}
		return nil, InternalError("failed to register user", err)
	}

	publish(ctx, s.publisher, events.UserRegistered, user.Email, 1, time.Now())
	slog.Info("User registered successfully", "email", user.Email)
	return user, nil
}

// Login authenticates a user and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	slog.Info("Login request received", "email", email)

	if email == "" || password == "" {
		return nil, "", ValidationError("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("Login failed", "email", email)
			return nil, "", AuthError(auth.ErrInvalidCredentials.Error(), err)
		}
		return nil, "", InternalError("failed to authenticate", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "email", user.Email, "error", err)
		return nil, "", InternalError("failed to generate token", err)
	}

	slog.Info("User logged in successfully", "email", user.Email)
	return user, token, nil
}

// TokenDuration is the lifetime of tokens issued by Login.
func (s *AuthService) TokenDuration() time.Duration {
	return s.jwtManager.TokenDuration()
}
