package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/userdir/internal/auth"
	"github.com/BradenHooton/userdir/internal/models"
	"github.com/BradenHooton/userdir/internal/source"
	pkglogger "github.com/BradenHooton/userdir/pkg/logger"
)

// LoginClient forwards credentials to the login endpoint
type LoginClient interface {
	Login(ctx context.Context, email, password string) (*source.LoginResult, error)
}

// TokenStore persists issued session tokens
type TokenStore interface {
	Save(ctx context.Context, session *models.LoginSession) error
	Get(ctx context.Context, tokenID string) (*models.LoginSession, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthService handles the mock login flow
type AuthService struct {
	client LoginClient
	store  TokenStore
	tm     *auth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(client LoginClient, store TokenStore, tm *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		client: client,
		store:  store,
		tm:     tm,
		logger: logger,
	}
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

// SessionResponse describes the current session
type SessionResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
}

// Login forwards the credentials, then issues a session token and stores it once
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)

	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			s.logger.Info("login rejected",
				slog.String("email", pkglogger.SanitizedEmail(email)),
				slog.String("ip_address", ipAddress),
			)
			return nil, models.ErrUnauthorized
		case errors.Is(err, models.ErrSourceUnavailable):
			s.logger.Error("login endpoint unavailable", slog.Any("error", err))
			return nil, models.ErrSourceUnavailable
		}
		s.logger.Error("login failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, claims, err := s.tm.Issue(result.Name, result.Email)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	session := &models.LoginSession{
		TokenID:   claims.ID,
		Name:      result.Name,
		Email:     result.Email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("failed to store session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login succeeded",
		slog.String("email", pkglogger.SanitizedEmail(result.Email)),
		slog.String("ip_address", ipAddress),
	)

	return &AuthResponse{
		Token:     token,
		Name:      result.Name,
		Email:     result.Email,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Session returns the stored session for validated claims
func (s *AuthService) Session(ctx context.Context, claims *models.SessionClaims) (*SessionResponse, error) {
	if claims == nil {
		return nil, models.ErrUnauthorized
	}

	session, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &SessionResponse{
		Name:      session.Name,
		Email:     session.Email,
		IssuedAt:  session.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Logout removes the stored session so the token is no longer accepted
func (s *AuthService) Logout(ctx context.Context, claims *models.SessionClaims) error {
	if claims == nil {
		return models.ErrUnauthorized
	}

	if err := s.store.Delete(ctx, claims.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		s.logger.Error("failed to delete session", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("logout", slog.String("email", pkglogger.SanitizedEmail(claims.Email)))
	return nil
}

// PurgeExpiredSessions removes expired sessions from the store
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to purge expired sessions", slog.Any("error", err))
		return 0, models.ErrInternalServer
	}
	return n, nil
}
