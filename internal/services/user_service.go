package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/userdir/internal/models"
)

// UserDetailSource fetches one user's detail record
type UserDetailSource interface {
	GetUser(ctx context.Context, id int) (*models.UserDetail, error)
}

// UserService serves the detail view reached from a directory row
type UserService struct {
	source UserDetailSource
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(source UserDetailSource, logger *slog.Logger) *UserService {
	return &UserService{
		source: source,
		logger: logger,
	}
}

// GetUserDetail fetches the detail record of a user. Every call goes to the source.
func (s *UserService) GetUserDetail(ctx context.Context, id int) (*models.UserDetail, error) {
	if id <= 0 {
		return nil, models.ErrBadRequest
	}

	user, err := s.source.GetUser(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			s.logger.Info("user not found", slog.Int("user_id", id))
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrSourceUnavailable):
			s.logger.Error("user source unavailable", slog.Int("user_id", id), slog.Any("error", err))
			return nil, models.ErrSourceUnavailable
		}
		s.logger.Error("failed to get user", slog.Int("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}
