package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/BradenHooton/userdir/internal/models"
	"github.com/BradenHooton/userdir/internal/source"
)

// MockUserSource implements UserSource and UserDetailSource for testing
type MockUserSource struct {
	ListUsersFunc func(ctx context.Context) ([]models.UserRecord, error)
	GetUserFunc   func(ctx context.Context, id int) (*models.UserDetail, error)
}

func (m *MockUserSource) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return []models.UserRecord{}, nil
}

func (m *MockUserSource) GetUser(ctx context.Context, id int) (*models.UserDetail, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockLoginClient implements LoginClient for testing
type MockLoginClient struct {
	LoginFunc func(ctx context.Context, email, password string) (*source.LoginResult, error)
}

func (m *MockLoginClient) Login(ctx context.Context, email, password string) (*source.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrUnauthorized
}

// MockTokenStore implements TokenStore for testing
type MockTokenStore struct {
	SaveFunc          func(ctx context.Context, session *models.LoginSession) error
	GetFunc           func(ctx context.Context, tokenID string) (*models.LoginSession, error)
	DeleteFunc        func(ctx context.Context, tokenID string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *MockTokenStore) Save(ctx context.Context, session *models.LoginSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	return nil
}

func (m *MockTokenStore) Get(ctx context.Context, tokenID string) (*models.LoginSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tokenID)
	}
	return nil, models.ErrNotFound
}

func (m *MockTokenStore) Delete(ctx context.Context, tokenID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tokenID)
	}
	return nil
}

func (m *MockTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// newTestLogger discards log output
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
