package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSessionLookup struct {
	GetFunc func(ctx context.Context, tokenID string) (*models.LoginSession, error)
}

func (m *mockSessionLookup) Get(ctx context.Context, tokenID string) (*models.LoginSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tokenID)
	}
	return nil, models.ErrNotFound
}

func storedSessions(ids ...string) *mockSessionLookup {
	return &mockSessionLookup{
		GetFunc: func(ctx context.Context, tokenID string) (*models.LoginSession, error) {
			for _, id := range ids {
				if id == tokenID {
					return &models.LoginSession{TokenID: id}, nil
				}
			}
			return nil, models.ErrNotFound
		},
	}
}

func serveWithSession(t *testing.T, tm *TokenManager, store SessionLookup, header string) (*httptest.ResponseRecorder, *models.SessionClaims) {
	t.Helper()
	var seen *models.SessionClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	SessionMiddleware(tm, store)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, claims, err := tm.Issue("Ann", "ann@example.com")
	require.NoError(t, err)

	rec, seen := serveWithSession(t, tm, storedSessions(claims.ID), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ann@example.com", seen.Email)
}

func TestSessionMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	rec, seen := serveWithSession(t, tm, storedSessions(), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionMiddleware_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	rec, _ := serveWithSession(t, tm, storedSessions(), "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddleware_LoggedOutToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue("Ann", "ann@example.com")
	require.NoError(t, err)

	rec, seen := serveWithSession(t, tm, storedSessions(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionMiddleware_StoreFailure(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue("Ann", "ann@example.com")
	require.NoError(t, err)
	store := &mockSessionLookup{
		GetFunc: func(ctx context.Context, tokenID string) (*models.LoginSession, error) {
			return nil, assert.AnError
		},
	}

	rec, _ := serveWithSession(t, tm, store, "Bearer "+token)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
