package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userdir/internal/auth"
	"github.com/BradenHooton/userdir/internal/directory"
	"github.com/BradenHooton/userdir/internal/models"
	"github.com/BradenHooton/userdir/internal/services"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParam sets a chi URL parameter on the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// WithSessionContext adds session claims to the request context
func WithSessionContext(req *http.Request, tokenID, email string) *http.Request {
	claims := &models.SessionClaims{Email: email}
	claims.ID = tokenID
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

type pageFunc func(ctx context.Context, id string) (*directory.VisiblePage, error)

// MockDirectoryService implements DirectoryService for testing
type MockDirectoryService struct {
	ActivateFunc       func(ctx context.Context) (*directory.VisiblePage, string, error)
	ReactivateFunc     pageFunc
	DeactivateFunc     func(ctx context.Context, id string) error
	PageFunc           pageFunc
	SubmitQueryFunc    func(ctx context.Context, id, query string) (*directory.VisiblePage, error)
	DraftQueryFunc     func(ctx context.Context, id, query string) error
	SetStateFilterFunc func(ctx context.Context, id, state string) (*directory.VisiblePage, error)
	ResetFiltersFunc   pageFunc
	ToggleSortFunc     func(ctx context.Context, id, key string) (*directory.VisiblePage, error)
	SetSortFunc        func(ctx context.Context, id, key, dir string) (*directory.VisiblePage, error)
	GoToPageFunc       func(ctx context.Context, id string, n int) (*directory.VisiblePage, error)
	NextPageFunc       pageFunc
	PrevPageFunc       pageFunc
	SetModeFunc        func(ctx context.Context, id, mode string) (*directory.VisiblePage, error)
	StatesFunc         func(ctx context.Context, id string) ([]string, error)
}

func callPage(f pageFunc, ctx context.Context, id string) (*directory.VisiblePage, error) {
	if f == nil {
		return nil, models.ErrViewNotFound
	}
	return f(ctx, id)
}

func (m *MockDirectoryService) Activate(ctx context.Context) (*directory.VisiblePage, string, error) {
	if m.ActivateFunc == nil {
		return nil, "", models.ErrInternalServer
	}
	return m.ActivateFunc(ctx)
}

func (m *MockDirectoryService) Reactivate(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return callPage(m.ReactivateFunc, ctx, id)
}

func (m *MockDirectoryService) Deactivate(ctx context.Context, id string) error {
	if m.DeactivateFunc == nil {
		return models.ErrViewNotFound
	}
	return m.DeactivateFunc(ctx, id)
}

func (m *MockDirectoryService) Page(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return callPage(m.PageFunc, ctx, id)
}

func (m *MockDirectoryService) SubmitQuery(ctx context.Context, id, query string) (*directory.VisiblePage, error) {
	if m.SubmitQueryFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.SubmitQueryFunc(ctx, id, query)
}

func (m *MockDirectoryService) DraftQuery(ctx context.Context, id, query string) error {
	if m.DraftQueryFunc == nil {
		return models.ErrViewNotFound
	}
	return m.DraftQueryFunc(ctx, id, query)
}

func (m *MockDirectoryService) SetStateFilter(ctx context.Context, id, state string) (*directory.VisiblePage, error) {
	if m.SetStateFilterFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.SetStateFilterFunc(ctx, id, state)
}

func (m *MockDirectoryService) ResetFilters(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return callPage(m.ResetFiltersFunc, ctx, id)
}

func (m *MockDirectoryService) ToggleSort(ctx context.Context, id, key string) (*directory.VisiblePage, error) {
	if m.ToggleSortFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.ToggleSortFunc(ctx, id, key)
}

func (m *MockDirectoryService) SetSort(ctx context.Context, id, key, dir string) (*directory.VisiblePage, error) {
	if m.SetSortFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.SetSortFunc(ctx, id, key, dir)
}

func (m *MockDirectoryService) GoToPage(ctx context.Context, id string, n int) (*directory.VisiblePage, error) {
	if m.GoToPageFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.GoToPageFunc(ctx, id, n)
}

func (m *MockDirectoryService) NextPage(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return callPage(m.NextPageFunc, ctx, id)
}

func (m *MockDirectoryService) PrevPage(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return callPage(m.PrevPageFunc, ctx, id)
}

func (m *MockDirectoryService) SetMode(ctx context.Context, id, mode string) (*directory.VisiblePage, error) {
	if m.SetModeFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.SetModeFunc(ctx, id, mode)
}

func (m *MockDirectoryService) States(ctx context.Context, id string) ([]string, error) {
	if m.StatesFunc == nil {
		return nil, models.ErrViewNotFound
	}
	return m.StatesFunc(ctx, id)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserDetailFunc func(ctx context.Context, id int) (*models.UserDetail, error)
}

func (m *MockUserService) GetUserDetail(ctx context.Context, id int) (*models.UserDetail, error) {
	if m.GetUserDetailFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserDetailFunc(ctx, id)
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc   func(ctx context.Context, email, password, ipAddress, userAgent string) (*services.AuthResponse, error)
	SessionFunc func(ctx context.Context, claims *models.SessionClaims) (*services.SessionResponse, error)
	LogoutFunc  func(ctx context.Context, claims *models.SessionClaims) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password, ipAddress, userAgent)
}

func (m *MockAuthService) Session(ctx context.Context, claims *models.SessionClaims) (*services.SessionResponse, error) {
	if m.SessionFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.SessionFunc(ctx, claims)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *models.SessionClaims) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, claims)
}
