package source

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/userdir/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersBody = `{
  "users": [
    {"id": 1, "firstName": "Emily", "lastName": "Johnson", "maidenName": "Smith", "age": 28,
     "gender": "female", "email": "emily.johnson@x.dummyjson.com", "phone": "+81 965-431-3024",
     "address": {"address": "626 Main Street", "city": "Phoenix", "state": "Mississippi", "stateCode": "MS", "postalCode": "29112"}},
    {"id": 2, "firstName": "Michael", "lastName": "Williams", "maidenName": "", "age": 35,
     "gender": "male", "email": "michael.williams@x.dummyjson.com", "phone": "+49 258-627-6644",
     "address": {"address": "385 Fifth Street", "city": "Houston", "state": "Alabama", "stateCode": "AL", "postalCode": "38807"}}
  ],
  "total": 208, "skip": 0, "limit": 2
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:    srv.URL,
		LoginURL:   srv.URL + "/login",
		FetchLimit: 100,
		Timeout:    2 * time.Second,
	}, slog.Default())
}

func TestListUsers_Success(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(usersBody))
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Emily Smith Johnson", users[0].FullName())
	assert.Equal(t, "Mississippi", users[0].Address.State)
	assert.Equal(t, "Michael Williams", users[1].FullName())
	assert.Equal(t, 35, users[1].Age)
}

func TestListUsers_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	users, err := client.ListUsers(context.Background())

	assert.Nil(t, users)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestListUsers_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users": [`))
	})

	_, err := client.ListUsers(context.Background())

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestListUsers_DuplicateIDsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users": [{"id": 1}, {"id": 1}], "total": 2}`))
	})

	_, err := client.ListUsers(context.Background())

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestListUsers_EmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, slog.Default())

	_, err := client.ListUsers(context.Background())

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestGetUser_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/7", r.URL.Path)
		w.Write([]byte(`{"id": 7, "firstName": "Ava", "lastName": "Taylor", "university": "MIT",
			"bank": {"cardType": "Visa", "currency": "USD", "iban": "DE00"},
			"company": {"name": "Acme", "department": "Sales", "title": "Lead",
			            "address": {"city": "Denver", "state": "Colorado"}}}`))
	})

	user, err := client.GetUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "MIT", user.University)
	assert.Equal(t, "Visa", user.Bank.CardType)
	assert.Equal(t, "Acme", user.Company.Name)
	assert.Equal(t, "Colorado", user.Company.Address.State)
}

func TestGetUser_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	user, err := client.GetUser(context.Background(), 999)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)

		var body loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body.Email)
		assert.Equal(t, "pw", body.Password)

		w.Write([]byte(`{"data": {"name": "Ann", "email": "ann@example.com"}}`))
	})

	result, err := client.Login(context.Background(), "ann@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "Ann", result.Name)
	assert.Equal(t, "ann@example.com", result.Email)
}

func TestLogin_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	result, err := client.Login(context.Background(), "ann@example.com", "wrong")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
