package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP_BlocksAfterLimit(t *testing.T) {
	handler := RateLimitByIP(LoginRateLimit(2, pkghttp.NewIPConfig(nil)))(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitByIP_SeparateClients(t *testing.T) {
	handler := RateLimitByIP(LoginRateLimit(1, pkghttp.NewIPConfig(nil)))(okHandler())

	for _, addr := range []string{"203.0.113.10:1", "203.0.113.11:1"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
}

func TestRateLimitByIP_SpoofedHeaderDoesNotEvade(t *testing.T) {
	handler := RateLimitByIP(LoginRateLimit(1, pkghttp.NewIPConfig(nil)))(okHandler())

	var last *httptest.ResponseRecorder
	for _, xff := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.10:1"
		req.Header.Set("X-Forwarded-For", xff)
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "application/json", last.Header().Get("Content-Type"))
}

func TestLoginRateLimit_DefaultsWhenUnset(t *testing.T) {
	cfg := LoginRateLimit(0, nil)

	assert.Equal(t, 5, cfg.RequestsPerMinute)
	assert.NotNil(t, cfg.KeyFunc)
}
