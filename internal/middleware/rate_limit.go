package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	// KeyFunc identifies the caller; defaults to the real client IP
	KeyFunc httprate.KeyFunc
}

// LoginRateLimit returns the limit applied to POST /auth/login
func LoginRateLimit(requestsPerMinute int, ipConfig *pkghttp.IPConfig) RateLimitConfig {
	if requestsPerMinute < 1 {
		requestsPerMinute = 5
	}
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyFunc:           ipConfig.KeyByClientIP,
	}
}

// RateLimitByIP creates a middleware that rate limits requests per caller
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	keyOpt := httprate.WithKeyByRealIP()
	if config.KeyFunc != nil {
		keyOpt = httprate.WithKeyFuncs(config.KeyFunc)
	}

	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		keyOpt,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests. Please try again later.")
		}),
	)
}
