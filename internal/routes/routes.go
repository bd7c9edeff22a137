package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/userdir/internal/auth"
	"github.com/BradenHooton/userdir/internal/handlers"
	"github.com/BradenHooton/userdir/internal/middleware"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ViewCounter reports the number of live directory views
type ViewCounter interface {
	ActiveViews() int
}

// Pinger checks a backing store; nil when sessions are kept in memory
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	viewHandler *handlers.ViewHandler,
	userHandler *handlers.UserHandler,
	authHandler *handlers.AuthHandler,
	tokenManager *auth.TokenManager,
	sessions auth.SessionLookup,
	loginLimit middleware.RateLimitConfig,
) {
	// Directory views and user detail are public
	viewHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)

	router.With(middleware.RateLimitByIP(loginLimit)).Post("/auth/login", authHandler.Login)

	// Session routes - bearer token required
	router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(tokenManager, sessions))

		r.Get("/auth/session", authHandler.Session)
		r.Post("/auth/logout", authHandler.Logout)
	})
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	ActiveViews int    `json:"active_views"`
	Database    string `json:"database,omitempty"`
}

// HealthHandler reports liveness, the live view count and, when db is set, the database state
func HealthHandler(views ViewCounter, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "healthy", ActiveViews: views.ActiveViews()}

		if db == nil {
			pkghttp.WriteJSON(w, http.StatusOK, resp)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "down"
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}

		resp.Database = "up"
		pkghttp.WriteJSON(w, http.StatusOK, resp)
	}
}
