package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/userdir/internal/auth"
	"github.com/BradenHooton/userdir/internal/background"
	"github.com/BradenHooton/userdir/internal/config"
	"github.com/BradenHooton/userdir/internal/database"
	"github.com/BradenHooton/userdir/internal/directory"
	"github.com/BradenHooton/userdir/internal/handlers"
	middlewareCustom "github.com/BradenHooton/userdir/internal/middleware"
	"github.com/BradenHooton/userdir/internal/repositories"
	"github.com/BradenHooton/userdir/internal/routes"
	"github.com/BradenHooton/userdir/internal/services"
	"github.com/BradenHooton/userdir/internal/source"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("token_store", cfg.Session.TokenStore),
		slog.String("source", cfg.Source.BaseURL),
	)

	// Session token store
	var (
		tokenStore repositories.TokenStore
		db         *database.DB
	)
	switch cfg.Session.TokenStore {
	case config.TokenStorePostgres:
		db, err = database.NewConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
		tokenStore = repositories.NewPostgresTokenStore(db)
	default:
		tokenStore = repositories.NewMemoryTokenStore()
	}

	// Initialize repositories
	viewRepo, err := repositories.NewViewRepository()
	if err != nil {
		logger.Error("failed to create view store", slog.Any("error", err))
		os.Exit(1)
	}

	// Upstream users API
	client := source.NewClient(source.Config{
		BaseURL:    cfg.Source.BaseURL,
		LoginURL:   cfg.Source.LoginURL,
		FetchLimit: cfg.Source.FetchLimit,
		Timeout:    cfg.Source.Timeout,
	}, logger)

	tokenManager := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)

	// Initialize services
	mode, err := directory.ParseMode(cfg.View.DefaultMode)
	if err != nil {
		logger.Error("invalid default mode", slog.Any("error", err))
		os.Exit(1)
	}
	directoryService := services.NewDirectoryService(client, viewRepo, services.DirectoryConfig{
		PageSize:      cfg.View.PageSize(string(mode)),
		Mode:          mode,
		QueryDebounce: cfg.View.QueryDebounce,
		FetchTimeout:  cfg.Source.Timeout,
	}, logger)
	defer directoryService.Close()

	userService := services.NewUserService(client, logger)
	authService := services.NewAuthService(client, tokenStore, tokenManager, logger)

	// Initialize handlers
	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	viewHandler := handlers.NewViewHandler(directoryService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService, ipConfig)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.NewCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(
		router,
		viewHandler,
		userHandler,
		authHandler,
		tokenManager,
		tokenStore,
		middlewareCustom.LoginRateLimit(cfg.Server.LoginRateLimit, ipConfig),
	)

	var pinger routes.Pinger
	if db != nil {
		pinger = db
	}
	router.Get("/health", routes.HealthHandler(directoryService, pinger))

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupManager := background.NewCleanupManager(
		directoryService,
		authService,
		logger,
		cfg.View.CleanupInterval,
		cfg.View.IdleTTL,
	)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
