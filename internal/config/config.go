package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends
const (
	TokenStoreMemory   = "memory"
	TokenStorePostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Source   SourceConfig
	View     ViewConfig
	Session  SessionConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	LoginRateLimit int
}

// SourceConfig points at the upstream users API and mock login endpoint
type SourceConfig struct {
	BaseURL    string
	LoginURL   string
	FetchLimit int
	Timeout    time.Duration
}

// ViewConfig holds directory view defaults
type ViewConfig struct {
	TablePageSize   int
	GridPageSize    int
	DefaultMode     string
	QueryDebounce   time.Duration
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	TokenStore string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "userdir"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 1)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			LoginRateLimit: getEnvAsInt("LOGIN_RATE_LIMIT", 5),
		},
		Source: SourceConfig{
			BaseURL:    strings.TrimRight(getEnv("SOURCE_BASE_URL", "https://dummyjson.com"), "/"),
			LoginURL:   getEnv("SOURCE_LOGIN_URL", "https://run.mocky.io/v3/d43061f8-5c67-48e1-8ab2-68c6683bd243"),
			FetchLimit: getEnvAsInt("SOURCE_FETCH_LIMIT", 100),
			Timeout:    getEnvAsDuration("SOURCE_TIMEOUT", 10*time.Second),
		},
		View: ViewConfig{
			TablePageSize:   getEnvAsInt("VIEW_PAGE_SIZE_TABLE", 10),
			GridPageSize:    getEnvAsInt("VIEW_PAGE_SIZE_GRID", 12),
			DefaultMode:     strings.ToLower(getEnv("VIEW_DEFAULT_MODE", "table")),
			QueryDebounce:   getEnvAsDuration("QUERY_DEBOUNCE", 750*time.Millisecond),
			IdleTTL:         getEnvAsDuration("VIEW_IDLE_TTL", 30*time.Minute),
			CleanupInterval: getEnvAsDuration("CLEANUP_INTERVAL", 5*time.Minute),
		},
		Session: SessionConfig{
			Secret:     secret,
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			TokenStore: strings.ToLower(getEnv("TOKEN_STORE", TokenStoreMemory)),
		},
	}

	if err := validateSecret(secret, env); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.View.TablePageSize < 1 || c.View.GridPageSize < 1 {
		return fmt.Errorf("view page sizes must be positive")
	}
	if c.View.DefaultMode != "table" && c.View.DefaultMode != "grid" {
		return fmt.Errorf("VIEW_DEFAULT_MODE must be table or grid (got %q)", c.View.DefaultMode)
	}
	if c.View.QueryDebounce <= 0 {
		return fmt.Errorf("QUERY_DEBOUNCE must be positive")
	}
	if c.Source.FetchLimit < 0 {
		return fmt.Errorf("SOURCE_FETCH_LIMIT cannot be negative")
	}

	switch c.Session.TokenStore {
	case TokenStoreMemory:
	case TokenStorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when TOKEN_STORE=postgres")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be memory or postgres (got %q)", c.Session.TokenStore)
	}

	return nil
}

// PageSize returns the configured page size for a presentation mode
func (c *ViewConfig) PageSize(mode string) int {
	if mode == "grid" {
		return c.GridPageSize
	}
	return c.TablePageSize
}

// validateSecret enforces minimum strength for the session signing secret
func validateSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(s string) []string {
	if s == "" {
		return []string{}
	}
	items := strings.Split(s, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return parseList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
