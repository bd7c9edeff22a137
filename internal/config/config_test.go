package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-32-characters-long!!"

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("SESSION_SECRET", testSecret)
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Source.BaseURL != "https://dummyjson.com" {
		t.Errorf("BaseURL: got %q", cfg.Source.BaseURL)
	}
	if cfg.Source.FetchLimit != 100 {
		t.Errorf("FetchLimit: got %d, want 100", cfg.Source.FetchLimit)
	}
	if cfg.View.TablePageSize != 10 {
		t.Errorf("TablePageSize: got %d, want 10", cfg.View.TablePageSize)
	}
	if cfg.View.DefaultMode != "table" {
		t.Errorf("DefaultMode: got %q, want table", cfg.View.DefaultMode)
	}
	if cfg.View.QueryDebounce != 750*time.Millisecond {
		t.Errorf("QueryDebounce: got %v, want 750ms", cfg.View.QueryDebounce)
	}
	if cfg.Session.TokenStore != TokenStoreMemory {
		t.Errorf("TokenStore: got %q, want memory", cfg.Session.TokenStore)
	}
}

func TestServerConfig_Timeouts_Defaults(t *testing.T) {
	os.Setenv("SESSION_SECRET", testSecret)
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   time.Duration
		expected time.Duration
	}{
		{"ReadTimeout", cfg.Server.ReadTimeout, 15 * time.Second},
		{"WriteTimeout", cfg.Server.WriteTimeout, 15 * time.Second},
		{"IdleTimeout", cfg.Server.IdleTimeout, 60 * time.Second},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}
}

func TestServerConfig_Timeouts_InvalidDuration(t *testing.T) {
	os.Setenv("SESSION_SECRET", testSecret)
	os.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	// Invalid duration should fall back to default
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout with invalid value: got %v, want %v", cfg.Server.ReadTimeout, 15*time.Second)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() without SESSION_SECRET should fail")
	}
}

func TestLoad_ShortSecretInProduction(t *testing.T) {
	os.Setenv("SESSION_SECRET", "only-twenty-chars!!!")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a 20 character secret in production should fail")
	}
}

func TestLoad_PostgresStoreRequiresPassword(t *testing.T) {
	os.Setenv("SESSION_SECRET", testSecret)
	os.Setenv("TOKEN_STORE", "postgres")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with TOKEN_STORE=postgres and no DB_PASSWORD should fail")
	}

	os.Setenv("DB_PASSWORD", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Session.TokenStore != TokenStorePostgres {
		t.Errorf("TokenStore: got %q, want postgres", cfg.Session.TokenStore)
	}
}

func TestLoad_InvalidViewSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown mode", "VIEW_DEFAULT_MODE", "cards"},
		{"zero page size", "VIEW_PAGE_SIZE_TABLE", "0"},
		{"negative debounce", "QUERY_DEBOUNCE", "-1s"},
		{"unknown token store", "TOKEN_STORE", "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("SESSION_SECRET", testSecret)
			os.Setenv(tt.key, tt.val)
			defer os.Clearenv()

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

func TestViewConfig_PageSize(t *testing.T) {
	v := ViewConfig{TablePageSize: 10, GridPageSize: 12}

	if got := v.PageSize("grid"); got != 12 {
		t.Errorf("grid: got %d, want 12", got)
	}
	if got := v.PageSize("table"); got != 10 {
		t.Errorf("table: got %d, want 10", got)
	}
}

func TestParseList(t *testing.T) {
	got := parseList(" 10.0.0.0/8, ,127.0.0.1/32 ")
	if len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "127.0.0.1/32" {
		t.Errorf("parseList: got %v", got)
	}
}
