package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DUNKEST_TOKEN", "token-123")
	t.Setenv("DUNKEST_TEAM_MAP", "Memos:1608378,Karpetis:1751027")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_TokenIsRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DUNKEST_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DUNKEST_TOKEN is missing")
	}
}

func TestLoad_TeamMapParsing(t *testing.T) {
	t.Run("preserves configured order", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "Memos:1608378, Karpetis:1751027 ,Thanasis:1751028")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.Teams) != 3 {
			t.Fatalf("unexpected team count: %d", len(cfg.Teams))
		}
		wantNames := []string{"Memos", "Karpetis", "Thanasis"}
		wantIDs := []int64{1608378, 1751027, 1751028}
		for i, team := range cfg.Teams {
			if team.Name != wantNames[i] || team.ID != wantIDs[i] {
				t.Fatalf("teams[%d] = %+v, want %s:%d", i, team, wantNames[i], wantIDs[i])
			}
		}
	})

	t.Run("missing map", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when DUNKEST_TEAM_MAP is missing")
		}
	})

	t.Run("invalid item", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "Memos")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for item without id")
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "Memos:1,Memos:2")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for duplicate team name")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "Memos:1,Karpetis:1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for duplicate team id")
		}
	})

	t.Run("non positive id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DUNKEST_TEAM_MAP", "Memos:0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for id <= 0")
		}
	})
}

func TestLoad_DunkestDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DunkestBaseURL != "https://fantaking-api.dunkest.com/api/v1" {
		t.Fatalf("unexpected base url: %q", cfg.DunkestBaseURL)
	}
	if cfg.DunkestTimeout != 20*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.DunkestTimeout)
	}
	if cfg.DunkestMaxRetries != 1 {
		t.Fatalf("unexpected max retries: %d", cfg.DunkestMaxRetries)
	}
	if !cfg.DunkestCircuitEnabled {
		t.Fatalf("expected circuit breaker enabled by default")
	}
	if cfg.FetchWorkers != 1 {
		t.Fatalf("unexpected default fetch workers: %d", cfg.FetchWorkers)
	}
}

func TestLoad_FetchWorkersValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RANK_FETCH_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for RANK_FETCH_WORKERS < 1")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "hooprank-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "hooprank-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Run("default wildcard", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Run("warn", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_LOG_LEVEL", "warn")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel.String() != "warn" {
			t.Fatalf("unexpected log level: %s", cfg.LogLevel)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_LOG_LEVEL", "loud")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid APP_LOG_LEVEL")
		}
	})
}
