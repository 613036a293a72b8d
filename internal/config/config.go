package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stavrosdim/hooprank/internal/domain/roster"
	"github.com/stavrosdim/hooprank/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	CORSAllowedOrigins           []string
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	PprofEnabled                 bool
	PprofAddr                    string
	UptraceEnabled               bool
	UptraceDSN                   string
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	DunkestBaseURL               string
	DunkestToken                 string
	DunkestTimeout               time.Duration
	DunkestMaxRetries            int
	DunkestCircuitEnabled        bool
	DunkestCircuitFailureCount   int
	DunkestCircuitOpenTimeout    time.Duration
	DunkestCircuitHalfOpenMaxReq int
	Teams                        []roster.Team
	FetchWorkers                 int
	LogLevel                     logging.Level
}

// Load reads configuration from the environment. The Dunkest bearer
// token and team map are hard preconditions: without them no ranking
// run can start, so Load fails instead of deferring the error.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	dunkestTimeout, err := time.ParseDuration(getEnv("DUNKEST_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_TIMEOUT: %w", err)
	}
	if dunkestTimeout <= 0 {
		return Config{}, fmt.Errorf("DUNKEST_TIMEOUT must be > 0")
	}
	dunkestMaxRetries, err := getEnvAsInt("DUNKEST_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_MAX_RETRIES: %w", err)
	}
	if dunkestMaxRetries < 0 {
		return Config{}, fmt.Errorf("DUNKEST_MAX_RETRIES must be >= 0")
	}
	dunkestCircuitEnabled, err := strconv.ParseBool(getEnv("DUNKEST_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_CIRCUIT_ENABLED: %w", err)
	}
	dunkestCircuitFailureCount, err := getEnvAsInt("DUNKEST_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if dunkestCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("DUNKEST_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	dunkestCircuitOpenTimeout, err := time.ParseDuration(getEnv("DUNKEST_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if dunkestCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("DUNKEST_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	dunkestCircuitHalfOpenMaxReq, err := getEnvAsInt("DUNKEST_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if dunkestCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("DUNKEST_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	dunkestToken := strings.TrimSpace(getEnv("DUNKEST_TOKEN", ""))
	if dunkestToken == "" {
		return Config{}, fmt.Errorf("DUNKEST_TOKEN is required")
	}

	teams, err := parseTeamList(getEnv("DUNKEST_TEAM_MAP", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse DUNKEST_TEAM_MAP: %w", err)
	}
	if len(teams) == 0 {
		return Config{}, fmt.Errorf("DUNKEST_TEAM_MAP is required, expected name:id,name:id,...")
	}

	fetchWorkers, err := getEnvAsInt("RANK_FETCH_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANK_FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return Config{}, fmt.Errorf("RANK_FETCH_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "hooprank-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                  readTimeout,
		WriteTimeout:                 writeTimeout,
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CacheEnabled:                 cacheEnabled,
		CacheTTL:                     cacheTTL,
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
		DunkestBaseURL:               strings.TrimSpace(getEnv("DUNKEST_BASE_URL", "https://fantaking-api.dunkest.com/api/v1")),
		DunkestToken:                 dunkestToken,
		DunkestTimeout:               dunkestTimeout,
		DunkestMaxRetries:            dunkestMaxRetries,
		DunkestCircuitEnabled:        dunkestCircuitEnabled,
		DunkestCircuitFailureCount:   dunkestCircuitFailureCount,
		DunkestCircuitOpenTimeout:    dunkestCircuitOpenTimeout,
		DunkestCircuitHalfOpenMaxReq: dunkestCircuitHalfOpenMaxReq,
		Teams:                        teams,
		FetchWorkers:                 fetchWorkers,
		LogLevel:                     logLevel,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseTeamList parses "name:id,name:id,..." into an ordered team list.
// Order is preserved because it doubles as the ranking tie-break.
func parseTeamList(raw string) ([]roster.Team, error) {
	parts := strings.Split(raw, ",")
	out := make([]roster.Team, 0, len(parts))
	seenNames := make(map[string]struct{}, len(parts))
	seenIDs := make(map[int64]struct{}, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid team item %q, expected name:id", item)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(segments[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid team id in item %q: %w", item, err)
		}
		team := roster.Team{Name: strings.TrimSpace(segments[0]), ID: id}
		if err := team.Validate(); err != nil {
			return nil, fmt.Errorf("invalid team item %q: %w", item, err)
		}
		if _, exists := seenNames[team.Name]; exists {
			return nil, fmt.Errorf("duplicate team name %q", team.Name)
		}
		if _, exists := seenIDs[team.ID]; exists {
			return nil, fmt.Errorf("duplicate team id %d", team.ID)
		}
		seenNames[team.Name] = struct{}{}
		seenIDs[team.ID] = struct{}{}

		out = append(out, team)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
