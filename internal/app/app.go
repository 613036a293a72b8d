package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stavrosdim/hooprank/external/dunkest"
	"github.com/stavrosdim/hooprank/internal/config"
	"github.com/stavrosdim/hooprank/internal/interfaces/httpapi"
	"github.com/stavrosdim/hooprank/internal/platform/cache"
	"github.com/stavrosdim/hooprank/internal/platform/logging"
	"github.com/stavrosdim/hooprank/internal/platform/resilience"
	"github.com/stavrosdim/hooprank/internal/usecase"
)

// NewRankingService wires the Dunkest client and the ranking usecase from
// runtime configuration.
func NewRankingService(cfg config.Config, logger *slog.Logger) *usecase.RankingService {
	zlog := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(zlog)

	client := dunkest.NewClient(dunkest.ClientConfig{
		BaseURL:    cfg.DunkestBaseURL,
		Token:      cfg.DunkestToken,
		Timeout:    cfg.DunkestTimeout,
		MaxRetries: cfg.DunkestMaxRetries,
		Logger:     zlog.With("component", "dunkest"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DunkestCircuitEnabled,
			FailureThreshold: cfg.DunkestCircuitFailureCount,
			OpenTimeout:      cfg.DunkestCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DunkestCircuitHalfOpenMaxReq,
		},
	})

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	return usecase.NewRankingService(client, usecase.RankingServiceConfig{
		Teams:      cfg.Teams,
		MaxWorkers: cfg.FetchWorkers,
	}, store, logger)
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	rankingSvc := NewRankingService(cfg, logger)

	handler := httpapi.NewHandler(rankingSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
