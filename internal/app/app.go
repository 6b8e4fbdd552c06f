package app

import (
	"log/slog"
	"os"
	"time"

	"github.com/jellypick/core/internal/config"
	http_init "github.com/jellypick/core/internal/delivery/http/init"
	http_jellyfin "github.com/jellypick/core/internal/delivery/http/jellyfin"
	"github.com/jellypick/core/internal/delivery/http/middleware/ratelimit"
	http_system "github.com/jellypick/core/internal/delivery/http/system"
	ws_lobby "github.com/jellypick/core/internal/delivery/ws/lobby"
	infra_jellyfin "github.com/jellypick/core/internal/infra/jellyfin"
	"github.com/jellypick/core/internal/metrics"
	storage_lobby "github.com/jellypick/core/internal/storage/lobby"
	storage_session "github.com/jellypick/core/internal/storage/session"
	usecase_catalog "github.com/jellypick/core/internal/usecase/catalog"
	usecase_coordinator "github.com/jellypick/core/internal/usecase/coordinator"
	usecase_lobby "github.com/jellypick/core/internal/usecase/lobby"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func Go(cfg *config.Config) {
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	lobbyStorage := storage_lobby.New()
	sessionStorage := storage_session.New()

	lobbyUC := usecase_lobby.New(lobbyStorage)
	votingUC := usecase_voting.New(sessionStorage, lobbyStorage)

	catalogCfg := infra_jellyfin.Config{
		Timeout:              cfg.Catalog.Timeout,
		PageLimit:            cfg.Catalog.PageLimit,
		AllowPrivateNetworks: cfg.Catalog.AllowPrivateNetworks,
	}
	catalogUC := usecase_catalog.New(
		infra_jellyfin.New(catalogCfg),
		usecase_catalog.WithMetrics(collector),
	)

	hub := ws_lobby.NewHub(
		ws_lobby.WithLogger(logger),
		ws_lobby.WithMetrics(collector),
	)

	coordinator := usecase_coordinator.New(
		lobbyUC,
		votingUC,
		hub,
		usecase_coordinator.WithLogger(logger),
		usecase_coordinator.WithMetrics(collector),
	)

	limiter := ratelimit.New(ratelimit.Config{
		Rate:            rate.Limit(float64(cfg.RateLimit.PerMinute) / 60.0),
		Burst:           cfg.RateLimit.Burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         10 * time.Minute,
	})
	defer limiter.Stop()

	pool := http_init.NewControllerPool(limiter.Middleware())
	pool.Add(http_system.New())
	pool.Add(http_jellyfin.New(
		infra_jellyfin.NewHTTPClient(catalogCfg),
		http_jellyfin.WithLogger(logger),
	))
	pool.Add(ws_lobby.NewController(
		hub,
		coordinator,
		catalogUC,
		cfg.WS.AllowedOrigins,
		ws_lobby.WithControllerLogger(logger),
	))
	pool.Mount("/metrics", gin.WrapH(metrics.Handler(registry)))

	pool.Register()
	pool.RunAll(cfg.HTTP.Host + ":" + cfg.HTTP.Port)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
