package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/auth"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/config"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/metrics"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/server"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/service"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/storage/sqlite"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/tagcolor"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/tripclient"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/logging"
)

// tokenDuration only matters for tokens minted locally; RPCs validate tokens
// issued upstream.
const tokenDuration = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Configuration loaded", "config", cfg)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath, sqlite.WithTagPicker(tagcolor.NewPicker(nil)))
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var trips tripclient.TripChecker = tripclient.AllowAll{}
	if cfg.TripServiceURL != "" {
		trips = tripclient.NewHTTPChecker(cfg.TripServiceURL, cfg.TripServiceTimeout)
		slog.Info("Trip validation enabled", "url", cfg.TripServiceURL)
	} else {
		slog.Warn("TRIP_SERVICE_URL not set, every trip ID is accepted")
	}

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	} else {
		slog.Warn("JWT_SECRET not set, RPCs are unauthenticated")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	router := server.NewRouter(server.Options{
		Splits:      service.NewSplitService(store, trips, m),
		Settlements: service.NewSettlementService(store, m),
		JWT:         jwtManager,
		Gatherer:    reg,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Connect server starting", "address", srv.Addr, "url", "http://localhost"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
