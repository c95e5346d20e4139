// Package server assembles the HTTP surface: Connect services, health and
// metrics behind a chi router.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/auth"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/middleware"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api/apiconnect"
)

// Options configures the router.
type Options struct {
	Splits      apiconnect.SplitServiceHandler
	Settlements apiconnect.SettlementServiceHandler

	// JWT enables bearer authentication on every RPC when non-nil.
	JWT *auth.JWTManager

	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter returns the application handler.
func NewRouter(opts Options) http.Handler {
	var interceptors []connect.Interceptor
	if opts.JWT != nil {
		interceptors = append(interceptors, middleware.RequireAuth(opts.JWT))
	}
	// Logging runs inside auth so it sees the member ID.
	interceptors = append(interceptors, middleware.LoggingInterceptor())
	handlerOpts := connect.WithInterceptors(interceptors...)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	splitPath, splitHandler := apiconnect.NewSplitServiceHandler(opts.Splits, handlerOpts)
	r.Handle(splitPath+"*", splitHandler)

	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(opts.Settlements, handlerOpts)
	r.Handle(settlementPath+"*", settlementHandler)

	return r
}

// requestLogger logs every HTTP request with its chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// cors adds CORS headers for browser access
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
