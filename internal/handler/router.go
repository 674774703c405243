package handler

import (
	"net/http"

	"github.com/dandantas/keepwarm/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	pingHandler   *PingHandler
	statusHandler *StatusHandler
	chartHandler  *ChartHandler
	healthHandler *HealthHandler
	assetHandler  *AssetHandler
	corsConfig    middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	pingHandler *PingHandler,
	statusHandler *StatusHandler,
	chartHandler *ChartHandler,
	healthHandler *HealthHandler,
	assetHandler *AssetHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		pingHandler:   pingHandler,
		statusHandler: statusHandler,
		chartHandler:  chartHandler,
		healthHandler: healthHandler,
		assetHandler:  assetHandler,
		corsConfig:    corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// API endpoints
	mux.HandleFunc("/api/ping-logs", rt.pingHandler.Logs)
	mux.HandleFunc("/api/manual-ping", rt.pingHandler.Manual)
	mux.HandleFunc("/api/status", rt.statusHandler.Status)
	mux.HandleFunc("/api/ping-chart.png", rt.chartHandler.Latency)

	// Everything else goes to the static asset host
	mux.Handle("/", rt.assetHandler)

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}
