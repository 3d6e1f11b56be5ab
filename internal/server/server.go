// Package server assembles the HTTP API: routes, middleware, and the
// WebSocket endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/server/handler"
	"github.com/sntlabs/evetradetool/internal/server/middleware"
	"github.com/sntlabs/evetradetool/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// Per-client request limiting. Applied only when Limiter is non-nil and
	// RateLimitPerMin is positive.
	Limiter         domain.RateLimiter
	RateLimitPerMin int
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health   *handler.HealthHandler
	Market   *handler.MarketHandler
	Analysis *handler.AnalysisHandler
	Universe *handler.UniverseHandler
	Items    *handler.ItemHandler
}

// Server is the HTTP + WebSocket API server for the market analysis service.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth) and attaches the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// --- Register routes ---

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Market order endpoints.
	mux.HandleFunc("GET /api/market/orders", handlers.Market.GetRegionOrders)
	mux.HandleFunc("GET /api/market/orders/system", handlers.Market.GetSystemOrders)

	// Analysis endpoints.
	mux.HandleFunc("GET /api/market/analyze/{region_id}", handlers.Market.AnalyzeRegion)
	mux.HandleFunc("GET /api/analysis/recent", handlers.Analysis.ListRecent)
	mux.HandleFunc("GET /api/analysis/runs/{run_id}", handlers.Analysis.GetRun)

	// Universe metadata endpoints.
	mux.HandleFunc("GET /api/universe/regions", handlers.Universe.ListRegions)
	mux.HandleFunc("GET /api/universe/regions/{id}", handlers.Universe.GetRegion)
	mux.HandleFunc("GET /api/universe/systems", handlers.Universe.ListSystems)
	mux.HandleFunc("GET /api/universe/systems/{id}", handlers.Universe.GetSystem)
	mux.HandleFunc("GET /api/universe/search/{name}", handlers.Universe.Search)

	// Item metadata endpoints.
	mux.HandleFunc("GET /api/items", handlers.Items.ListItems)
	mux.HandleFunc("GET /api/items/{id}", handlers.Items.GetItem)
	mux.HandleFunc("GET /api/items/search/{name}", handlers.Items.SearchItems)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply per-client rate limiting when a limiter is wired.
	if cfg.Limiter != nil && cfg.RateLimitPerMin > 0 {
		h = middleware.RateLimit(cfg.Limiter, cfg.RateLimitPerMin, time.Minute)(h)
	}

	// Apply auth middleware (skips if APIKey is empty).
	h = middleware.Auth(cfg.APIKey)(h)

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
