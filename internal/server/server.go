package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
	"github.com/wayfinder-supply/wayfinder/internal/api/ws"
	"github.com/wayfinder-supply/wayfinder/internal/config"
	"github.com/wayfinder-supply/wayfinder/internal/credentials"
	"github.com/wayfinder-supply/wayfinder/internal/server/middleware"
	"github.com/wayfinder-supply/wayfinder/internal/store/postgres"
	redisstore "github.com/wayfinder-supply/wayfinder/internal/store/redis"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	sessions   *redisstore.Store
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(
	cfg *config.Config,
	store *postgres.Store,
	sessions *redisstore.Store,
	creds *credentials.Resolver,
	client *agent.Client,
	relay *agent.Relay,
	visionSvc *vision.Service,
) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	router.Use(middleware.APIKey(cfg.APIKey))

	hub := ws.NewHub(sessions)

	s := &Server{
		router:   router,
		store:    store,
		sessions: sessions,
		wsHub:    hub,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	baseCtx := context.Background()

	// Typed REST routes mounted on /api.
	router.Route("/api", func(r chi.Router) {
		// The chat relay stays off the typed API: its response is a
		// hand-pumped SSE stream. Rate limited per client IP because a
		// single stream holds an upstream agent turn open for minutes.
		chatHandler := v1.NewChatHandler(relay, cfg.Agent.DefaultAgentID, cfg.Agent.StreamTimeout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(baseCtx, cfg.Server.ChatRatePerSecond, cfg.Server.ChatBurst))
			r.Method(http.MethodPost, "/chat", chatHandler)
			r.Method(http.MethodGet, "/chat", chatHandler)
		})

		apiConfig := huma.DefaultConfig("Wayfinder API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, cfg, store, sessions, creds, client, visionSvc)
	})

	// Mock CRM and weather tools, exposed over JSON-RPC the way the demo's
	// agent tooling expects.
	router.Method(http.MethodPost, "/mcp", v1.NewMCPHandler())

	// WebSocket routes.
	router.Route("/ws", func(r chi.Router) {
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Serve the storefront SPA on all unmatched routes when the static
	// directory exists. Registered last so API/WS routes take priority.
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.NotFound(spaFileServer(os.DirFS(cfg.StaticDir)).ServeHTTP)
		log.Info().Str("dir", cfg.StaticDir).Msg("storefront UI enabled")
	}

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
