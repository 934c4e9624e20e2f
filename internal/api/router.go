package api

import (
	"swarm-duel/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains everything needed to construct the HTTP router.
// Designed for dependency injection: tests pass a registry and a
// NopBroadcaster and drive the router through httptest.
type RouterConfig struct {
	// Registry is the room registry (required).
	Registry *game.Registry

	// Broadcaster receives roster-change events triggered by HTTP intents.
	// If nil, events are discarded.
	Broadcaster game.Broadcaster

	// Hub, when set, mounts the WebSocket attach endpoint.
	Hub *Hub

	// RateLimiter is an optional pre-configured rate limiter. If nil, one
	// is created from RateLimitConfig (or defaults).
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only when RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the allowed CORS origins.
	CORSOrigins []string

	// DisableLogging drops the request logger middleware (for tests).
	DisableLogging bool
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// This function is pure: no goroutines, no listeners, no background work
// beyond the rate limiter's own cleanup. Safe under httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject abusers early
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	bc := cfg.Broadcaster
	if bc == nil {
		bc = game.NopBroadcaster{}
	}
	h := &routerHandlers{
		registry: cfg.Registry,
		bc:       bc,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/rooms", h.handleListRooms)
		r.Post("/rooms", h.handleCreateRoom)
		r.Post("/rooms/{code}/join", h.handleJoinRoom)
		r.Post("/rooms/{code}/restart", h.handleRestartMatch)
		r.Get("/rooms/{code}/state", h.handleGetState)
	})

	if cfg.Hub != nil {
		r.Get("/ws/{code}", cfg.Hub.HandleWebSocket)
	}

	return r
}
