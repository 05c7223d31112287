package server

import (
	"net/http"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/backend"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/handler"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/middleware"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/mock"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	client := backend.NewClient(cfg.UpstreamURL, time.Duration(cfg.UpstreamTimeoutSeconds)*time.Second)
	synth := mock.NewSynthesizer(cfg.UpstreamURL)
	proc := service.NewProcessor(client, synth, cfg.ProbeEnabled)

	log.Info().
		Str("upstream", cfg.UpstreamURL).
		Bool("probe_enabled", cfg.ProbeEnabled).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Msg("gateway configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	askH := handler.NewAskHandler(proc)
	healthH := handler.NewHealthHandler(client)

	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}
		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/ask", askH.Ask)
		})
	})

	return r, nil
}
