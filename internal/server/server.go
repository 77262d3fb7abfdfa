package server

import (
	"fmt"
	"net/http"
	"time"

	"ember-boutique/internal/affiliate"
	"ember-boutique/internal/catalog"
	"ember-boutique/internal/config"
	"ember-boutique/internal/geo"
	custommiddleware "ember-boutique/internal/middleware"
	"ember-boutique/internal/service"
	"ember-boutique/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, cat *catalog.Catalog, generator service.IdeaGenerator) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Shared collaborators
	links := affiliate.NewLinkBuilder(cfg.Affiliate.Tag)
	resolver := geo.NewResolver(cfg.Geo.Endpoint, cfg.Geo.DefaultCountry, cfg.GeoTimeout(), logger)

	// Initialize services
	ideaService := service.NewIdeaService(generator, logger)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(cat, links, resolver, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize, logger)
	ideaHandler := transport.NewIdeaHandler(ideaService, cat, links, resolver, logger)

	// Rate limit only the idea endpoint; it is the one expensive path.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.IdeaRequestsPerWindow,
		Window:            cfg.IdeaRateWindow(),
		KeyPrefix:         "idea_rate_limit",
	}, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	ideaHandler.RegisterRoutes(router, rateLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
