package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bakery-api/internal/auth"
	"bakery-api/internal/config"
	"bakery-api/internal/database"
	custommiddleware "bakery-api/internal/middleware"
	"bakery-api/internal/repository"
	"bakery-api/internal/service"
	"bakery-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Repositories groups the stores the handlers are built on.
type Repositories struct {
	Users     repository.UserRepository
	Products  repository.ProductRepository
	Inventory repository.InventoryRepository
	Events    repository.EventRepository
}

// HealthChecker reports the status of a backing store.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Dependencies are constructed by the caller and owned by the Server once
// passed in. Database and Redis may be nil.
type Dependencies struct {
	Repositories Repositories
	Hasher       service.PasswordHasher
	Tokens       *auth.TokenIssuer
	Database     *database.Service
	Redis        *redis.Client
}

type Server struct {
	*http.Server
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		db:     deps.Database,
		redis:  deps.Redis,
	}
}

// NewRouter wires services and handlers onto a chi router.
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	var health HealthChecker
	if deps.Database != nil {
		health = deps.Database
	}
	router.Get("/health", healthHandler(health))

	repos := deps.Repositories

	// Initialize services
	userService := service.NewUserService(repos.Users, deps.Hasher, deps.Tokens)
	productService := service.NewProductService(repos.Products)
	inventoryService := service.NewInventoryService(repos.Inventory)
	eventService := service.NewEventService(repos.Events)

	authMiddleware := custommiddleware.AuthMiddleware(deps.Tokens, logger)

	// Registration and login are throttled per client when Redis is available.
	var public []func(http.Handler) http.Handler
	if deps.Redis != nil {
		public = append(public, custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:auth",
		}, logger))
	}

	// Register routes
	transport.NewUserHandler(userService, logger).RegisterRoutes(router, authMiddleware, public...)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewInventoryHandler(inventoryService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewEventHandler(eventService, logger).RegisterRoutes(router, authMiddleware)

	return router
}

func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			custommiddleware.RespondWithData(w, http.StatusOK, "", map[string]string{"status": "up"})
			return
		}

		stats := checker.Health(r.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithData(w, status, "", stats)
	}
}

// Close releases the database pool and the Redis client.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	_ = s.logger.Sync()
	return nil
}
