package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/contractor-connect/internal/api/handlers"
	"github.com/hugh/contractor-connect/internal/api/middleware"
	"github.com/hugh/contractor-connect/internal/auth"
	"github.com/hugh/contractor-connect/internal/dashboard"
	"github.com/hugh/contractor-connect/internal/leads"
	"github.com/hugh/contractor-connect/internal/notifications"
	"github.com/hugh/contractor-connect/internal/notify"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	Gateway        notify.Dispatcher
	Limiter        middleware.Limiter // nil disables rate limiting
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.Limiter != nil {
		r.Use(middleware.RateLimit(cfg.Limiter, cfg.Logger))
	}

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize services
	authService := auth.NewService(cfg.DB, cfg.JWTService)
	notificationService := notifications.NewService(cfg.DB, cfg.Gateway, cfg.Logger)
	leadService := leads.NewService(cfg.DB, notificationService, cfg.Logger)
	dashboardService := dashboard.NewService(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(authService, cfg.Logger)
	leadHandler := handlers.NewLeadHandler(leadService, cfg.Logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, cfg.Logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", authHandler.Me)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadHandler.List)
				r.Post("/", leadHandler.Create)
				r.Get("/{id}", leadHandler.Get)
				r.Put("/{id}", leadHandler.Update)
				r.Delete("/{id}", leadHandler.Delete)
				r.Post("/{id}/notes", leadHandler.AddNote)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Post("/send", notificationHandler.Send)
			})

			r.Get("/dashboard", dashboardHandler.Summary)
		})
	})

	return &Router{r}
}
