package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/saravana-agencies/billing-sync/internal/config"
	"github.com/saravana-agencies/billing-sync/internal/database"
	"github.com/saravana-agencies/billing-sync/internal/http/handler"
	"github.com/saravana-agencies/billing-sync/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	redisClient     *redis.Client
	rateLimiter     *middleware.RateLimiter
	customerHandler *handler.CustomerHandler
	itemHandler     *handler.ItemHandler
	streetHandler   *handler.StreetHandler
	invoiceHandler  *handler.InvoiceHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	itemHandler *handler.ItemHandler,
	streetHandler *handler.StreetHandler,
	invoiceHandler *handler.InvoiceHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		redisClient:     redisClient,
		rateLimiter:     rateLimiter,
		customerHandler: customerHandler,
		itemHandler:     itemHandler,
		streetHandler:   streetHandler,
		invoiceHandler:  invoiceHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Combined readiness check (database plus the change feed)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		healthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
			healthy = false
		} else {
			checks["database"] = map[string]string{"status": "healthy"}
		}

		if rt.redisClient != nil {
			if err := rt.redisClient.Ping(r.Context()).Err(); err != nil {
				checks["redis"] = map[string]string{"status": "unhealthy", "error": err.Error()}
				healthy = false
			} else {
				checks["redis"] = map[string]string{"status": "healthy"}
			}
		}

		status := http.StatusOK
		overall := "healthy"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", rt.customerHandler.List)
			r.Post("/", rt.customerHandler.Create)
			r.Get("/autofill", rt.customerHandler.Autofill)
			r.Put("/{id}", rt.customerHandler.Update)
			r.Delete("/{id}", rt.customerHandler.Delete)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", rt.itemHandler.List)
			r.Post("/", rt.itemHandler.Create)
			r.Put("/{id}", rt.itemHandler.Update)
			r.Delete("/{id}", rt.itemHandler.Delete)
		})

		r.Route("/streets", func(r chi.Router) {
			r.Get("/", rt.streetHandler.List)
			r.Post("/", rt.streetHandler.Add)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", rt.invoiceHandler.List)
			r.Post("/", rt.invoiceHandler.Create)
			r.Get("/next-number", rt.invoiceHandler.NextNumber)
			r.Get("/streets", rt.invoiceHandler.StreetOptions)
			r.Post("/{number}/toggle-status", rt.invoiceHandler.ToggleStatus)
			r.Get("/{number}/print", rt.invoiceHandler.PrintView)
		})
	})

	return r
}
