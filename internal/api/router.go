package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"carwash-backend/config"
	"carwash-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. A nil limiter gets one
// built from cfg.
func NewRouter(h *Handler, cfg *config.ServerConfig, limiter *mw.IPRateLimiter, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Initialize middleware
	if limiter == nil {
		limiter = NewRateLimiter(cfg)
	}
	rateLimiter := mw.RateLimiter(limiter, log)

	// Outlet catalogue changes only when the server is re-seeded.
	caching := mw.NewResponseCache(cfg.CacheTTL).Handler()

	r.GET("/healthz", Healthz)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/outlets", caching, h.ListOutlets)
		api.GET("/outlets/:id", caching, h.GetOutlet)

		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.CreateVehicle)
		api.DELETE("/vehicles/:id", h.DeleteVehicle)

		api.GET("/wash-requests", h.ListWashRequests)
		api.POST("/wash-requests", h.CreateWashRequest)
		api.GET("/wash-requests/:id", h.GetWashRequest)
		api.POST("/wash-requests/:id/status", h.UpdateWashRequestStatus)
		api.POST("/wash-requests/:id/cancel", h.CancelWashRequest)
	}

	return r
}

// NewRateLimiter builds the per-IP limiter described by cfg.
func NewRateLimiter(cfg *config.ServerConfig) *mw.IPRateLimiter {
	return mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
}
