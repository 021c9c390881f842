package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/interfaces/http/handlers"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/middleware"
)

// PresaleRouteConfig holds dependencies for presale routes.
type PresaleRouteConfig struct {
	PresaleHandler *handlers.PresaleHandler
	// RateLimiter guards the routes that take a deposit lock. Nil disables it.
	RateLimiter *middleware.RateLimiter
}

// SetupPresaleRoutes configures presale routes.
func SetupPresaleRoutes(engine *gin.Engine, cfg *PresaleRouteConfig) {
	presaleGroup := engine.Group("/v1/presale")
	{
		presaleGroup.GET("/locks/:address", cfg.PresaleHandler.CheckLock)
		presaleGroup.POST("/hash", cfg.PresaleHandler.Hash)

		mutating := presaleGroup.Group("")
		if cfg.RateLimiter != nil {
			mutating.Use(cfg.RateLimiter.Limit())
		}
		{
			mutating.POST("/deposit", cfg.PresaleHandler.Deposit)
			mutating.POST("/requests", cfg.PresaleHandler.Dispatch)
		}
	}
}
