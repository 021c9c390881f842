package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/interfaces/http/handlers"
)

// HealthRouteConfig holds dependencies for probe and metrics routes.
type HealthRouteConfig struct {
	HealthHandler  *handlers.HealthHandler
	MetricsHandler http.Handler
}

// SetupHealthRoutes configures probe and metrics routes.
func SetupHealthRoutes(engine *gin.Engine, cfg *HealthRouteConfig) {
	engine.GET("/healthz", cfg.HealthHandler.Healthz)
	engine.GET("/readyz", cfg.HealthHandler.Readyz)
	engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
}
