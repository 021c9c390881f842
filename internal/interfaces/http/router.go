package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/interfaces/http/middleware"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Metrics(c.metrics))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	routes.SetupHealthRoutes(c.engine, &routes.HealthRouteConfig{
		HealthHandler:  c.healthHandler,
		MetricsHandler: c.metrics.Handler(),
	})

	routes.SetupPresaleRoutes(c.engine, &routes.PresaleRouteConfig{
		PresaleHandler: c.presaleHandler,
		RateLimiter:    c.rateLimiter,
	})
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Shutdown releases chain connections and the Redis client.
func (c *Container) Shutdown() {
	for _, closeFn := range c.closers {
		closeFn()
	}
	c.closers = nil

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}
