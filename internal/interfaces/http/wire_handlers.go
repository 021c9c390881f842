package http

import (
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/handlers"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/middleware"
)

func (c *Container) initHandlers() {
	c.presaleHandler = handlers.NewPresaleHandler(
		c.ucs.deposit,
		c.ucs.checkLock,
		c.ucs.dispatcher,
		c.log.Named("presale_handler"),
	)
	c.healthHandler = handlers.NewHealthHandler(c.store, c.log)

	// The rate limit counters live in Redis; without it the limiter stays off.
	if c.redis != nil && c.cfg.RateLimit.Requests > 0 {
		c.rateLimiter = middleware.NewRateLimiter(c.redis, c.cfg.RateLimit.Requests, c.cfg.RateLimit.Window(), c.log)
	}
}
