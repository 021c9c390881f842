package http

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mrc20-presale/presale-node/internal/application/presale/chain"
	"github.com/mrc20-presale/presale-node/internal/application/presale/services"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/config"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/metrics"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/handlers"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/middleware"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

// lockStore is the node memory behind the deposit lock, plus a readiness probe.
type lockStore interface {
	presale.LockStore
	Ping(ctx context.Context) error
}

// Overrides replace components the container would otherwise build from
// configuration. Zero fields are built normally.
type Overrides struct {
	Clock    clock.Clock
	Redis    *redis.Client
	Registry *presale.Registry
	Sources  []chain.BalanceSource
}

// Container holds all infrastructure components, services, use cases and
// handlers of a node and wires them together. Shutdown releases chain
// connections and the Redis client.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	clock  clock.Clock
	redis  *redis.Client

	// Presale infrastructure
	metrics  *metrics.Metrics
	registry *presale.Registry
	schedule presale.Schedule
	store    lockStore
	sources  []chain.BalanceSource
	closers  []func()

	// Services
	locks      *services.LockService
	aggregator *services.Aggregator

	// Use cases
	ucs *presaleUseCases

	// Handlers and middlewares
	presaleHandler *handlers.PresaleHandler
	healthHandler  *handlers.HealthHandler
	rateLimiter    *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together. On
// error everything opened so far is released.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.Interface, overrides Overrides) (*Container, error) {
	c := &Container{
		engine:   gin.New(),
		cfg:      cfg,
		log:      log,
		clock:    overrides.Clock,
		redis:    overrides.Redis,
		registry: overrides.Registry,
		sources:  overrides.Sources,
		schedule: presale.NewSchedule(cfg.Presale.StartTime),
	}
	if c.clock == nil {
		c.clock = clock.System()
	}

	// Section 1: Infrastructure - Redis, lock store, registry, chain readers, metrics
	if err := c.initInfrastructure(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Services - deposit lock, cross-chain aggregation
	c.initServices()

	// Section 3: Use cases - deposit, checkLock, hashing, dispatch
	if err := c.initUseCases(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 4: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

func nodeID(cfg *config.Config) string {
	if cfg.Lock.NodeID != "" {
		return cfg.Lock.NodeID
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "presale-node"
}
