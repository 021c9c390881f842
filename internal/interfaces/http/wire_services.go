package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mrc20-presale/presale-node/internal/application/presale/services"
	infraChain "github.com/mrc20-presale/presale-node/internal/infrastructure/chain"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/config"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/lockstore"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/metrics"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/registry"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.cfg
	log := c.log

	c.metrics = metrics.New()

	if c.registry == nil {
		reg, err := registry.LoadFile(cfg.Presale.RegistryPath)
		if err != nil {
			return err
		}
		c.registry = reg
	}
	log.Infow("presale registry loaded",
		"path", cfg.Presale.RegistryPath,
		"tokens", c.registry.TokenCount(),
		"allocations", c.registry.AllocationCount(),
	)

	switch cfg.Lock.Backend {
	case "redis":
		if c.redis == nil {
			client, err := initRedis(ctx, cfg, log)
			if err != nil {
				return err
			}
			c.redis = client
		}
		c.store = lockstore.NewRedisLockStore(c.redis, cfg.Lock.KeyPrefix, c.clock)
	default:
		log.Warnw("using in-memory lock store, locks are not shared with other nodes")
		c.store = lockstore.NewMemoryLockStore(c.clock)
	}

	if c.sources == nil {
		for _, chainCfg := range cfg.Chains {
			reader, closeFn, err := infraChain.Dial(ctx, chainCfg, log)
			if err != nil {
				return err
			}
			c.closers = append(c.closers, closeFn)
			c.sources = append(c.sources, reader)
		}
	}

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

func (c *Container) initServices() {
	cfg := c.cfg

	c.locks = services.NewLockService(c.store, c.clock, cfg.Lock.TTL(), nodeID(cfg), c.metrics, c.log.Named("lock"))
	c.aggregator = services.NewAggregator(c.sources, cfg.Presale.UserInfoIndex, c.metrics, c.log.Named("aggregator"))
}
