// Package lockstore implements the node memory behind the per-address deposit lock.
package lockstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
)

// RedisLockStore keeps one sorted set per address. Each member is a lock owner
// scored by its expiry in unix milliseconds, so distinct-owner reads are a
// single range query. Expired members are pruned before every read.
type RedisLockStore struct {
	client *redis.Client
	prefix string // Key prefix, e.g., "presale:lock:"
	clock  clock.Clock
}

func NewRedisLockStore(client *redis.Client, prefix string, clk clock.Clock) *RedisLockStore {
	return &RedisLockStore{
		client: client,
		prefix: prefix,
		clock:  clk,
	}
}

// Read returns the unexpired lock with the latest expiry, or nil.
func (s *RedisLockStore) Read(ctx context.Context, addr vo.Address) (*presale.Lock, error) {
	key := s.buildKey(addr)

	var latest *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", s.nowScore())
		latest = pipe.ZRevRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read lock from redis: %w", err)
	}

	entries := latest.Val()
	if len(entries) == 0 {
		return nil, nil
	}
	owner, ok := entries[0].Member.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected lock member type %T", entries[0].Member)
	}
	return &presale.Lock{
		Address:  addr,
		Owner:    owner,
		ExpireAt: time.UnixMilli(int64(entries[0].Score)).UTC(),
	}, nil
}

// Write adds the lock and moves the key expiry to the lock's expiry. Every
// lock shares the service TTL, so the newest write carries the latest expiry.
func (s *RedisLockStore) Write(ctx context.Context, lock *presale.Lock) error {
	if lock == nil || lock.Owner == "" {
		return errors.New("lock owner cannot be empty")
	}
	key := s.buildKey(lock.Address)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", s.nowScore())
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(lock.ExpireAt.UnixMilli()),
			Member: lock.Owner,
		})
		pipe.PExpireAt(ctx, key, lock.ExpireAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write lock to redis: %w", err)
	}
	return nil
}

// Owners returns the distinct owners of unexpired locks for addr.
func (s *RedisLockStore) Owners(ctx context.Context, addr vo.Address) ([]string, error) {
	key := s.buildKey(addr)

	var members *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", s.nowScore())
		members = pipe.ZRange(ctx, key, 0, -1)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read lock owners from redis: %w", err)
	}
	return members.Val(), nil
}

// Ping reports whether redis is reachable.
func (s *RedisLockStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// nowScore is the inclusive upper bound of expired scores.
func (s *RedisLockStore) nowScore() string {
	return strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
}

// buildKey constructs the full Redis key with prefix
func (s *RedisLockStore) buildKey(addr vo.Address) string {
	return s.prefix + addr.String()
}
