package lockstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
)

type store interface {
	presale.LockStore
	Ping(ctx context.Context) error
}

var testAddr = vo.MustAddress("0x5629227c1e2542dbc5aca0cecb7cd3e02c82ad0a")

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

// stores returns every implementation driven by the same manual clock. The
// clock starts at wall time so redis key expiry stays in the future.
func stores(t *testing.T) map[string]store {
	clk := clock.NewManual(time.Now().Truncate(time.Millisecond))
	client, _ := setupTestRedis(t)
	return map[string]store{
		"redis":  NewRedisLockStore(client, "presale:lock:", clk),
		"memory": NewMemoryLockStore(clk),
	}
}

func TestLockStore_ReadWrite(t *testing.T) {
	impls := stores(t)
	for name, s := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := clockOf(t, s)

			lock, err := s.Read(ctx, testAddr)
			require.NoError(t, err)
			assert.Nil(t, lock)

			expireAt := clk.Now().Add(5 * time.Minute)
			require.NoError(t, s.Write(ctx, &presale.Lock{Address: testAddr, Owner: "node-1:a", ExpireAt: expireAt}))

			lock, err = s.Read(ctx, testAddr)
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, "node-1:a", lock.Owner)
			assert.Equal(t, testAddr, lock.Address)
			assert.True(t, expireAt.Equal(lock.ExpireAt), "want %s got %s", expireAt, lock.ExpireAt)

			other, err := s.Read(ctx, vo.MustAddress("0x0000000000000000000000000000000000000001"))
			require.NoError(t, err)
			assert.Nil(t, other)

			assert.NoError(t, s.Ping(ctx))
		})
	}
}

func TestLockStore_Expiry(t *testing.T) {
	impls := stores(t)
	for name, s := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := clockOf(t, s)

			require.NoError(t, s.Write(ctx, &presale.Lock{Address: testAddr, Owner: "a", ExpireAt: clk.Now().Add(time.Minute)}))

			clk.Advance(59 * time.Second)
			lock, err := s.Read(ctx, testAddr)
			require.NoError(t, err)
			assert.NotNil(t, lock)

			clk.Advance(time.Second)
			lock, err = s.Read(ctx, testAddr)
			require.NoError(t, err)
			assert.Nil(t, lock, "a lock is expired at its expiry instant")

			owners, err := s.Owners(ctx, testAddr)
			require.NoError(t, err)
			assert.Empty(t, owners)
		})
	}
}

func TestLockStore_Owners(t *testing.T) {
	impls := stores(t)
	for name, s := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := clockOf(t, s)
			expireAt := clk.Now().Add(5 * time.Minute)

			require.NoError(t, s.Write(ctx, &presale.Lock{Address: testAddr, Owner: "a", ExpireAt: expireAt}))
			require.NoError(t, s.Write(ctx, &presale.Lock{Address: testAddr, Owner: "b", ExpireAt: expireAt.Add(time.Second)}))
			require.NoError(t, s.Write(ctx, &presale.Lock{Address: testAddr, Owner: "b", ExpireAt: expireAt.Add(time.Second)}))

			owners, err := s.Owners(ctx, testAddr)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b"}, owners, "owners are distinct")

			lock, err := s.Read(ctx, testAddr)
			require.NoError(t, err)
			assert.Equal(t, "b", lock.Owner, "read returns the latest expiry")
		})
	}
}

func TestLockStore_RejectsEmptyOwner(t *testing.T) {
	impls := stores(t)
	for name, s := range impls {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Write(context.Background(), &presale.Lock{Address: testAddr}))
		})
	}
}

func TestRedisLockStore_KeyLayout(t *testing.T) {
	client, mr := setupTestRedis(t)
	clk := clock.NewManual(time.Now().Truncate(time.Millisecond))
	s := NewRedisLockStore(client, "presale:lock:", clk)
	expireAt := clk.Now().Add(5 * time.Minute)

	require.NoError(t, s.Write(context.Background(), &presale.Lock{Address: testAddr, Owner: "a", ExpireAt: expireAt}))

	key := "presale:lock:" + testAddr.String()
	assert.True(t, mr.Exists(key))
	members, err := mr.ZMembers(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, members)
	score, err := mr.ZScore(key, "a")
	require.NoError(t, err)
	assert.Equal(t, float64(expireAt.UnixMilli()), score)
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestRedisLockStore_Unreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisLockStore(client, "presale:lock:", clock.System())
	mr.Close()

	_, err := s.Read(context.Background(), testAddr)
	assert.Error(t, err)
	assert.Error(t, s.Ping(context.Background()))
}

func clockOf(t *testing.T, s store) *clock.Manual {
	t.Helper()
	var c clock.Clock
	switch impl := s.(type) {
	case *RedisLockStore:
		c = impl.clock
	case *MemoryLockStore:
		c = impl.clock
	}
	manual, ok := c.(*clock.Manual)
	require.True(t, ok)
	return manual
}
