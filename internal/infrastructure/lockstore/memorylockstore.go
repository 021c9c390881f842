package lockstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
)

// MemoryLockStore is a process-local LockStore for single-node setups and tests.
type MemoryLockStore struct {
	mu    sync.Mutex
	locks map[vo.Address]map[string]time.Time
	clock clock.Clock
}

func NewMemoryLockStore(clk clock.Clock) *MemoryLockStore {
	return &MemoryLockStore{
		locks: make(map[vo.Address]map[string]time.Time),
		clock: clk,
	}
}

func (s *MemoryLockStore) Read(_ context.Context, addr vo.Address) (*presale.Lock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *presale.Lock
	for owner, expireAt := range s.prune(addr) {
		if latest == nil || expireAt.After(latest.ExpireAt) {
			latest = &presale.Lock{Address: addr, Owner: owner, ExpireAt: expireAt}
		}
	}
	return latest, nil
}

func (s *MemoryLockStore) Write(_ context.Context, lock *presale.Lock) error {
	if lock == nil || lock.Owner == "" {
		return errors.New("lock owner cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owners := s.prune(lock.Address)
	if owners == nil {
		owners = make(map[string]time.Time)
		s.locks[lock.Address] = owners
	}
	owners[lock.Owner] = lock.ExpireAt
	return nil
}

func (s *MemoryLockStore) Owners(_ context.Context, addr vo.Address) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.prune(addr)
	owners := make([]string, 0, len(live))
	for owner := range live {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners, nil
}

// Ping always succeeds.
func (s *MemoryLockStore) Ping(context.Context) error {
	return nil
}

// prune drops expired owners of addr and returns what is left. Callers hold mu.
func (s *MemoryLockStore) prune(addr vo.Address) map[string]time.Time {
	owners, ok := s.locks[addr]
	if !ok {
		return nil
	}
	now := s.clock.Now()
	for owner, expireAt := range owners {
		if !now.Before(expireAt) {
			delete(owners, owner)
		}
	}
	if len(owners) == 0 {
		delete(s.locks, addr)
		return nil
	}
	return owners
}
