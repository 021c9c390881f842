package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

type mockLocker struct {
	TryAcquireFunc           func(ctx context.Context, addr vo.Address, day int) (*presale.Lock, error)
	ConfirmSoleOwnershipFunc func(ctx context.Context, addr vo.Address) error
	acquired                 int
}

func (m *mockLocker) TryAcquire(ctx context.Context, addr vo.Address, day int) (*presale.Lock, error) {
	m.acquired++
	if m.TryAcquireFunc != nil {
		return m.TryAcquireFunc(ctx, addr, day)
	}
	return &presale.Lock{Address: addr, Owner: "test", ExpireAt: time.Now().Add(presale.DefaultLockTTL)}, nil
}

func (m *mockLocker) ConfirmSoleOwnership(ctx context.Context, addr vo.Address) error {
	if m.ConfirmSoleOwnershipFunc != nil {
		return m.ConfirmSoleOwnershipFunc(ctx, addr)
	}
	return nil
}

type mockInspector struct {
	PeekFunc func(ctx context.Context, addr vo.Address) (*presale.Lock, error)
	ttl      time.Duration
}

func (m *mockInspector) Peek(ctx context.Context, addr vo.Address) (*presale.Lock, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, addr)
	}
	return nil, nil
}

func (m *mockInspector) TTL() time.Duration {
	if m.ttl == 0 {
		return presale.DefaultLockTTL
	}
	return m.ttl
}

type mockVerifier struct {
	VerifyFunc func(forAddress vo.Address, sig string) error
	calls      int
}

func (m *mockVerifier) Verify(forAddress vo.Address, sig string) error {
	m.calls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(forAddress, sig)
	}
	return nil
}

type mockFetcher struct {
	FetchAllFunc func(ctx context.Context, addr vo.Address) (presale.AggregatedBalances, error)
	chains       []uint64
	calls        int
}

func (m *mockFetcher) FetchAll(ctx context.Context, addr vo.Address) (presale.AggregatedBalances, error) {
	m.calls++
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx, addr)
	}
	return zeroBalances(m.chains...), nil
}

func (m *mockFetcher) HasChain(chainID uint64) bool {
	for _, c := range m.chains {
		if c == chainID {
			return true
		}
	}
	return false
}

type mockHasher struct {
	DigestFunc func(decision presale.DepositDecision) (common.Hash, error)
}

func (m *mockHasher) Digest(decision presale.DepositDecision) (common.Hash, error) {
	if m.DigestFunc != nil {
		return m.DigestFunc(decision)
	}
	return common.Hash{}, nil
}

type mockRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockRecorder) DepositDecision(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

// memLockStore is a minimal presale.LockStore for exercising the real lock service.
type memLockStore struct {
	mu    sync.Mutex
	locks map[vo.Address][]presale.Lock
	now   func() time.Time
}

func newMemLockStore(now func() time.Time) *memLockStore {
	return &memLockStore{locks: make(map[vo.Address][]presale.Lock), now: now}
}

func (s *memLockStore) live(addr vo.Address) []presale.Lock {
	var out []presale.Lock
	for _, l := range s.locks[addr] {
		if !l.IsExpired(s.now()) {
			out = append(out, l)
		}
	}
	return out
}

func (s *memLockStore) Read(_ context.Context, addr vo.Address) (*presale.Lock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.live(addr)
	if len(live) == 0 {
		return nil, nil
	}
	l := live[0]
	return &l, nil
}

func (s *memLockStore) Write(_ context.Context, lock *presale.Lock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks[lock.Address] = append(s.live(lock.Address), *lock)
	return nil
}

func (s *memLockStore) Owners(_ context.Context, addr vo.Address) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owners []string
	for _, l := range s.live(addr) {
		owners = append(owners, l.Owner)
	}
	return owners, nil
}
