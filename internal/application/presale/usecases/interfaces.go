package usecases

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

// DepositLocker is the two-phase per-address lock around a deposit validation.
type DepositLocker interface {
	TryAcquire(ctx context.Context, addr vo.Address, day int) (*presale.Lock, error)
	ConfirmSoleOwnership(ctx context.Context, addr vo.Address) error
}

// LockInspector reads lock state without changing it.
type LockInspector interface {
	Peek(ctx context.Context, addr vo.Address) (*presale.Lock, error)
	TTL() time.Duration
}

// BalanceFetcher reads the purchase records of an address on every configured chain.
type BalanceFetcher interface {
	FetchAll(ctx context.Context, addr vo.Address) (presale.AggregatedBalances, error)
	HasChain(chainID uint64) bool
}

// DecisionHasher produces the attestation digest of a decision.
type DecisionHasher interface {
	Digest(decision presale.DepositDecision) (common.Hash, error)
}

// OutcomeRecorder counts deposit outcomes.
type OutcomeRecorder interface {
	DepositDecision(outcome string)
}
