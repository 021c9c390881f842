package presale

import (
	"context"
	"time"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

// DefaultLockTTL bounds how long a crashed validation keeps an address locked.
const DefaultLockTTL = 5 * time.Minute

// Lock marks an in-flight deposit validation for an address.
type Lock struct {
	Address  vo.Address
	Owner    string
	ExpireAt time.Time
}

// IsExpired returns true once now has reached ExpireAt.
func (l *Lock) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpireAt)
}

// LockStore is the node memory the deposit lock is built on. Implementations
// only ever return entries that have not expired.
type LockStore interface {
	// Read returns one unexpired lock for addr, or nil when there is none.
	Read(ctx context.Context, addr vo.Address) (*Lock, error)
	// Write records lock until lock.ExpireAt.
	Write(ctx context.Context, lock *Lock) error
	// Owners returns the distinct owners of unexpired locks for addr.
	Owners(ctx context.Context, addr vo.Address) ([]string, error)
}
