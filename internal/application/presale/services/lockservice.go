package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

// LockService serialises deposit validation per address with a two-phase
// protocol: TryAcquire before the validation and ConfirmSoleOwnership after it.
// Locks are never released; they expire after the TTL.
type LockService struct {
	store    presale.LockStore
	clock    clock.Clock
	ttl      time.Duration
	nodeID   string
	recorder Recorder
	logger   logger.Interface
}

func NewLockService(
	store presale.LockStore,
	clk clock.Clock,
	ttl time.Duration,
	nodeID string,
	recorder Recorder,
	log logger.Interface,
) *LockService {
	if ttl <= 0 {
		ttl = presale.DefaultLockTTL
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &LockService{
		store:    store,
		clock:    clk,
		ttl:      ttl,
		nodeID:   nodeID,
		recorder: recorder,
		logger:   log,
	}
}

// TTL is the lifetime of every lock written by this service.
func (s *LockService) TTL() time.Duration {
	return s.ttl
}

// TryAcquire writes a new lock for addr unless an unexpired one exists, in
// which case it fails with AlreadyLocked carrying the existing expiry. day is
// reported back to the client in that error.
//
// The read and the write are separate store calls. Two acquirers racing
// through both are caught by ConfirmSoleOwnership.
func (s *LockService) TryAcquire(ctx context.Context, addr vo.Address, day int) (*presale.Lock, error) {
	now := s.clock.Now()

	existing, err := s.store.Read(ctx, addr)
	if err != nil {
		s.recorder.LockAcquisition(LockResultError)
		return nil, fmt.Errorf("read lock for %s: %w", addr, err)
	}
	if existing != nil && !existing.IsExpired(now) {
		s.recorder.LockAcquisition(LockResultLocked)
		s.logger.Infow("address already locked",
			"for_address", addr.String(),
			"expire_at", existing.ExpireAt.UnixMilli(),
		)
		return nil, apperrors.NewAlreadyLockedError(existing.ExpireAt, s.ttl, day)
	}

	lock := &presale.Lock{
		Address:  addr,
		Owner:    s.newOwner(),
		ExpireAt: now.Add(s.ttl),
	}
	if err := s.store.Write(ctx, lock); err != nil {
		s.recorder.LockAcquisition(LockResultError)
		return nil, fmt.Errorf("write lock for %s: %w", addr, err)
	}

	s.recorder.LockAcquisition(LockResultAcquired)
	s.logger.Debugw("lock acquired",
		"for_address", addr.String(),
		"owner", lock.Owner,
		"expire_at", lock.ExpireAt.UnixMilli(),
	)
	return lock, nil
}

// ConfirmSoleOwnership requires exactly one unexpired lock owner for addr.
// Any other count means concurrent acquirers raced and the whole request
// must be resubmitted.
func (s *LockService) ConfirmSoleOwnership(ctx context.Context, addr vo.Address) error {
	owners, err := s.store.Owners(ctx, addr)
	if err != nil {
		return fmt.Errorf("read lock owners for %s: %w", addr, err)
	}
	if len(owners) != 1 {
		s.logger.Warnw("lock ownership not unique",
			"for_address", addr.String(),
			"owners", len(owners),
		)
		return apperrors.NewAtomicityViolationError(len(owners))
	}
	return nil
}

// Peek returns the unexpired lock of addr, or nil. It never writes.
func (s *LockService) Peek(ctx context.Context, addr vo.Address) (*presale.Lock, error) {
	existing, err := s.store.Read(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("read lock for %s: %w", addr, err)
	}
	if existing == nil || existing.IsExpired(s.clock.Now()) {
		return nil, nil
	}
	return existing, nil
}

func (s *LockService) newOwner() string {
	if s.nodeID == "" {
		return uuid.NewString()
	}
	return s.nodeID + ":" + uuid.NewString()
}
