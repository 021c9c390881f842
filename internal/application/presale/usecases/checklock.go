package usecases

import (
	"context"
	"time"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

const (
	MessageZeroAllocation = "Allocation is 0 for your address."
	MessageLocked         = "Your address is locked. Please wait."
	MessageNotLocked      = "Not locked."
)

type CheckLockQuery struct {
	ForAddress string
}

// CheckLockResult tells a client whether a deposit would currently be
// accepted and when to try again.
type CheckLockResult struct {
	Locked   bool
	LockKind vo.LockKind
	// LockTime is the lock duration for a cool-down and the reopen instant in
	// unix milliseconds for an allocation lock. Zero when unlocked.
	LockTime int64
	// ExpireAt is when the lock ends; zero when unlocked.
	ExpireAt   time.Time
	ReopenTime time.Time
	Day        int
	Phase      vo.Phase
	Boundaries presale.Boundaries
	Message    string
}

type CheckLockUseCase struct {
	registry *presale.Registry
	schedule presale.Schedule
	locks    LockInspector
	clock    clock.Clock
	logger   logger.Interface
}

func NewCheckLockUseCase(
	registry *presale.Registry,
	schedule presale.Schedule,
	locks LockInspector,
	clk clock.Clock,
	logger logger.Interface,
) *CheckLockUseCase {
	return &CheckLockUseCase{
		registry: registry,
		schedule: schedule,
		locks:    locks,
		clock:    clk,
		logger:   logger,
	}
}

// Execute never acquires or writes a lock.
func (uc *CheckLockUseCase) Execute(ctx context.Context, query CheckLockQuery) (*CheckLockResult, error) {
	addr, err := vo.NewAddress(query.ForAddress)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("Invalid sender address", err.Error())
	}

	now := uc.clock.Now()
	result := &CheckLockResult{
		Day:        uc.schedule.Day(now),
		Phase:      uc.schedule.Phase(now),
		Boundaries: uc.schedule.Boundaries(),
		ReopenTime: now,
		Message:    MessageNotLocked,
	}

	if _, ok := uc.registry.Allocation(addr); !ok && now.Before(uc.schedule.TieredStart()) {
		reopen := uc.schedule.TieredStart()
		result.Locked = true
		result.LockKind = vo.LockKindAllocation
		result.LockTime = reopen.UnixMilli()
		result.ExpireAt = reopen
		result.ReopenTime = reopen
		result.Message = MessageZeroAllocation
		return result, nil
	}

	lock, err := uc.locks.Peek(ctx, addr)
	if err != nil {
		uc.logger.Errorw("failed to read deposit lock", "for_address", addr.String(), "error", err)
		return nil, err
	}
	if lock != nil {
		result.Locked = true
		result.LockKind = vo.LockKindCoolDown
		result.LockTime = int64(uc.locks.TTL() / time.Second)
		result.ExpireAt = lock.ExpireAt
		result.ReopenTime = lock.ExpireAt
		result.Message = MessageLocked
	}

	return result, nil
}
