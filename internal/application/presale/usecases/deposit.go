package usecases

import (
	"context"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrc20-presale/presale-node/internal/application/presale/signature"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/clock"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
	"github.com/mrc20-presale/presale-node/internal/shared/utils/logutil"
)

// OutcomeApproved labels a deposit that produced a decision.
const OutcomeApproved = "approved"

// DepositCommand is a client's request to deposit Amount base units of Token on ChainID.
type DepositCommand struct {
	Token      string `validate:"required"`
	ForAddress string `validate:"required"`
	// Amount is a base-10 integer in the token's smallest unit.
	Amount    string `validate:"required,numeric"`
	Signature string `validate:"required"`
	ChainID   uint64 `validate:"required"`
	// Timestamp is the request time in unix seconds. Zero means now.
	Timestamp int64 `validate:"gte=0"`
}

type DepositResult struct {
	Decision presale.DepositDecision
	Phase    vo.Phase
	Lock     *presale.Lock
}

type DepositUseCase struct {
	registry *presale.Registry
	schedule presale.Schedule
	engine   *presale.CapEngine
	locks    DepositLocker
	verifier signature.Verifier
	balances BalanceFetcher
	clock    clock.Clock
	recorder OutcomeRecorder
	validate *validator.Validate
	logger   logger.Interface
}

func NewDepositUseCase(
	registry *presale.Registry,
	schedule presale.Schedule,
	engine *presale.CapEngine,
	locks DepositLocker,
	verifier signature.Verifier,
	balances BalanceFetcher,
	clk clock.Clock,
	recorder OutcomeRecorder,
	logger logger.Interface,
) *DepositUseCase {
	return &DepositUseCase{
		registry: registry,
		schedule: schedule,
		engine:   engine,
		locks:    locks,
		verifier: verifier,
		balances: balances,
		clock:    clk,
		recorder: recorder,
		validate: validator.New(),
		logger:   logger,
	}
}

type depositInput struct {
	token   presale.Token
	addr    vo.Address
	amount  *big.Int
	chainID uint64
}

// Execute validates a deposit and returns the decision every node must agree on.
// The address lock taken here is never released; it expires after its TTL.
func (uc *DepositUseCase) Execute(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	result, err := uc.execute(ctx, cmd)
	if err != nil {
		uc.recordOutcome(err)
		return nil, err
	}
	uc.recorder.DepositDecision(OutcomeApproved)
	return result, nil
}

func (uc *DepositUseCase) execute(ctx context.Context, cmd DepositCommand) (*DepositResult, error) {
	in, err := uc.validateCommand(cmd)
	if err != nil {
		uc.logger.Warnw("invalid deposit command", "error", err)
		return nil, err
	}

	now := uc.clock.Now()
	day := uc.schedule.Day(now)
	phase := uc.schedule.Phase(now)

	uc.logger.Infow("executing deposit use case",
		"for_address", in.addr.String(),
		"token", in.token.Symbol,
		"chain_id", in.chainID,
		"amount", in.amount.String(),
		"day", day,
		"phase", phase.String(),
	)

	lock, err := uc.locks.TryAcquire(ctx, in.addr, day)
	if err != nil {
		return nil, err
	}

	allocation, hasAllocation := uc.registry.Allocation(in.addr)
	if !hasAllocation && now.Before(uc.schedule.TieredStart()) {
		return nil, apperrors.NewZeroAllocationError(uc.schedule.TieredStart(), day)
	}
	if day <= 0 {
		return nil, apperrors.NewNoActiveSaleError(day)
	}

	if err := uc.verifier.Verify(in.addr, cmd.Signature); err != nil {
		uc.logger.Warnw("deposit signature rejected",
			"for_address", in.addr.String(),
			"signature", logutil.ShortHex(cmd.Signature, 6),
			"error", err,
		)
		return nil, err
	}

	balances, err := uc.balances.FetchAll(ctx, in.addr)
	if err != nil {
		return nil, err
	}

	maxCap, err := uc.engine.MaxCap(presale.CapInput{
		Day:            day,
		Phase:          phase,
		Token:          in.token,
		ChainID:        in.chainID,
		Amount:         in.amount,
		Balances:       balances,
		Allocation:     allocation,
		PublicSchedule: uc.registry.PublicSchedule(),
	})
	if err != nil {
		uc.logger.Infow("deposit rejected by cap engine",
			"for_address", in.addr.String(),
			"day", day,
			"error", err,
		)
		return nil, err
	}

	timestamp := cmd.Timestamp
	if timestamp == 0 {
		timestamp = now.Unix()
	}

	decision := presale.NewDepositDecision(
		in.token.Contract,
		in.addr,
		day,
		maxCap,
		in.chainID,
		in.token.ScaledPrice(),
		in.amount,
		big.NewInt(timestamp),
	)

	if err := uc.locks.ConfirmSoleOwnership(ctx, in.addr); err != nil {
		return nil, err
	}

	uc.logger.Infow("deposit approved",
		"for_address", in.addr.String(),
		"day", day,
		"max_remaining_amount", maxCap.String(),
	)

	return &DepositResult{Decision: decision, Phase: phase, Lock: lock}, nil
}

func (uc *DepositUseCase) validateCommand(cmd DepositCommand) (depositInput, error) {
	if err := uc.validate.Struct(cmd); err != nil {
		return depositInput{}, apperrors.NewInvalidInputError("Invalid deposit request", err.Error())
	}

	token, ok := uc.registry.Token(cmd.Token)
	if !ok {
		return depositInput{}, apperrors.NewInvalidInputError("Invalid token", cmd.Token)
	}

	addr, err := vo.NewAddress(cmd.ForAddress)
	if err != nil {
		return depositInput{}, apperrors.NewInvalidInputError("Invalid sender address", err.Error())
	}

	amount, ok := new(big.Int).SetString(strings.TrimSpace(cmd.Amount), 10)
	if !ok || amount.Sign() <= 0 {
		return depositInput{}, apperrors.NewInvalidInputError("Invalid deposit amount", cmd.Amount)
	}

	if !uc.balances.HasChain(cmd.ChainID) {
		return depositInput{}, apperrors.NewInvalidInputError("Invalid chainId")
	}
	if !token.ListedOn(cmd.ChainID) {
		return depositInput{}, apperrors.NewInvalidInputError("Token and chain is not matched.")
	}

	return depositInput{token: token, addr: addr, amount: amount, chainID: cmd.ChainID}, nil
}

func (uc *DepositUseCase) recordOutcome(err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		uc.recorder.DepositDecision(string(appErr.Type))
		return
	}
	uc.recorder.DepositDecision(string(apperrors.ErrorTypeInternal))
}
