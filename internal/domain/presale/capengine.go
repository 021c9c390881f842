package presale

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
)

// CapInput is everything the cap engine needs for one deposit.
type CapInput struct {
	Day     int
	Phase   vo.Phase
	Token   Token
	ChainID uint64
	// Amount is the requested deposit in token base units.
	Amount   *big.Int
	Balances AggregatedBalances
	// Allocation is the address's table entry, nil when it has none.
	Allocation     DailyAllocation
	PublicSchedule DailyAllocation
}

// CapEngine computes how much an address may still deposit.
type CapEngine struct {
	ceilingUSD decimal.Decimal
}

// NewCapEngine builds an engine whose global USD ceiling is
// participantTokens × fixedPrice.
func NewCapEngine(participantTokens int64, fixedPrice decimal.Decimal) *CapEngine {
	return &CapEngine{
		ceilingUSD: decimal.NewFromInt(participantTokens).Mul(fixedPrice),
	}
}

// CeilingUSD is the global per-address ceiling in USD.
func (e *CapEngine) CeilingUSD() decimal.Decimal {
	return e.ceilingUSD
}

// MaxCap returns the cap, in token base units, recorded in the deposit decision.
//
// The global ceiling always applies: the request plus everything the address
// bought on any chain may not exceed it. In the public phase the cap is the
// ceiling itself. Before that the phase headroom is the day's allocation minus
// what the day-bucket rules count as already purchased. With positive headroom
// the request must fit in it and the cap is what is left after the deposit;
// a non-positive headroom is returned as is.
func (e *CapEngine) MaxCap(in CapInput) (*big.Int, error) {
	if in.Day <= 0 {
		return nil, apperrors.NewNoActiveSaleError(in.Day)
	}
	if in.Amount == nil || in.Amount.Sign() <= 0 {
		return nil, apperrors.NewInvalidInputError("Invalid deposit amount")
	}

	requestedUSD := in.Token.ToUSD(in.Amount)
	if err := e.checkGlobalCeiling(requestedUSD, in.Balances.Total()); err != nil {
		return nil, err
	}

	if in.Phase == vo.PhasePublic {
		return in.Token.FromUSD(toScaledUSD(e.ceilingUSD)), nil
	}

	purchased, err := in.Balances.PurchasedSoFar(in.Day, in.ChainID)
	if err != nil {
		return nil, apperrors.NewChainReadFailureError(in.ChainID, err)
	}

	allocation := in.PublicSchedule.On(in.Day)
	if in.Phase == vo.PhaseAllocation {
		allocation = in.Allocation.On(in.Day)
	}

	headroom := new(big.Int).Sub(toScaledUSD(allocation), purchased)
	if headroom.Sign() <= 0 {
		return in.Token.FromUSD(headroom), nil
	}
	if requestedUSD.Cmp(headroom) > 0 {
		return nil, apperrors.NewCapExceededError(fmt.Sprintf("day %d allocation exceeded", in.Day))
	}

	return in.Token.FromUSD(headroom.Sub(headroom, requestedUSD)), nil
}

// checkGlobalCeiling rejects only when the sum is strictly above the ceiling.
func (e *CapEngine) checkGlobalCeiling(requestedUSD, totalUSD *big.Int) error {
	sum := fromScaledUSD(requestedUSD).Add(fromScaledUSD(totalUSD))
	if sum.GreaterThan(e.ceilingUSD) {
		return apperrors.NewCapExceededError("global ceiling exceeded")
	}
	return nil
}

func toScaledUSD(d decimal.Decimal) *big.Int {
	return d.Shift(PriceDecimals).BigInt()
}

func fromScaledUSD(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -PriceDecimals)
}
