package presale

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

// DepositDecision is an approved deposit and the caps it was approved under.
// Every node must derive the same decision from the same chain state; it is
// the input of the attestation digest.
type DepositDecision struct {
	Token              common.Address
	ForAddress         vo.Address
	Day                int
	MaxRemainingAmount *big.Int
	ChainID            uint64
	UnitPriceScaled    *big.Int
	RequestedAmount    *big.Int
	RequestTimestamp   *big.Int
}

// NewDepositDecision copies the numeric inputs so the decision cannot be
// changed through the caller's values.
func NewDepositDecision(
	token common.Address,
	forAddress vo.Address,
	day int,
	maxRemaining *big.Int,
	chainID uint64,
	unitPriceScaled *big.Int,
	requested *big.Int,
	timestamp *big.Int,
) DepositDecision {
	return DepositDecision{
		Token:              token,
		ForAddress:         forAddress,
		Day:                day,
		MaxRemainingAmount: copyInt(maxRemaining),
		ChainID:            chainID,
		UnitPriceScaled:    copyInt(unitPriceScaled),
		RequestedAmount:    copyInt(requested),
		RequestTimestamp:   copyInt(timestamp),
	}
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
