package presale

import (
	"fmt"
	"math/big"
)

// ChainBalanceRecord is what one chain's presale contract has recorded for an
// address. Amounts are USD-equivalent with PriceDecimals precision.
type ChainBalanceRecord struct {
	ChainID uint64
	// TotalBalance is the contract's own view of the address's purchases on all chains.
	TotalBalance *big.Int
	// UserBalance is the running purchase total on this chain.
	UserBalance *big.Int
	// RoundBalances[i] is the amount purchased in round i on this chain.
	RoundBalances []*big.Int
}

// Round returns RoundBalances[i], failing when the contract did not report it.
func (r ChainBalanceRecord) Round(i int) (*big.Int, error) {
	if i < 0 || i >= len(r.RoundBalances) || r.RoundBalances[i] == nil {
		return nil, fmt.Errorf("chain %d: round balance %d not reported (%d rounds)", r.ChainID, i, len(r.RoundBalances))
	}
	return r.RoundBalances[i], nil
}

func (r ChainBalanceRecord) total() *big.Int {
	if r.TotalBalance == nil {
		return new(big.Int)
	}
	return r.TotalBalance
}

func (r ChainBalanceRecord) user() *big.Int {
	if r.UserBalance == nil {
		return new(big.Int)
	}
	return r.UserBalance
}

// AggregatedBalances is the full set of per-chain records read for one request.
type AggregatedBalances struct {
	records []ChainBalanceRecord
}

func NewAggregatedBalances(records []ChainBalanceRecord) AggregatedBalances {
	return AggregatedBalances{records: append([]ChainBalanceRecord(nil), records...)}
}

func (a AggregatedBalances) Records() []ChainBalanceRecord {
	return append([]ChainBalanceRecord(nil), a.records...)
}

// Total is the cross-chain sum of TotalBalance used by the global ceiling check.
func (a AggregatedBalances) Total() *big.Int {
	sum := new(big.Int)
	for _, r := range a.records {
		sum.Add(sum, r.total())
	}
	return sum
}

// PurchasedSoFar sums the day-bucket amount of every chain for a deposit on
// requestingChain during day.
func (a AggregatedBalances) PurchasedSoFar(day int, requestingChain uint64) (*big.Int, error) {
	sum := new(big.Int)
	for _, r := range a.records {
		amount, err := PurchasedOnChain(r, day, r.ChainID == requestingChain)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, amount)
	}
	return sum, nil
}
