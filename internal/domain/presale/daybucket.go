package presale

import "math/big"

// PurchasedOnChain is the amount of rec that counts against the allocation of
// day. requesting is true for the chain the deposit is made on.
//
// Days 1-3 count running balances, except that the requesting chain excludes
// round day-1 which its running balance already includes. Day 4 is a fresh
// round boundary for the requesting chain and counts round 3 elsewhere. Day 5
// counts rounds 3 and 4 elsewhere; on the requesting chain round 4 is added
// and subtracted again so only round 3 remains. No other day has a rule, so
// nothing is counted.
func PurchasedOnChain(rec ChainBalanceRecord, day int, requesting bool) (*big.Int, error) {
	switch {
	case day < 4:
		if !requesting {
			return new(big.Int).Set(rec.user()), nil
		}
		current, err := rec.Round(day - 1)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Sub(rec.user(), current), nil

	case day == 4:
		if requesting {
			return new(big.Int), nil
		}
		prev, err := rec.Round(day - 1)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Set(prev), nil

	case day == 5:
		older, err := rec.Round(day - 2)
		if err != nil {
			return nil, err
		}
		prev, err := rec.Round(day - 1)
		if err != nil {
			return nil, err
		}
		sum := new(big.Int).Add(older, prev)
		if requesting {
			sum.Sub(sum, prev)
		}
		return sum, nil

	default:
		return new(big.Int), nil
	}
}
