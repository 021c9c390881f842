package usecases

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

const (
	testStartUnix = int64(1659547199)
	testHolder    = "0x5629227c1e2542dbc5aca0cecb7cd3e02c82ad0a"
	testStranger  = "0x9a1a7e4b7f4b2f3e5c1d2a3b4c5d6e7f8a9b0c1d"
	testSignature = "0x" + "11111111111111111111111111111111111111111111111111111111111111112222222222222222222222222222222222222222222222222222222222222222" + "1b"
)

var testTokenContract = common.HexToAddress("0x701048911b1f1121E33834d3633227A954978d53")

func testRegistry() *presale.Registry {
	reg, err := presale.NewRegistry(
		[]presale.Token{
			{Symbol: "ert", Decimals: 18, Contract: testTokenContract, UnitPrice: decimal.NewFromInt(1), Chains: []uint64{80001}},
			{Symbol: "ert_d6", Decimals: 6, Contract: common.HexToAddress("0xfBB0Aa52B82dD2173D8ce97065b2f421216A312A"), UnitPrice: decimal.NewFromInt(1), Chains: []uint64{97, 4}},
		},
		map[string]presale.DailyAllocation{
			testHolder: {1: decimal.NewFromInt(50), 2: decimal.NewFromInt(100), 3: decimal.NewFromInt(100)},
		},
		presale.DailyAllocation{4: decimal.NewFromInt(200), 5: decimal.NewFromInt(200)},
	)
	if err != nil {
		panic(err)
	}
	return reg
}

func testSchedule() presale.Schedule {
	return presale.NewSchedule(testStartUnix)
}

// atDay returns an instant one hour into the given sale day.
func atDay(day int) time.Time {
	return time.Unix(testStartUnix, 0).UTC().Add(time.Duration(day-1)*24*time.Hour + time.Hour)
}

func tokens(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func tokens6(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1_000_000))
}

func zeroBalances(chains ...uint64) presale.AggregatedBalances {
	records := make([]presale.ChainBalanceRecord, len(chains))
	for i, c := range chains {
		rounds := make([]*big.Int, 6)
		for j := range rounds {
			rounds[j] = new(big.Int)
		}
		records[i] = presale.ChainBalanceRecord{
			ChainID:       c,
			TotalBalance:  new(big.Int),
			UserBalance:   new(big.Int),
			RoundBalances: rounds,
		}
	}
	return presale.NewAggregatedBalances(records)
}

func holder() vo.Address {
	return vo.MustAddress(testHolder)
}
