package presale

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// PriceDecimals is the fixed-point precision of USD-equivalent amounts.
const PriceDecimals = 18

// Token describes a token accepted for deposits.
type Token struct {
	Symbol   string
	Decimals uint8
	Contract common.Address
	// UnitPrice is the USD price of one whole token.
	UnitPrice decimal.Decimal
	Chains    []uint64
}

// ScaledPrice is the unit price with PriceDecimals fixed-point precision.
func (t Token) ScaledPrice() *big.Int {
	return t.UnitPrice.Shift(PriceDecimals).BigInt()
}

// BaseUnit is 10^Decimals, the number of smallest units in one token.
func (t Token) BaseUnit() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Decimals)), nil)
}

// ListedOn reports whether the token can be deposited on chainID.
func (t Token) ListedOn(chainID uint64) bool {
	return slices.Contains(t.Chains, chainID)
}

// ToUSD converts an amount in token base units to USD with PriceDecimals precision.
func (t Token) ToUSD(amount *big.Int) *big.Int {
	usd := new(big.Int).Mul(amount, t.ScaledPrice())
	return usd.Quo(usd, t.BaseUnit())
}

// FromUSD converts a USD amount with PriceDecimals precision back to token base units.
// Negative amounts stay negative.
func (t Token) FromUSD(usd *big.Int) *big.Int {
	amount := new(big.Int).Mul(usd, t.BaseUnit())
	return amount.Quo(amount, t.ScaledPrice())
}

func (t Token) validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("token symbol cannot be empty")
	}
	if t.Contract == (common.Address{}) {
		return fmt.Errorf("token %s: contract address cannot be empty", t.Symbol)
	}
	if !t.UnitPrice.IsPositive() {
		return fmt.Errorf("token %s: unit price must be positive", t.Symbol)
	}
	if t.ScaledPrice().Sign() == 0 {
		return fmt.Errorf("token %s: unit price below precision", t.Symbol)
	}
	if len(t.Chains) == 0 {
		return fmt.Errorf("token %s: at least one chain is required", t.Symbol)
	}
	return nil
}

// foldSymbol is the case-insensitive lookup key of a token symbol.
func foldSymbol(symbol string) string {
	return cases.Fold().String(strings.TrimSpace(symbol))
}
