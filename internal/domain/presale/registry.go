package presale

import (
	"fmt"

	"github.com/shopspring/decimal"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

// DailyAllocation maps a sale day to the maximum cumulative USD deposit on that day.
type DailyAllocation map[int]decimal.Decimal

// On returns the allocation for day; a day without an entry allocates nothing.
func (d DailyAllocation) On(day int) decimal.Decimal {
	if v, ok := d[day]; ok {
		return v
	}
	return decimal.Zero
}

// Registry is the static sale configuration loaded once at startup.
// It is never mutated after NewRegistry returns.
type Registry struct {
	tokens         map[string]Token
	allocations    map[vo.Address]DailyAllocation
	publicSchedule DailyAllocation
}

// NewRegistry validates and indexes the static tables. Allocation keys are
// normalised so lookups are case-insensitive.
func NewRegistry(tokens []Token, allocations map[string]DailyAllocation, publicSchedule DailyAllocation) (*Registry, error) {
	r := &Registry{
		tokens:         make(map[string]Token, len(tokens)),
		allocations:    make(map[vo.Address]DailyAllocation, len(allocations)),
		publicSchedule: make(DailyAllocation, len(publicSchedule)),
	}

	for _, t := range tokens {
		if err := t.validate(); err != nil {
			return nil, err
		}
		key := foldSymbol(t.Symbol)
		if _, dup := r.tokens[key]; dup {
			return nil, fmt.Errorf("duplicate token symbol: %s", t.Symbol)
		}
		t.Chains = append([]uint64(nil), t.Chains...)
		r.tokens[key] = t
	}

	for raw, daily := range allocations {
		addr, err := vo.NewAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("allocation table: %w", err)
		}
		if _, dup := r.allocations[addr]; dup {
			return nil, fmt.Errorf("allocation table: duplicate address %s", addr)
		}
		copied := make(DailyAllocation, len(daily))
		for day, amount := range daily {
			if amount.IsNegative() {
				return nil, fmt.Errorf("allocation table: negative amount for %s on day %d", addr, day)
			}
			copied[day] = amount
		}
		r.allocations[addr] = copied
	}

	for day, amount := range publicSchedule {
		if amount.IsNegative() {
			return nil, fmt.Errorf("public schedule: negative amount on day %d", day)
		}
		r.publicSchedule[day] = amount
	}

	return r, nil
}

// Token looks a token up by symbol, ignoring case.
func (r *Registry) Token(symbol string) (Token, bool) {
	t, ok := r.tokens[foldSymbol(symbol)]
	return t, ok
}

// Allocation returns the per-day allocation of addr. The second result is false
// when the address has no entry at all.
func (r *Registry) Allocation(addr vo.Address) (DailyAllocation, bool) {
	a, ok := r.allocations[addr]
	return a, ok
}

// PublicSchedule is the per-day allocation that applies to everyone in the tiered phase.
func (r *Registry) PublicSchedule() DailyAllocation {
	return r.publicSchedule
}

// TokenCount and AllocationCount are used for startup logging.
func (r *Registry) TokenCount() int      { return len(r.tokens) }
func (r *Registry) AllocationCount() int { return len(r.allocations) }
