// Package chain defines the port through which the presale reads purchase
// records from the contracts deployed on each configured chain.
package chain

import (
	"context"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

// BalanceSource reads one chain's presale contract.
type BalanceSource interface {
	// ChainID returns the chain this source reads.
	ChainID() uint64

	// UserInfo returns the purchase record of addr under the contract's
	// user info index. Results must be read fresh on every call.
	UserInfo(ctx context.Context, addr vo.Address, index uint8) (*presale.ChainBalanceRecord, error)
}
