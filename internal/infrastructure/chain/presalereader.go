// Package chain reads presale purchase records from EVM chains.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/config"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

const userInfoMethod = "userInfo"

// presaleABIJSON is the read surface of the presale contract used by the node.
const presaleABIJSON = `[{
	"name": "userInfo",
	"type": "function",
	"stateMutability": "view",
	"inputs": [
		{"internalType": "address", "name": "_user", "type": "address"},
		{"internalType": "uint8", "name": "_index", "type": "uint8"}
	],
	"outputs": [
		{"internalType": "uint256", "name": "_totalBalance", "type": "uint256"},
		{"internalType": "uint256", "name": "_userBalance", "type": "uint256"},
		{"internalType": "uint256[]", "name": "_roundBalances", "type": "uint256[]"}
	]
}]`

var presaleABI = mustParseABI(presaleABIJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid presale ABI: %v", err))
	}
	return parsed
}

// userInfoOutput mirrors the userInfo return tuple.
type userInfoOutput struct {
	TotalBalance  *big.Int
	UserBalance   *big.Int
	RoundBalances []*big.Int
}

// PresaleContractReader reads one chain's presale contract at the latest block.
type PresaleContractReader struct {
	name     string
	chainID  uint64
	contract common.Address
	caller   ethereum.ContractCaller
	timeout  time.Duration
	logger   logger.Interface
}

// NewPresaleContractReader builds a reader over an existing contract caller.
func NewPresaleContractReader(cfg config.ChainConfig, caller ethereum.ContractCaller, logger logger.Interface) (*PresaleContractReader, error) {
	if !common.IsHexAddress(cfg.PresaleContract) {
		return nil, fmt.Errorf("chain %d: invalid presale contract address %q", cfg.ChainID, cfg.PresaleContract)
	}
	return &PresaleContractReader{
		name:     cfg.Name,
		chainID:  cfg.ChainID,
		contract: common.HexToAddress(cfg.PresaleContract),
		caller:   caller,
		timeout:  cfg.Timeout(),
		logger:   logger,
	}, nil
}

// Dial connects to the chain's RPC endpoint. The returned close function
// releases the connection.
func Dial(ctx context.Context, cfg config.ChainConfig, logger logger.Interface) (*PresaleContractReader, func(), error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("chain %d: failed to dial rpc: %w", cfg.ChainID, err)
	}
	reader, err := NewPresaleContractReader(cfg, client, logger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return reader, client.Close, nil
}

func (r *PresaleContractReader) ChainID() uint64 {
	return r.chainID
}

// UserInfo calls userInfo(addr, index) on the presale contract.
func (r *PresaleContractReader) UserInfo(ctx context.Context, addr vo.Address, index uint8) (*presale.ChainBalanceRecord, error) {
	input, err := presaleABI.Pack(userInfoMethod, addr.Common(), index)
	if err != nil {
		return nil, fmt.Errorf("failed to pack userInfo call: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("chain %d userInfo call failed: %w", r.chainID, err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("chain %d: empty userInfo response from %s", r.chainID, r.contract.Hex())
	}

	var out userInfoOutput
	if err := presaleABI.UnpackIntoInterface(&out, userInfoMethod, output); err != nil {
		return nil, fmt.Errorf("chain %d: failed to decode userInfo: %w", r.chainID, err)
	}

	r.logger.Debugw("read presale user info",
		"chain", r.name,
		"chain_id", r.chainID,
		"for_address", addr.String(),
		"rounds", len(out.RoundBalances),
	)

	return &presale.ChainBalanceRecord{
		ChainID:       r.chainID,
		TotalBalance:  out.TotalBalance,
		UserBalance:   out.UserBalance,
		RoundBalances: out.RoundBalances,
	}, nil
}
