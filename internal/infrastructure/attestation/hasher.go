// Package attestation computes the digest that nodes sign for an approved deposit.
package attestation

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
)

// packedLen is the size of the solidity-packed tuple:
// uint32, address, uint8, uint256, uint256, address, uint256, uint256, uint256.
const packedLen = 4 + common.AddressLength + 1 + 32 + 32 + common.AddressLength + 32 + 32 + 32

// Hasher packs a decision the way solidity's abi.encodePacked does and hashes
// it with Keccak-256. The field order and widths are part of the network
// protocol; nodes that disagree on either cannot aggregate signatures.
type Hasher struct {
	appID uint32
}

func NewHasher(appID uint32) *Hasher {
	return &Hasher{appID: appID}
}

// Encode returns the packed bytes of the decision.
func (h *Hasher) Encode(d presale.DepositDecision) ([]byte, error) {
	if d.Day < 0 || d.Day > 255 {
		return nil, fmt.Errorf("day %d does not fit uint8", d.Day)
	}

	buf := make([]byte, 0, packedLen)
	buf = binary.BigEndian.AppendUint32(buf, h.appID)
	buf = append(buf, d.Token.Bytes()...)
	buf = append(buf, uint8(d.Day))

	var err error
	if buf, err = appendUint256(buf, "requested amount", d.RequestedAmount); err != nil {
		return nil, err
	}
	if buf, err = appendUint256(buf, "request timestamp", d.RequestTimestamp); err != nil {
		return nil, err
	}
	buf = append(buf, d.ForAddress.Common().Bytes()...)
	if buf, err = appendUint256(buf, "max remaining amount", d.MaxRemainingAmount); err != nil {
		return nil, err
	}
	buf = append(buf, common.LeftPadBytes(new(big.Int).SetUint64(d.ChainID).Bytes(), 32)...)
	if buf, err = appendUint256(buf, "unit price", d.UnitPriceScaled); err != nil {
		return nil, err
	}
	return buf, nil
}

// Digest is the Keccak-256 hash of the packed decision.
func (h *Hasher) Digest(d presale.DepositDecision) (common.Hash, error) {
	packed, err := h.Encode(d)
	if err != nil {
		return common.Hash{}, err
	}
	k := sha3.NewLegacyKeccak256()
	k.Write(packed)
	return common.BytesToHash(k.Sum(nil)), nil
}

func appendUint256(buf []byte, field string, v *big.Int) ([]byte, error) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%s %s is negative", field, v)
	}
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("%s overflows uint256", field)
	}
	return append(buf, common.LeftPadBytes(v.Bytes(), 32)...), nil
}
