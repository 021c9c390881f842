package valueobjects

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a normalised (lowercase, 0x-prefixed) EVM account address.
// It is the key of the deposit lock and of the allocation table.
type Address string

// NewAddress validates and normalises a hex address.
func NewAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("address cannot be empty")
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", fmt.Errorf("address must be 0x-prefixed: %s", s)
	}
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address: %s", s)
	}
	return Address(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// MustAddress is NewAddress for constants and tests.
func MustAddress(s string) Address {
	a, err := NewAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return string(a)
}

// Common returns the go-ethereum representation.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

// EqualFold compares against a raw, possibly checksummed, address string.
func (a Address) EqualFold(other string) bool {
	return strings.EqualFold(string(a), strings.TrimSpace(other))
}
