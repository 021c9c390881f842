// Package signature verifies depositor consent signatures.
package signature

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
)

// DefaultDomain is the EIP-712 domain name the presale frontend signs under.
const DefaultDomain = "MRC20 Presale"

const primaryType = "Message"

// EIP712Verifier checks signatures over the typed message
// Message{address forAddress} in a name-only EIP-712 domain.
type EIP712Verifier struct {
	domain string
}

func NewEIP712Verifier(domain string) *EIP712Verifier {
	if domain == "" {
		domain = DefaultDomain
	}
	return &EIP712Verifier{domain: domain}
}

// TypedData is the consent message binding forAddress.
func (v *EIP712Verifier) TypedData(forAddress vo.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
			},
			primaryType: {
				{Name: "forAddress", Type: "address"},
			},
		},
		PrimaryType: primaryType,
		Domain:      apitypes.TypedDataDomain{Name: v.domain},
		Message: apitypes.TypedDataMessage{
			"forAddress": forAddress.String(),
		},
	}
}

// Hash returns the EIP-712 digest a wallet signs for forAddress.
func (v *EIP712Verifier) Hash(forAddress vo.Address) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(v.TypedData(forAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}
	return hash, nil
}

// Verify recovers the signer of sig and compares it with forAddress. The
// recovery id may be 0/1 or the wallet form 27/28.
func (v *EIP712Verifier) Verify(forAddress vo.Address, sig string) error {
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return apperrors.NewInvalidInputError("Invalid signature.", err.Error())
	}
	if len(raw) != crypto.SignatureLength {
		return apperrors.NewInvalidInputError("Invalid signature.", fmt.Sprintf("signature must be %d bytes, got %d", crypto.SignatureLength, len(raw)))
	}

	normalized := make([]byte, len(raw))
	copy(normalized, raw)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	if normalized[crypto.RecoveryIDOffset] > 1 {
		return apperrors.NewInvalidInputError("Invalid signature.", "invalid recovery id")
	}

	hash, err := v.Hash(forAddress)
	if err != nil {
		return apperrors.NewInternalError("Failed to hash consent message", err.Error())
	}

	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return apperrors.NewSignatureMismatchError(err.Error())
	}
	recovered := crypto.PubkeyToAddress(*pub)
	if !forAddress.EqualFold(recovered.Hex()) {
		return apperrors.NewSignatureMismatchError(fmt.Sprintf("recovered %s", recovered.Hex()))
	}
	return nil
}
