package usecases

import (
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

type HashResultUseCase struct {
	hasher DecisionHasher
	logger logger.Interface
}

func NewHashResultUseCase(hasher DecisionHasher, logger logger.Interface) *HashResultUseCase {
	return &HashResultUseCase{hasher: hasher, logger: logger}
}

// Execute returns the 0x-prefixed attestation digest of decision.
func (uc *HashResultUseCase) Execute(decision presale.DepositDecision) (string, error) {
	digest, err := uc.hasher.Digest(decision)
	if err != nil {
		uc.logger.Errorw("failed to hash deposit decision",
			"for_address", decision.ForAddress.String(),
			"error", err,
		)
		return "", apperrors.NewInvalidInputError("Decision cannot be hashed", err.Error())
	}
	return digest.Hex(), nil
}
