package signature

import vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"

// Verifier checks the consent message signed by a depositor.
type Verifier interface {
	// Verify succeeds only when sig, over the consent message binding forAddress,
	// was produced by forAddress itself.
	Verify(forAddress vo.Address, sig string) error
}
