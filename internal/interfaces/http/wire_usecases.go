package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mrc20-presale/presale-node/internal/application/presale/usecases"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/attestation"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/signature"
)

type presaleUseCases struct {
	deposit    *usecases.DepositUseCase
	checkLock  *usecases.CheckLockUseCase
	hashResult *usecases.HashResultUseCase
	dispatcher *usecases.Dispatcher
}

func (c *Container) initUseCases() error {
	cfg := c.cfg
	log := c.log

	fixedPrice, err := decimal.NewFromString(cfg.Presale.FixedPrice)
	if err != nil {
		return fmt.Errorf("invalid presale.fixed_price %q: %w", cfg.Presale.FixedPrice, err)
	}
	engine := presale.NewCapEngine(cfg.Presale.ParticipantTokens, fixedPrice)
	verifier := signature.NewEIP712Verifier(cfg.Presale.SigningDomain)
	hasher := attestation.NewHasher(cfg.Presale.AppID)

	ucs := &presaleUseCases{}
	ucs.deposit = usecases.NewDepositUseCase(
		c.registry,
		c.schedule,
		engine,
		c.locks,
		verifier,
		c.aggregator,
		c.clock,
		c.metrics,
		log.Named("deposit"),
	)
	ucs.checkLock = usecases.NewCheckLockUseCase(c.registry, c.schedule, c.locks, c.clock, log.Named("check_lock"))
	ucs.hashResult = usecases.NewHashResultUseCase(hasher, log.Named("hash"))
	ucs.dispatcher = usecases.NewDispatcher(ucs.deposit, ucs.checkLock, ucs.hashResult)
	c.ucs = ucs

	log.Infow("presale use cases initialized",
		"app_id", cfg.Presale.AppID,
		"ceiling_usd", engine.CeilingUSD().String(),
		"chains", c.aggregator.ChainIDs(),
	)
	return nil
}
