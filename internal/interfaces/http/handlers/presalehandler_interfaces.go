package handlers

import (
	"context"

	"github.com/mrc20-presale/presale-node/internal/application/presale/usecases"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
)

// Use case interfaces for PresaleHandler

type depositUseCase interface {
	Execute(ctx context.Context, cmd usecases.DepositCommand) (*usecases.DepositResult, error)
}

type checkLockUseCase interface {
	Execute(ctx context.Context, query usecases.CheckLockQuery) (*usecases.CheckLockResult, error)
}

type requestDispatcher interface {
	Dispatch(ctx context.Context, req usecases.Request) (*usecases.Response, error)
	HashRequestResult(method string, decision presale.DepositDecision) (string, error)
}
