package usecases

import (
	"context"
	"slices"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
)

const (
	MethodDeposit   = "deposit"
	MethodCheckLock = "checkLock"
)

// ReadOnlyMethods lists the methods that never change node state.
var ReadOnlyMethods = []string{MethodCheckLock}

// IsReadOnly reports whether method is served without taking a lock.
func IsReadOnly(method string) bool {
	return slices.Contains(ReadOnlyMethods, method)
}

// Request is a method call in the node's request envelope.
type Request struct {
	Method  string
	Deposit DepositCommand
	Lock    CheckLockQuery
}

// Response holds the result of whichever method was called.
type Response struct {
	Method    string
	Deposit   *DepositResult
	CheckLock *CheckLockResult
}

// Dispatcher routes request methods to their use cases.
type Dispatcher struct {
	deposit   *DepositUseCase
	checkLock *CheckLockUseCase
	hash      *HashResultUseCase
}

func NewDispatcher(deposit *DepositUseCase, checkLock *CheckLockUseCase, hash *HashResultUseCase) *Dispatcher {
	return &Dispatcher{deposit: deposit, checkLock: checkLock, hash: hash}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Response, error) {
	switch req.Method {
	case MethodDeposit:
		result, err := d.deposit.Execute(ctx, req.Deposit)
		if err != nil {
			return nil, err
		}
		return &Response{Method: req.Method, Deposit: result}, nil
	case MethodCheckLock:
		result, err := d.checkLock.Execute(ctx, req.Lock)
		if err != nil {
			return nil, err
		}
		return &Response{Method: req.Method, CheckLock: result}, nil
	default:
		return nil, apperrors.NewUnknownMethodError(req.Method)
	}
}

// HashRequestResult returns the digest nodes sign for a method result. Only
// deposit results are signed.
func (d *Dispatcher) HashRequestResult(method string, decision presale.DepositDecision) (string, error) {
	if method != MethodDeposit {
		return "", apperrors.NewUnknownMethodError(method)
	}
	return d.hash.Execute(decision)
}
