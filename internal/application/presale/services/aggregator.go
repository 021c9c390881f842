package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrc20-presale/presale-node/internal/application/presale/chain"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	apperrors "github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/goroutine"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

// Aggregator reads the purchase record of an address from every configured
// chain concurrently. A single failed read fails the whole fetch.
type Aggregator struct {
	sources  []chain.BalanceSource
	index    uint8
	recorder Recorder
	logger   logger.Interface
}

func NewAggregator(sources []chain.BalanceSource, index uint8, recorder Recorder, log logger.Interface) *Aggregator {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Aggregator{
		sources:  append([]chain.BalanceSource(nil), sources...),
		index:    index,
		recorder: recorder,
		logger:   log,
	}
}

// ChainIDs lists the chains read by FetchAll, in configuration order.
func (a *Aggregator) ChainIDs() []uint64 {
	ids := make([]uint64, len(a.sources))
	for i, src := range a.sources {
		ids[i] = src.ChainID()
	}
	return ids
}

// HasChain reports whether chainID is one of the configured chains.
func (a *Aggregator) HasChain(chainID uint64) bool {
	for _, src := range a.sources {
		if src.ChainID() == chainID {
			return true
		}
	}
	return false
}

// FetchAll returns one record per configured chain, or a ChainReadFailure
// naming the first chain that failed.
func (a *Aggregator) FetchAll(ctx context.Context, addr vo.Address) (presale.AggregatedBalances, error) {
	records := make([]presale.ChainBalanceRecord, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			chainID := src.ChainID()
			start := time.Now()

			err := goroutine.SafeCall(a.logger, "user_info_"+strconv.FormatUint(chainID, 10), func() error {
				rec, err := src.UserInfo(gctx, addr, a.index)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("empty user info")
				}
				records[i] = *rec
				records[i].ChainID = chainID
				return nil
			})

			if err != nil {
				a.recorder.ChainRead(chainID, ChainReadError, time.Since(start))
				a.logger.Warnw("chain read failed",
					"chain_id", chainID,
					"for_address", addr.String(),
					"error", err,
				)
				return apperrors.NewChainReadFailureError(chainID, err)
			}
			a.recorder.ChainRead(chainID, ChainReadOK, time.Since(start))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return presale.AggregatedBalances{}, err
	}
	return presale.NewAggregatedBalances(records), nil
}
