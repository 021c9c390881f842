package services

import (
	"context"
	"sync"
	"time"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

type mockLockStore struct {
	ReadFunc   func(ctx context.Context, addr vo.Address) (*presale.Lock, error)
	WriteFunc  func(ctx context.Context, lock *presale.Lock) error
	OwnersFunc func(ctx context.Context, addr vo.Address) ([]string, error)
}

func (m *mockLockStore) Read(ctx context.Context, addr vo.Address) (*presale.Lock, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, addr)
	}
	return nil, nil
}

func (m *mockLockStore) Write(ctx context.Context, lock *presale.Lock) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, lock)
	}
	return nil
}

func (m *mockLockStore) Owners(ctx context.Context, addr vo.Address) ([]string, error) {
	if m.OwnersFunc != nil {
		return m.OwnersFunc(ctx, addr)
	}
	return nil, nil
}

type mockBalanceSource struct {
	chainID      uint64
	UserInfoFunc func(ctx context.Context, addr vo.Address, index uint8) (*presale.ChainBalanceRecord, error)
}

func (m *mockBalanceSource) ChainID() uint64 {
	return m.chainID
}

func (m *mockBalanceSource) UserInfo(ctx context.Context, addr vo.Address, index uint8) (*presale.ChainBalanceRecord, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(ctx, addr, index)
	}
	return &presale.ChainBalanceRecord{ChainID: m.chainID}, nil
}

type recordingRecorder struct {
	mu         sync.Mutex
	locks      []string
	chainReads map[uint64]string
	decisions  []string
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{chainReads: make(map[uint64]string)}
}

func (r *recordingRecorder) LockAcquisition(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks = append(r.locks, result)
}

func (r *recordingRecorder) ChainRead(chainID uint64, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chainReads[chainID] = status
}

func (r *recordingRecorder) DepositDecision(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, outcome)
}
