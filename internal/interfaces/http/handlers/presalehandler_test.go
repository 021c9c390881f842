package handlers

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrc20-presale/presale-node/internal/application/presale/usecases"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/interfaces/dto"
	"github.com/mrc20-presale/presale-node/internal/interfaces/http/handlers/testutil"
	"github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockDepositUC struct {
	result *usecases.DepositResult
	err    error
	cmd    usecases.DepositCommand
	calls  int
}

func (m *mockDepositUC) Execute(ctx context.Context, cmd usecases.DepositCommand) (*usecases.DepositResult, error) {
	m.calls++
	m.cmd = cmd
	return m.result, m.err
}

type mockCheckLockUC struct {
	result *usecases.CheckLockResult
	err    error
	query  usecases.CheckLockQuery
}

func (m *mockCheckLockUC) Execute(ctx context.Context, query usecases.CheckLockQuery) (*usecases.CheckLockResult, error) {
	m.query = query
	return m.result, m.err
}

type mockDispatcher struct {
	response *usecases.Response
	err      error
	digest   string
	hashErr  error
	req      usecases.Request
	calls    int
	hashed   []presale.DepositDecision
}

func (m *mockDispatcher) Dispatch(ctx context.Context, req usecases.Request) (*usecases.Response, error) {
	m.calls++
	m.req = req
	return m.response, m.err
}

func (m *mockDispatcher) HashRequestResult(method string, decision presale.DepositDecision) (string, error) {
	if method != usecases.MethodDeposit {
		return "", errors.NewUnknownMethodError(method)
	}
	m.hashed = append(m.hashed, decision)
	return m.digest, m.hashErr
}

// =====================================================================
// Fixtures
// =====================================================================

const (
	testHolder = "0x5629227c1e2542dbc5aca0cecb7cd3e02c82ad0a"
	testDigest = "0x6c00000000000000000000000000000000000000000000000000000000000042"
)

var testToken = common.HexToAddress("0x701048911b1f1121E33834d3633227A954978d53")

func testDecision() presale.DepositDecision {
	tokens := func(v int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(v), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	}
	return presale.NewDepositDecision(
		testToken,
		vo.MustAddress(testHolder),
		2,
		tokens(70),
		80001,
		tokens(1),
		tokens(30),
		big.NewInt(1659640000),
	)
}

func testDepositResult() *usecases.DepositResult {
	return &usecases.DepositResult{
		Decision: testDecision(),
		Phase:    vo.PhaseAllocation,
		Lock: &presale.Lock{
			Address:  vo.MustAddress(testHolder),
			Owner:    "node-1:abc",
			ExpireAt: time.UnixMilli(1659640300000),
		},
	}
}

func testBoundaries() presale.Boundaries {
	return presale.NewSchedule(1659547199).Boundaries()
}

func newTestPresaleHandler(dep *mockDepositUC, check *mockCheckLockUC, disp *mockDispatcher) *PresaleHandler {
	return NewPresaleHandler(dep, check, disp, logger.NewNop())
}

// =====================================================================
// CheckLock
// =====================================================================

func TestPresaleHandler_CheckLock_CoolDown(t *testing.T) {
	check := &mockCheckLockUC{result: &usecases.CheckLockResult{
		Locked:     true,
		LockKind:   vo.LockKindCoolDown,
		LockTime:   300,
		ExpireAt:   time.UnixMilli(1659640300000),
		ReopenTime: time.UnixMilli(1659640300000),
		Day:        2,
		Phase:      vo.PhaseAllocation,
		Boundaries: testBoundaries(),
		Message:    usecases.MessageLocked,
	}}
	h := newTestPresaleHandler(&mockDepositUC{}, check, &mockDispatcher{})

	c, w := testutil.NewTestContext(http.MethodGet, "/v1/presale/locks/"+testHolder, nil)
	testutil.SetURLParam(c, "address", testHolder)

	h.CheckLock(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testHolder, check.query.ForAddress)

	var data dto.CheckLockResponse
	resp, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, data.Locked)
	assert.Equal(t, "COOL_DOWN", data.LockKind)
	assert.EqualValues(t, 300, data.LockTime)
	assert.EqualValues(t, 1659640300000, data.ExpireAt)
	assert.EqualValues(t, 1659547199, data.StartTime)
	assert.EqualValues(t, 1659806399000, data.PublicSale)
	assert.EqualValues(t, 1659979199000, data.PublicTime)
	assert.Equal(t, "allocation", data.Phase)
	assert.Equal(t, usecases.MessageLocked, data.Message)
}

func TestPresaleHandler_CheckLock_UnlockedOmitsLockFields(t *testing.T) {
	now := time.UnixMilli(1659640000000)
	check := &mockCheckLockUC{result: &usecases.CheckLockResult{
		ReopenTime: now,
		Day:        2,
		Boundaries: testBoundaries(),
		Message:    usecases.MessageNotLocked,
	}}
	h := newTestPresaleHandler(&mockDepositUC{}, check, &mockDispatcher{})

	c, w := testutil.NewTestContext(http.MethodGet, "/v1/presale/locks/"+testHolder, nil)
	testutil.SetURLParam(c, "address", testHolder)

	h.CheckLock(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "lock_kind")
	assert.NotContains(t, body, "expire_at")
	assert.Contains(t, body, `"reopen_time":1659640000000`)
	assert.Contains(t, body, `"locked":false`)
}

func TestPresaleHandler_CheckLock_Errors(t *testing.T) {
	tests := []struct {
		name       string
		address    string
		ucErr      error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing address",
			address:    "",
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "use case rejects address",
			address:    "not-an-address",
			ucErr:      errors.NewInvalidInputError("Invalid sender address"),
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "store failure is hidden",
			address:    testHolder,
			ucErr:      fmt.Errorf("redis: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantType:   string(errors.ErrorTypeInternal),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{err: tt.ucErr}, &mockDispatcher{})

			c, w := testutil.NewTestContext(http.MethodGet, "/v1/presale/locks/", nil)
			testutil.SetURLParam(c, "address", tt.address)

			h.CheckLock(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}

// =====================================================================
// Deposit
// =====================================================================

func depositBody() dto.DepositRequest {
	return dto.DepositRequest{
		Token:      "ert",
		ForAddress: " " + testHolder + " ",
		Amount:     "30000000000000000000",
		Signature:  "0xsig",
		ChainID:    80001,
		Timestamp:  1659640000,
	}
}

func TestPresaleHandler_Deposit_Success(t *testing.T) {
	dep := &mockDepositUC{result: testDepositResult()}
	disp := &mockDispatcher{digest: testDigest}
	h := newTestPresaleHandler(dep, &mockCheckLockUC{}, disp)

	c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/deposit", depositBody())

	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.DepositCommand{
		Token:      "ert",
		ForAddress: testHolder,
		Amount:     "30000000000000000000",
		Signature:  "0xsig",
		ChainID:    80001,
		Timestamp:  1659640000,
	}, dep.cmd)

	var data dto.DepositResponse
	resp, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, testDigest, data.Digest)
	assert.Equal(t, "allocation", data.Phase)
	assert.EqualValues(t, 1659640300000, data.LockExpireAt)
	assert.Equal(t, testToken.Hex(), data.Decision.Token)
	assert.Equal(t, testHolder, data.Decision.ForAddress)
	assert.Equal(t, 2, data.Decision.Day)
	assert.Equal(t, "70000000000000000000", data.Decision.MaxRemainingAmount)
	assert.Equal(t, "1000000000000000000", data.Decision.UnitPrice)
	assert.Equal(t, "30000000000000000000", data.Decision.Amount)
	assert.Equal(t, "1659640000", data.Decision.Timestamp)
	require.Len(t, disp.hashed, 1)
	assert.Equal(t, testDecision(), disp.hashed[0])
}

func TestPresaleHandler_Deposit_UnhashableDecisionOmitsDigest(t *testing.T) {
	result := testDepositResult()
	result.Decision.MaxRemainingAmount = big.NewInt(-50)
	disp := &mockDispatcher{hashErr: errors.NewInvalidInputError("Decision cannot be hashed")}
	h := newTestPresaleHandler(&mockDepositUC{result: result}, &mockCheckLockUC{}, disp)

	c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/deposit", depositBody())

	h.Deposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "digest")
	assert.Contains(t, w.Body.String(), `"max_remaining_amount":"-50"`)
}

func TestPresaleHandler_Deposit_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        interface{}
		ucErr       error
		wantStatus  int
		wantType    string
		wantContext map[string]any
		wantCalled  bool
	}{
		{
			name:       "malformed json",
			body:       `{"token":`,
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "already locked carries retry hints",
			body:       depositBody(),
			ucErr:      errors.NewAlreadyLockedError(time.UnixMilli(1659640300000), 5*time.Minute, 2),
			wantStatus: http.StatusConflict,
			wantType:   string(errors.ErrorTypeAlreadyLocked),
			wantContext: map[string]any{
				errors.ContextExpireAt: float64(1659640300000),
				errors.ContextLockTime: float64(300),
				errors.ContextDay:      float64(2),
			},
			wantCalled: true,
		},
		{
			name:       "zero allocation",
			body:       depositBody(),
			ucErr:      errors.NewZeroAllocationError(time.UnixMilli(1659806399000), 2),
			wantStatus: http.StatusForbidden,
			wantType:   string(errors.ErrorTypeZeroAllocation),
			wantContext: map[string]any{
				errors.ContextExpireAt: float64(1659806399000),
				errors.ContextDay:      float64(2),
			},
			wantCalled: true,
		},
		{
			name:       "cap exceeded",
			body:       depositBody(),
			ucErr:      errors.NewCapExceededError("day 2 allocation exceeded"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   string(errors.ErrorTypeCapExceeded),
			wantCalled: true,
		},
		{
			name:       "chain read failure",
			body:       depositBody(),
			ucErr:      errors.NewChainReadFailureError(97, fmt.Errorf("timeout")),
			wantStatus: http.StatusBadGateway,
			wantType:   string(errors.ErrorTypeChainReadFailure),
			wantContext: map[string]any{
				errors.ContextChainID: float64(97),
			},
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep := &mockDepositUC{err: tt.ucErr}
			disp := &mockDispatcher{digest: testDigest}
			h := newTestPresaleHandler(dep, &mockCheckLockUC{}, disp)

			c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/deposit", tt.body)

			h.Deposit(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, dep.calls == 1)
			assert.Empty(t, disp.hashed)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			for k, v := range tt.wantContext {
				assert.Equal(t, v, resp.Error.Context[k], k)
			}
		})
	}
}

// =====================================================================
// Dispatch
// =====================================================================

func TestPresaleHandler_Dispatch_Deposit(t *testing.T) {
	disp := &mockDispatcher{
		response: &usecases.Response{Method: usecases.MethodDeposit, Deposit: testDepositResult()},
		digest:   testDigest,
	}
	h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{}, disp)

	body := map[string]any{"method": "deposit", "params": depositBody()}
	c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/requests", body)

	h.Dispatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.MethodDeposit, disp.req.Method)
	assert.Equal(t, testHolder, disp.req.Deposit.ForAddress)
	assert.EqualValues(t, 80001, disp.req.Deposit.ChainID)

	var data dto.RequestResponse
	_, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	assert.Equal(t, "deposit", data.Method)
	require.NotNil(t, data.Deposit)
	assert.Equal(t, testDigest, data.Deposit.Digest)
	assert.Nil(t, data.CheckLock)
}

func TestPresaleHandler_Dispatch_CheckLock(t *testing.T) {
	disp := &mockDispatcher{response: &usecases.Response{
		Method: usecases.MethodCheckLock,
		CheckLock: &usecases.CheckLockResult{
			Locked:     true,
			LockKind:   vo.LockKindAllocation,
			LockTime:   1659806399000,
			ExpireAt:   time.UnixMilli(1659806399000),
			ReopenTime: time.UnixMilli(1659806399000),
			Day:        1,
			Boundaries: testBoundaries(),
			Message:    usecases.MessageZeroAllocation,
		},
	}}
	h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{}, disp)

	body := map[string]any{"method": "checkLock", "params": map[string]string{"for_address": testHolder}}
	c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/requests", body)

	h.Dispatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testHolder, disp.req.Lock.ForAddress)
	assert.Empty(t, disp.hashed)

	var data dto.RequestResponse
	_, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	require.NotNil(t, data.CheckLock)
	assert.Equal(t, "ALLOCATION", data.CheckLock.LockKind)
	assert.EqualValues(t, 1659806399000, data.CheckLock.LockTime)
	assert.Nil(t, data.Deposit)
}

func TestPresaleHandler_Dispatch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		dispErr    error
		wantStatus int
		wantType   string
		wantCalled bool
	}{
		{
			name:       "missing method",
			body:       map[string]any{"params": map[string]string{}},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "deposit without params",
			body:       map[string]any{"method": "deposit"},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "params of the wrong shape",
			body:       `{"method":"checkLock","params":[1,2]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "unknown method",
			body:       map[string]any{"method": "withdraw", "params": map[string]string{}},
			dispErr:    errors.NewUnknownMethodError("withdraw"),
			wantStatus: http.StatusNotFound,
			wantType:   string(errors.ErrorTypeUnknownMethod),
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &mockDispatcher{err: tt.dispErr}
			h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{}, disp)

			c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/requests", tt.body)

			h.Dispatch(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, disp.calls == 1)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}

// =====================================================================
// Hash
// =====================================================================

func TestPresaleHandler_Hash(t *testing.T) {
	disp := &mockDispatcher{digest: testDigest}
	h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{}, disp)

	body := dto.HashRequest{Decision: dto.ToDecisionDTO(testDecision())}
	c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/hash", body)

	h.Hash(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, disp.hashed, 1)
	assert.Equal(t, testDecision(), disp.hashed[0])

	var data dto.HashResponse
	_, err := testutil.ParseData(w, &data)
	require.NoError(t, err)
	assert.Equal(t, "deposit", data.Method)
	assert.Equal(t, testDigest, data.Digest)
}

func TestPresaleHandler_Hash_Errors(t *testing.T) {
	valid := dto.ToDecisionDTO(testDecision())

	badAmount := valid
	badAmount.Amount = "12.5"

	badToken := valid
	badToken.Token = "ert"

	tests := []struct {
		name       string
		body       dto.HashRequest
		wantStatus int
		wantType   string
	}{
		{
			name:       "non-integer amount",
			body:       dto.HashRequest{Decision: badAmount},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "token symbol instead of contract",
			body:       dto.HashRequest{Decision: badToken},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeInvalidInput),
		},
		{
			name:       "unsigned method",
			body:       dto.HashRequest{Method: "checkLock", Decision: valid},
			wantStatus: http.StatusNotFound,
			wantType:   string(errors.ErrorTypeUnknownMethod),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &mockDispatcher{digest: testDigest}
			h := newTestPresaleHandler(&mockDepositUC{}, &mockCheckLockUC{}, disp)

			c, w := testutil.NewTestContext(http.MethodPost, "/v1/presale/hash", tt.body)

			h.Hash(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, disp.hashed)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
		})
	}
}
