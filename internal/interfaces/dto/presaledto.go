package dto

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/application/presale/usecases"
	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
	"github.com/mrc20-presale/presale-node/internal/shared/errors"
)

// DepositRequest represents HTTP request to validate a deposit.
// Field checks live in the deposit use case so every transport reports the same messages.
type DepositRequest struct {
	Token      string `json:"token"`
	ForAddress string `json:"for_address"`
	Amount     string `json:"amount"`
	Signature  string `json:"signature"`
	ChainID    uint64 `json:"chain_id"`
	Timestamp  int64  `json:"timestamp"`
}

// ToCommand converts HTTP DTO to the deposit command
func (r *DepositRequest) ToCommand() usecases.DepositCommand {
	return usecases.DepositCommand{
		Token:      strings.TrimSpace(r.Token),
		ForAddress: strings.TrimSpace(r.ForAddress),
		Amount:     strings.TrimSpace(r.Amount),
		Signature:  strings.TrimSpace(r.Signature),
		ChainID:    r.ChainID,
		Timestamp:  r.Timestamp,
	}
}

// CheckLockParams are the params of a checkLock request.
type CheckLockParams struct {
	ForAddress string `json:"for_address"`
}

// RequestEnvelope is the method-name request surface: {"method": ..., "params": {...}}.
type RequestEnvelope struct {
	Method string          `json:"method" binding:"required"`
	Params json.RawMessage `json:"params"`
}

// ToRequest decodes Params for the named method. Unknown methods are passed
// through so the dispatcher can reject them.
func (e *RequestEnvelope) ToRequest() (usecases.Request, error) {
	req := usecases.Request{Method: e.Method}

	switch e.Method {
	case usecases.MethodDeposit:
		var params DepositRequest
		if err := decodeParams(e.Params, &params); err != nil {
			return req, err
		}
		req.Deposit = params.ToCommand()
	case usecases.MethodCheckLock:
		var params CheckLockParams
		if err := decodeParams(e.Params, &params); err != nil {
			return req, err
		}
		req.Lock = usecases.CheckLockQuery{ForAddress: strings.TrimSpace(params.ForAddress)}
	}

	return req, nil
}

func decodeParams(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return errors.NewInvalidInputError("Invalid request params", "params are required")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.NewInvalidInputError("Invalid request params", err.Error())
	}
	return nil
}

// DecisionDTO is the wire form of a deposit decision. Integers are base-10
// strings so no client loses precision on uint256 values.
type DecisionDTO struct {
	Token              string `json:"token"`
	ForAddress         string `json:"for_address"`
	Day                int    `json:"day"`
	MaxRemainingAmount string `json:"max_remaining_amount"`
	ChainID            uint64 `json:"chain_id"`
	UnitPrice          string `json:"unit_price"`
	Amount             string `json:"amount"`
	Timestamp          string `json:"timestamp"`
}

func ToDecisionDTO(d presale.DepositDecision) DecisionDTO {
	return DecisionDTO{
		Token:              d.Token.Hex(),
		ForAddress:         d.ForAddress.String(),
		Day:                d.Day,
		MaxRemainingAmount: d.MaxRemainingAmount.String(),
		ChainID:            d.ChainID,
		UnitPrice:          d.UnitPriceScaled.String(),
		Amount:             d.RequestedAmount.String(),
		Timestamp:          d.RequestTimestamp.String(),
	}
}

// ToDecision parses the wire form back into a decision. Range checks on the
// numbers are left to the hasher.
func (d *DecisionDTO) ToDecision() (presale.DepositDecision, error) {
	if !common.IsHexAddress(d.Token) {
		return presale.DepositDecision{}, errors.NewInvalidInputError("Invalid token", d.Token)
	}
	forAddress, err := vo.NewAddress(d.ForAddress)
	if err != nil {
		return presale.DepositDecision{}, errors.NewInvalidInputError("Invalid sender address", err.Error())
	}

	values := make([]*big.Int, 0, 4)
	for _, field := range []struct{ name, value string }{
		{"max_remaining_amount", d.MaxRemainingAmount},
		{"unit_price", d.UnitPrice},
		{"amount", d.Amount},
		{"timestamp", d.Timestamp},
	} {
		v, ok := new(big.Int).SetString(strings.TrimSpace(field.value), 10)
		if !ok {
			return presale.DepositDecision{}, errors.NewInvalidInputError("Invalid decision field", field.name)
		}
		values = append(values, v)
	}

	return presale.NewDepositDecision(
		common.HexToAddress(d.Token),
		forAddress,
		d.Day,
		values[0],
		d.ChainID,
		values[1],
		values[2],
		values[3],
	), nil
}

type DepositResponse struct {
	Decision DecisionDTO `json:"decision"`
	// Digest is omitted when the decision cannot be attested.
	Digest       string `json:"digest,omitempty"`
	Phase        string `json:"phase"`
	LockExpireAt int64  `json:"lock_expire_at,omitempty"`
}

func ToDepositResponse(result *usecases.DepositResult, digest string) *DepositResponse {
	resp := &DepositResponse{
		Decision: ToDecisionDTO(result.Decision),
		Digest:   digest,
		Phase:    result.Phase.String(),
	}
	if result.Lock != nil {
		resp.LockExpireAt = result.Lock.ExpireAt.UnixMilli()
	}
	return resp
}

// CheckLockResponse carries instants in unix milliseconds, except StartTime
// which is in seconds like the contracts store it.
type CheckLockResponse struct {
	Locked     bool   `json:"locked"`
	LockKind   string `json:"lock_kind,omitempty"`
	LockTime   int64  `json:"lock_time,omitempty"`
	ExpireAt   int64  `json:"expire_at,omitempty"`
	ReopenTime int64  `json:"reopen_time"`
	Day        int    `json:"day"`
	Phase      string `json:"phase"`
	StartTime  int64  `json:"start_time"`
	PublicSale int64  `json:"public_sale"`
	PublicTime int64  `json:"public_time"`
	Message    string `json:"message"`
}

func ToCheckLockResponse(result *usecases.CheckLockResult) *CheckLockResponse {
	resp := &CheckLockResponse{
		Locked:     result.Locked,
		LockKind:   result.LockKind.String(),
		LockTime:   result.LockTime,
		ReopenTime: result.ReopenTime.UnixMilli(),
		Day:        result.Day,
		Phase:      result.Phase.String(),
		StartTime:  result.Boundaries.Start.Unix(),
		PublicSale: result.Boundaries.TieredStart.UnixMilli(),
		PublicTime: result.Boundaries.PublicStart.UnixMilli(),
		Message:    result.Message,
	}
	if !result.ExpireAt.IsZero() {
		resp.ExpireAt = result.ExpireAt.UnixMilli()
	}
	return resp
}

// RequestResponse holds whichever method result the dispatcher produced.
type RequestResponse struct {
	Method    string             `json:"method"`
	Deposit   *DepositResponse   `json:"deposit,omitempty"`
	CheckLock *CheckLockResponse `json:"check_lock,omitempty"`
}

// HashRequest asks the node to recompute the digest of a decision. Method
// defaults to deposit.
type HashRequest struct {
	Method   string      `json:"method"`
	Decision DecisionDTO `json:"decision"`
}

func (r *HashRequest) MethodOrDefault() string {
	if r.Method == "" {
		return usecases.MethodDeposit
	}
	return r.Method
}

type HashResponse struct {
	Method string `json:"method"`
	Digest string `json:"digest"`
}

// ParseLockAddress reads the address path parameter.
func ParseLockAddress(c *gin.Context) (string, error) {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		return "", errors.NewInvalidInputError("Invalid sender address", "address is required")
	}
	return address, nil
}
