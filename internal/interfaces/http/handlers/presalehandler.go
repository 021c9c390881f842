package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/application/presale/usecases"
	"github.com/mrc20-presale/presale-node/internal/interfaces/dto"
	"github.com/mrc20-presale/presale-node/internal/shared/errors"
	"github.com/mrc20-presale/presale-node/internal/shared/logger"
	"github.com/mrc20-presale/presale-node/internal/shared/utils"
)

type PresaleHandler struct {
	depositUC   depositUseCase
	checkLockUC checkLockUseCase
	dispatcher  requestDispatcher
	logger      logger.Interface
}

func NewPresaleHandler(
	depositUC depositUseCase,
	checkLockUC checkLockUseCase,
	dispatcher requestDispatcher,
	logger logger.Interface,
) *PresaleHandler {
	return &PresaleHandler{
		depositUC:   depositUC,
		checkLockUC: checkLockUC,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// CheckLock handles GET /v1/presale/locks/:address
func (h *PresaleHandler) CheckLock(c *gin.Context) {
	address, err := dto.ParseLockAddress(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.checkLockUC.Execute(c.Request.Context(), usecases.CheckLockQuery{ForAddress: address})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToCheckLockResponse(result))
}

// Deposit handles POST /v1/presale/deposit
func (h *PresaleHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for deposit", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInvalidInputError("Invalid request body", err.Error()))
		return
	}

	result, err := h.depositUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Deposit approved", h.depositResponse(result))
}

// Dispatch handles POST /v1/presale/requests
func (h *PresaleHandler) Dispatch(c *gin.Context) {
	var envelope dto.RequestEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.logger.Warnw("invalid request envelope", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInvalidInputError("Invalid request body", err.Error()))
		return
	}

	req, err := envelope.ToRequest()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp, err := h.dispatcher.Dispatch(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	out := dto.RequestResponse{Method: resp.Method}
	switch {
	case resp.Deposit != nil:
		out.Deposit = h.depositResponse(resp.Deposit)
	case resp.CheckLock != nil:
		out.CheckLock = dto.ToCheckLockResponse(resp.CheckLock)
	}

	utils.SuccessResponse(c, http.StatusOK, "", out)
}

// Hash handles POST /v1/presale/hash
func (h *PresaleHandler) Hash(c *gin.Context) {
	var req dto.HashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewInvalidInputError("Invalid request body", err.Error()))
		return
	}

	decision, err := req.Decision.ToDecision()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	method := req.MethodOrDefault()
	digest, err := h.dispatcher.HashRequestResult(method, decision)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.HashResponse{Method: method, Digest: digest})
}

// depositResponse attaches the digest. A decision that cannot be hashed is
// still returned so the client sees the computed cap.
func (h *PresaleHandler) depositResponse(result *usecases.DepositResult) *dto.DepositResponse {
	digest, err := h.dispatcher.HashRequestResult(usecases.MethodDeposit, result.Decision)
	if err != nil {
		h.logger.Warnw("deposit decision was not hashed",
			"for_address", result.Decision.ForAddress.String(),
			"max_remaining_amount", result.Decision.MaxRemainingAmount.String(),
			"error", err,
		)
	}
	return dto.ToDepositResponse(result, digest)
}
