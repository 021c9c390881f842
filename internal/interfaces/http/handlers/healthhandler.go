package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrc20-presale/presale-node/internal/shared/logger"
	"github.com/mrc20-presale/presale-node/internal/shared/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	logger logger.Interface
}

func NewHealthHandler(store Pinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "ok", nil)
}

// Readyz handles GET /readyz. The node is not ready while its lock store is unreachable.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warnw("lock store not ready", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "lock store unavailable")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ready", nil)
}
