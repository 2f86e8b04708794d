package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	"github.com/buildhomemart/homemart/internal/infrastructure/scheduler"
	apperrors "github.com/buildhomemart/homemart/internal/shared/errors"
	"github.com/buildhomemart/homemart/internal/shared/logger"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

type paymentSweep interface {
	Status() scheduler.Status
	RunOnce(ctx context.Context) (*paymentUsecases.CheckExpiredPaymentsResult, error)
}

// CleanupHandler exposes the expired-payment sweep to admins.
type CleanupHandler struct {
	sweep  paymentSweep
	logger logger.Interface
}

func NewCleanupHandler(sweep paymentSweep, logger logger.Interface) *CleanupHandler {
	return &CleanupHandler{
		sweep:  sweep,
		logger: logger,
	}
}

func (h *CleanupHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.sweep.Status())
}

// RunNow sweeps synchronously. A sweep already running here or elsewhere is
// reported as a conflict.
func (h *CleanupHandler) RunNow(c *gin.Context) {
	result, err := h.sweep.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrSweepInProgress) {
			utils.ErrorResponseWithError(c, apperrors.NewConflictError(err.Error()))
			return
		}
		h.logger.Errorw("manual payment sweep failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Success {
		utils.ErrorResponseWithError(c, apperrors.NewInternalError("payment sweep failed"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "payment sweep completed", result)
}
