package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	propertyUsecases "github.com/buildhomemart/homemart/internal/application/property/usecases"
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers/common"
	"github.com/buildhomemart/homemart/internal/shared/logger"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

type unarchiveListingsUseCase interface {
	Execute(ctx context.Context, cmd propertyUsecases.UnarchiveFreeListingsCommand) *propertyUsecases.UnarchiveFreeListingsResult
}

type VendorHandler struct {
	unarchiveUC unarchiveListingsUseCase
	logger      logger.Interface
}

func NewVendorHandler(unarchiveUC unarchiveListingsUseCase, logger logger.Interface) *VendorHandler {
	return &VendorHandler{
		unarchiveUC: unarchiveUC,
		logger:      logger,
	}
}

// UnarchiveListings restores every archived listing of the vendor.
func (h *VendorHandler) UnarchiveListings(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "vendor")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result := h.unarchiveUC.Execute(c.Request.Context(), propertyUsecases.UnarchiveFreeListingsCommand{UserID: userID})
	common.WriteResult(c, result.Success, result.Error, "", result)
}
