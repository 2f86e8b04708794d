package handlers

import (
	"github.com/gin-gonic/gin"

	subdto "github.com/buildhomemart/homemart/internal/application/subscription/dto"
	"github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	vo "github.com/buildhomemart/homemart/internal/domain/subscription/valueobjects"
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers/common"
	"github.com/buildhomemart/homemart/internal/shared/errors"
	"github.com/buildhomemart/homemart/internal/shared/logger"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

// PlanHandler serves the admin plan-edit workflow: preview the impact,
// validate, apply, and inspect history and current subscribers.
type PlanHandler struct {
	analyzeImpactUC    analyzePlanChangeImpactUseCase
	validateChangesUC  validatePlanChangesUseCase
	applyChangesUC     applyPlanChangesUseCase
	getHistoryUC       getPlanChangeHistoryUseCase
	getSubscriptionsUC getAffectedSubscriptionsUseCase
	logger             logger.Interface
}

func NewPlanHandler(
	analyzeImpactUC analyzePlanChangeImpactUseCase,
	validateChangesUC validatePlanChangesUseCase,
	applyChangesUC applyPlanChangesUseCase,
	getHistoryUC getPlanChangeHistoryUseCase,
	getSubscriptionsUC getAffectedSubscriptionsUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		analyzeImpactUC:    analyzeImpactUC,
		validateChangesUC:  validateChangesUC,
		applyChangesUC:     applyChangesUC,
		getHistoryUC:       getHistoryUC,
		getSubscriptionsUC: getSubscriptionsUC,
		logger:             logger,
	}
}

// ApplyPlanChangesRequest is a plan edit plus the admin making it.
type ApplyPlanChangesRequest struct {
	subdto.PlanChanges
	ChangedBy uint `json:"changedBy"`
}

func (h *PlanHandler) AnalyzeImpact(c *gin.Context) {
	planID, changes, ok := h.bindChanges(c)
	if !ok {
		return
	}

	result := h.analyzeImpactUC.Execute(c.Request.Context(), usecases.AnalyzePlanChangeImpactCommand{
		PlanID:  planID,
		Changes: changes,
	})
	common.WriteResult(c, result.Success, result.Error, "", result)
}

func (h *PlanHandler) ValidateChanges(c *gin.Context) {
	planID, changes, ok := h.bindChanges(c)
	if !ok {
		return
	}

	result := h.validateChangesUC.Execute(c.Request.Context(), usecases.ValidatePlanChangesCommand{
		PlanID:  planID,
		Changes: changes,
	})
	common.WriteResult(c, result.Success, result.Error, "", result)
}

func (h *PlanHandler) ApplyChanges(c *gin.Context) {
	planID, err := utils.ParseUintParam(c, "id", "plan")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApplyPlanChangesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugw("invalid plan change request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request", err.Error()))
		return
	}

	result := h.applyChangesUC.Execute(c.Request.Context(), usecases.ApplyPlanChangesCommand{
		PlanID:    planID,
		Changes:   req.PlanChanges,
		ChangedBy: req.ChangedBy,
	})
	message := ""
	if result.Success {
		message = "plan updated"
	}
	common.WriteResult(c, result.Success, result.Error, message, result)
}

func (h *PlanHandler) GetHistory(c *gin.Context) {
	planID, err := utils.ParseUintParam(c, "id", "plan")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result := h.getHistoryUC.Execute(c.Request.Context(), planID)
	common.WriteResult(c, result.Success, result.Error, "", result)
}

// GetSubscriptions lists subscribers of a plan; ?status= defaults to active.
func (h *PlanHandler) GetSubscriptions(c *gin.Context) {
	planID, err := utils.ParseUintParam(c, "id", "plan")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := usecases.GetAffectedSubscriptionsQuery{PlanID: planID}
	if raw := c.Query("status"); raw != "" {
		status, err := vo.ParseSubscriptionStatus(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid subscription status", raw))
			return
		}
		query.Status = status
	}

	result := h.getSubscriptionsUC.Execute(c.Request.Context(), query)
	common.WriteResult(c, result.Success, result.Error, "", result)
}

func (h *PlanHandler) bindChanges(c *gin.Context) (uint, subdto.PlanChanges, bool) {
	planID, err := utils.ParseUintParam(c, "id", "plan")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, subdto.PlanChanges{}, false
	}

	var changes subdto.PlanChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		h.logger.Debugw("invalid plan change request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request", err.Error()))
		return 0, subdto.PlanChanges{}, false
	}
	return planID, changes, true
}
