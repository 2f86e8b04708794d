package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers/common"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/errors"
	"github.com/buildhomemart/homemart/internal/shared/logger"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

// maxWebhookBody caps the webhook payload read into memory.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	handleWebhookUC handleWebhookUseCase
	getDetailUC     getPaymentDetailUseCase
	verifyUC        verifyPaymentStatusUseCase
	markFailedUC    markPaymentFailedUseCase
	getStatsUC      getPaymentStatsUseCase
	logger          logger.Interface
}

func NewPaymentHandler(
	handleWebhookUC handleWebhookUseCase,
	getDetailUC getPaymentDetailUseCase,
	verifyUC verifyPaymentStatusUseCase,
	markFailedUC markPaymentFailedUseCase,
	getStatsUC getPaymentStatsUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		handleWebhookUC: handleWebhookUC,
		getDetailUC:     getDetailUC,
		verifyUC:        verifyUC,
		markFailedUC:    markFailedUC,
		getStatsUC:      getStatsUC,
		logger:          logger,
	}
}

// MarkPaymentFailedRequest names the payment by any identifier. When several
// are given they are tried in the order local id, order id, gateway payment id.
// An empty reason falls back to the generic processing failure.
type MarkPaymentFailedRequest struct {
	PaymentID         uint   `json:"paymentId"`
	OrderID           string `json:"orderId" binding:"max=64"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"max=64"`
	Reason            string `json:"reason" binding:"max=500"`
}

func (r MarkPaymentFailedRequest) lookups() []payment.Lookup {
	var out []payment.Lookup
	if r.PaymentID != 0 {
		out = append(out, payment.ByID(r.PaymentID))
	}
	if id := strings.TrimSpace(r.OrderID); id != "" {
		out = append(out, payment.ByOrderID(id))
	}
	if id := strings.TrimSpace(r.RazorpayPaymentID); id != "" {
		out = append(out, payment.ByGatewayPaymentID(id))
	}
	return out
}

// HandleRazorpayWebhook verifies the signature over the raw body and applies the event.
func (h *PaymentHandler) HandleRazorpayWebhook(c *gin.Context) {
	body, err := readLimited(c, maxWebhookBody)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read webhook body"))
		return
	}

	result, err := h.handleWebhookUC.Execute(c.Request.Context(), paymentUsecases.HandleWebhookCommand{
		Body:      body,
		Signature: c.GetHeader(constants.HeaderRazorpaySignature),
	})
	if err != nil {
		h.logger.Warnw("webhook rejected", "error", err, "client_ip", c.ClientIP())
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// GetPaymentStatus returns the detailed status of a payment looked up by
// local id, order id or gateway payment id.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("id"))
	if identifier == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("payment identifier is required"))
		return
	}

	result := h.getDetailUC.Execute(c.Request.Context(), paymentUsecases.GetPaymentDetailCommand{Identifier: identifier})
	common.WriteResult(c, result.Success, result.Error, "", result)
}

// VerifyPayment reconciles a payment against the gateway.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	paymentID, err := utils.ParseUintParam(c, "id", "payment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result := h.verifyUC.Execute(c.Request.Context(), paymentUsecases.VerifyPaymentStatusCommand{PaymentID: paymentID})
	common.WriteResult(c, result.Success, result.Error, result.Message, result)
}

// MarkPaymentFailed is the manual failure path.
func (h *PaymentHandler) MarkPaymentFailed(c *gin.Context) {
	var req MarkPaymentFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugw("invalid mark failed request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request", err.Error()))
		return
	}
	lookups := req.lookups()
	if len(lookups) == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("one of paymentId, orderId or razorpayPaymentId is required"))
		return
	}

	result := h.markFailedUC.Execute(c.Request.Context(), paymentUsecases.MarkPaymentFailedCommand{
		Lookups: lookups,
		Reason:  strings.TrimSpace(req.Reason),
	})
	common.WriteResult(c, result.Success, result.Error, result.Message, result)
}

func (h *PaymentHandler) GetPaymentStats(c *gin.Context) {
	result := h.getStatsUC.Execute(c.Request.Context())
	if !result.Success {
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to load payment stats"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func readLimited(c *gin.Context, limit int64) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, limit))
}
