// Package common provides shared HTTP handler utilities.
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	subscriptionUsecases "github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	"github.com/buildhomemart/homemart/internal/shared/utils"
)

// ResultStatus maps a use case outcome to an HTTP status. Lookups that found
// nothing become 404; every other refusal is 422 so the payload still reaches
// the caller.
func ResultStatus(success bool, errMsg string) int {
	if success {
		return http.StatusOK
	}
	switch errMsg {
	case paymentUsecases.ErrMsgPaymentNotFound, subscriptionUsecases.ErrMsgPlanNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// WriteResult writes a use case result inside the standard envelope.
func WriteResult(c *gin.Context, success bool, errMsg, message string, data interface{}) {
	c.JSON(ResultStatus(success, errMsg), utils.APIResponse{
		Success: success,
		Data:    data,
		Message: message,
	})
}
