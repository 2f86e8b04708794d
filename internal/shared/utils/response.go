package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/errors"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

// ErrorResponse writes a plain error envelope with the given status.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	writeError(c, statusCode, ErrorInfo{Type: "error", Message: message})
}

// ErrorResponseWithError maps an AppError onto its status and type. Any
// other error becomes a 500 whose text is not exposed.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode, info := describeError(err)
	writeError(c, statusCode, info)
}

func describeError(err error) (int, ErrorInfo) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: constants.ErrMsgInternalServerError,
		}
	}
	return appErr.Code, ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	}
}

func writeError(c *gin.Context, statusCode int, info ErrorInfo) {
	c.JSON(statusCode, APIResponse{Success: false, Error: &info})
}
