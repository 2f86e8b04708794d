package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buildhomemart/homemart/internal/shared/constants"
)

// maxRequestIDLength bounds caller-supplied ids before they reach the logs.
const maxRequestIDLength = 64

// RequestID propagates X-Request-ID, generating one when the caller did not.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderXRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, id)
		c.Header(constants.HeaderXRequestID, id)
		c.Next()
	}
}
