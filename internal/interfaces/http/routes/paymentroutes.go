package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
	CleanupHandler *handlers.CleanupHandler
}

// SetupPaymentRoutes configures the webhook, payment and payment admin routes.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	api.POST("/webhooks/razorpay", cfg.PaymentHandler.HandleRazorpayWebhook)

	payments := api.Group("/payments")
	{
		payments.GET("/:id/status", cfg.PaymentHandler.GetPaymentStatus)
		payments.POST("/:id/verify", cfg.PaymentHandler.VerifyPayment)
		payments.POST("/fail", cfg.PaymentHandler.MarkPaymentFailed)
	}

	admin := api.Group("/admin/payments")
	{
		admin.GET("/stats", cfg.PaymentHandler.GetPaymentStats)
		admin.GET("/cleanup", cfg.CleanupHandler.GetStatus)
		admin.POST("/cleanup/run", cfg.CleanupHandler.RunNow)
	}
}
