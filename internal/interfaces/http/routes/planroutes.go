package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers"
)

// SetupPlanRoutes configures the admin plan-edit routes.
func SetupPlanRoutes(api *gin.RouterGroup, handler *handlers.PlanHandler) {
	plans := api.Group("/admin/plans")
	{
		plans.PUT("/:id", handler.ApplyChanges)
		plans.POST("/:id/impact", handler.AnalyzeImpact)
		plans.POST("/:id/validate", handler.ValidateChanges)
		plans.GET("/:id/history", handler.GetHistory)
		plans.GET("/:id/subscriptions", handler.GetSubscriptions)
	}
}
