package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers"
)

func SetupVendorRoutes(api *gin.RouterGroup, handler *handlers.VendorHandler) {
	vendors := api.Group("/vendors")
	{
		vendors.POST("/:id/unarchive", handler.UnarchiveListings)
	}
}
