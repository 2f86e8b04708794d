package http

import (
	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/interfaces/http/middleware"
	"github.com/buildhomemart/homemart/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes. Admin routes expect the
// surrounding gateway to have authenticated the caller.
func (c *Container) SetupRoutes() {
	httpLog := c.log.Named("http")

	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(httpLog))
	c.engine.Use(middleware.Recovery(httpLog))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.Health)

	api := c.engine.Group("/api")
	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler: c.hdlrs.paymentHandler,
		CleanupHandler: c.hdlrs.cleanupHandler,
	})
	routes.SetupPlanRoutes(api, c.hdlrs.planHandler)
	routes.SetupVendorRoutes(api, c.hdlrs.vendorHandler)
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}
