package http

import (
	"github.com/buildhomemart/homemart/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	paymentHandler *handlers.PaymentHandler
	cleanupHandler *handlers.CleanupHandler
	planHandler    *handlers.PlanHandler
	vendorHandler  *handlers.VendorHandler
	healthHandler  *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	u := c.ucs
	log := c.log.Named("http")

	c.hdlrs = &allHandlers{
		paymentHandler: handlers.NewPaymentHandler(
			u.handleWebhookUC,
			u.getPaymentDetailUC,
			u.verifyPaymentStatusUC,
			u.markPaymentFailedUC,
			u.getPaymentStatsUC,
			log,
		),
		cleanupHandler: handlers.NewCleanupHandler(c.paymentSweep, log),
		planHandler: handlers.NewPlanHandler(
			u.analyzePlanChangeImpactUC,
			u.validatePlanChangesUC,
			u.applyPlanChangesUC,
			u.getPlanChangeHistoryUC,
			u.getAffectedSubscriptionsUC,
			log,
		),
		vendorHandler: handlers.NewVendorHandler(u.unarchiveFreeListingsUC, log),
		healthHandler: handlers.NewHealthHandler(c.healthChecks()),
	}
}
