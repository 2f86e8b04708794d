package http

import (
	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	propertyUsecases "github.com/buildhomemart/homemart/internal/application/property/usecases"
	subscriptionUsecases "github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/infrastructure/scheduler"
	"github.com/buildhomemart/homemart/internal/shared/db"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Payment
	checkExpiredPaymentsUC *paymentUsecases.CheckExpiredPaymentsUseCase
	verifyPaymentStatusUC  *paymentUsecases.VerifyPaymentStatusUseCase
	markPaymentFailedUC    *paymentUsecases.MarkPaymentFailedUseCase
	getPaymentStatsUC      *paymentUsecases.GetPaymentStatsUseCase
	getPaymentDetailUC     *paymentUsecases.GetPaymentDetailUseCase
	handleWebhookUC        *paymentUsecases.HandleWebhookUseCase

	// Plan
	analyzePlanChangeImpactUC  *subscriptionUsecases.AnalyzePlanChangeImpactUseCase
	validatePlanChangesUC      *subscriptionUsecases.ValidatePlanChangesUseCase
	applyPlanChangesUC         *subscriptionUsecases.ApplyPlanChangesUseCase
	getPlanChangeHistoryUC     *subscriptionUsecases.GetPlanChangeHistoryUseCase
	getAffectedSubscriptionsUC *subscriptionUsecases.GetAffectedSubscriptionsUseCase
	seedPlansUC                *subscriptionUsecases.SeedPlansUseCase

	// Property
	unarchiveFreeListingsUC *propertyUsecases.UnarchiveFreeListingsUseCase
}

func (c *Container) initUseCases() {
	r := c.repos
	log := c.log

	unarchiveUC := propertyUsecases.NewUnarchiveFreeListingsUseCase(r.propertyRepo, log.Named("unarchiver"))

	var publisher subscription.EventPublisher
	if c.eventBus != nil {
		publisher = c.eventBus
	}
	cascade := paymentUsecases.NewSubscriptionCascade(r.subscriptionRepo, publisher, unarchiveUC, log.Named("cascade"))

	paymentLog := log.Named("payment")
	markFailedUC := paymentUsecases.NewMarkPaymentFailedUseCase(r.paymentRepo, cascade, paymentLog)

	c.ucs = &allUseCases{
		checkExpiredPaymentsUC: paymentUsecases.NewCheckExpiredPaymentsUseCase(r.paymentRepo, cascade, paymentLog),
		verifyPaymentStatusUC:  paymentUsecases.NewVerifyPaymentStatusUseCase(r.paymentRepo, c.gateway, cascade, paymentLog),
		markPaymentFailedUC:    markFailedUC,
		getPaymentStatsUC:      paymentUsecases.NewGetPaymentStatsUseCase(r.paymentRepo, paymentLog),
		getPaymentDetailUC:     paymentUsecases.NewGetPaymentDetailUseCase(r.paymentRepo, paymentLog),
		handleWebhookUC:        paymentUsecases.NewHandleWebhookUseCase(r.paymentRepo, c.verifier, markFailedUC, cascade, log.Named("webhook")),

		analyzePlanChangeImpactUC:  subscriptionUsecases.NewAnalyzePlanChangeImpactUseCase(r.planRepo, r.subscriptionRepo, log.Named("plan")),
		validatePlanChangesUC:      subscriptionUsecases.NewValidatePlanChangesUseCase(r.planRepo, log.Named("plan")),
		applyPlanChangesUC:         subscriptionUsecases.NewApplyPlanChangesUseCase(r.planRepo, log.Named("plan")),
		getPlanChangeHistoryUC:     subscriptionUsecases.NewGetPlanChangeHistoryUseCase(r.planRepo, log.Named("plan")),
		getAffectedSubscriptionsUC: subscriptionUsecases.NewGetAffectedSubscriptionsUseCase(r.planRepo, r.subscriptionRepo, log.Named("plan")),
		seedPlansUC:                subscriptionUsecases.NewSeedPlansUseCase(r.planRepo, db.NewTransactionManager(c.db), log.Named("plan-seed")),

		unarchiveFreeListingsUC: unarchiveUC,
	}

	var locker scheduler.Locker
	if c.sweepLock != nil {
		locker = c.sweepLock
	}
	c.paymentSweep = scheduler.NewPeriodicCheck(c.ucs.checkExpiredPaymentsUC, locker, log)
}
