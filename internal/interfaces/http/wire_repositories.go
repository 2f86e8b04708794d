package http

import (
	"gorm.io/gorm"

	"github.com/buildhomemart/homemart/internal/domain/payment"
	"github.com/buildhomemart/homemart/internal/domain/property"
	"github.com/buildhomemart/homemart/internal/domain/subscription"
	"github.com/buildhomemart/homemart/internal/infrastructure/repository"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	paymentRepo      payment.PaymentRepository
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	propertyRepo     property.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		paymentRepo:      repository.NewPaymentRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db, log.Named("subscription-repo")),
		planRepo:         repository.NewPlanRepository(db),
		propertyRepo:     repository.NewPropertyRepository(db),
	}
}
