package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	subscriptionUsecases "github.com/buildhomemart/homemart/internal/application/subscription/usecases"
	"github.com/buildhomemart/homemart/internal/infrastructure/cache"
	"github.com/buildhomemart/homemart/internal/infrastructure/config"
	"github.com/buildhomemart/homemart/internal/infrastructure/payment/razorpay"
	"github.com/buildhomemart/homemart/internal/infrastructure/pubsub"
	"github.com/buildhomemart/homemart/internal/infrastructure/scheduler"
	"github.com/buildhomemart/homemart/internal/shared/constants"
	"github.com/buildhomemart/homemart/internal/shared/goroutine"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases,
// handlers and the background sweep. It is the composition root for both the
// HTTP server and the one-shot CLI commands. Redis is optional: without it
// the sweep runs unlocked and no subscription events are published.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Gateway
	gateway  *razorpay.Client
	verifier *razorpay.WebhookVerifier

	// Redis-backed collaborators, nil without Redis
	eventBus  *pubsub.RedisSubscriptionEventBus
	sweepLock *cache.DistributedLock

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Background services
	paymentSweep *scheduler.PeriodicCheck
	eventsCancel context.CancelFunc
	eventsDone   chan struct{}
	shutdownOnce sync.Once
}

// NewContainer wires every dependency. redisClient may be nil.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.initInfrastructure()
	c.repos = newRepositories(db, log)
	c.initUseCases()
	c.initHandlers()

	return c
}

func (c *Container) initInfrastructure() {
	c.gateway = razorpay.NewClient(&c.cfg.Razorpay, c.log.Named("razorpay"))
	c.verifier = razorpay.NewWebhookVerifier(c.cfg.Razorpay.GetWebhookSecret())

	if c.redis == nil {
		c.log.Warnw("redis not configured; sweep lock and subscription events disabled")
		return
	}
	c.eventBus = pubsub.NewRedisSubscriptionEventBus(c.redis, c.log.Named("subscription-events"))
	c.sweepLock = cache.NewDistributedLock(c.redis, constants.RedisKeyReconcileLock, c.cfg.Reconciler.GetLockTTL())
}

// PaymentSweep is the expired-payment job handle. It exists whether or not
// the schedule has been started.
func (c *Container) PaymentSweep() *scheduler.PeriodicCheck {
	return c.paymentSweep
}

// SeedPlans exposes the catalogue seeding use case to the CLI.
func (c *Container) SeedPlans() *subscriptionUsecases.SeedPlansUseCase {
	return c.ucs.seedPlansUC
}

// CheckExpiredPayments exposes the raw sweep use case to the CLI.
func (c *Container) CheckExpiredPayments() *paymentUsecases.CheckExpiredPaymentsUseCase {
	return c.ucs.checkExpiredPaymentsUC
}

// StartBackground starts the periodic sweep when enabled and follows
// subscription events for the audit log when Redis is present.
func (c *Container) StartBackground() error {
	if c.cfg.Reconciler.Enabled {
		if err := c.paymentSweep.Start(c.cfg.Reconciler.GetInterval()); err != nil {
			return err
		}
	} else {
		c.log.Infow("payment sweep disabled by configuration")
	}

	if c.eventBus != nil {
		ctx, cancel := context.WithCancel(context.Background())
		c.eventsCancel = cancel
		c.eventsDone = make(chan struct{})
		audit := c.log.Named("subscription-audit")

		goroutine.SafeGo(c.log, "subscription-events", func() {
			defer close(c.eventsDone)
			err := c.eventBus.Subscribe(ctx, newSubscriptionAuditHandler(audit))
			if err != nil && !errors.Is(err, context.Canceled) {
				c.log.Errorw("subscription event listener stopped", "error", err)
			}
		})
	}
	return nil
}

// Shutdown stops background work. It is safe to call more than once.
func (c *Container) Shutdown(ctx context.Context) error {
	var err error
	c.shutdownOnce.Do(func() {
		if c.paymentSweep != nil {
			err = c.paymentSweep.Stop()
		}

		if c.eventsCancel != nil {
			c.eventsCancel()
			select {
			case <-c.eventsDone:
			case <-ctx.Done():
				c.log.Warnw("timed out waiting for subscription event listener")
			}
		}
	})
	return err
}
