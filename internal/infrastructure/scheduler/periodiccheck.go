// Package scheduler runs the pending-payment sweep on gocron v2.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	"github.com/buildhomemart/homemart/internal/shared/biztime"
	"github.com/buildhomemart/homemart/internal/shared/goroutine"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

// sweepTimeout bounds a single sweep.
const sweepTimeout = 5 * time.Minute

// ErrSweepInProgress is returned by RunOnce when another sweep holds the
// local guard or the cross-instance lock.
var ErrSweepInProgress = errors.New("payment sweep already in progress")

// Sweeper is the expired-payment check.
type Sweeper interface {
	Execute(ctx context.Context) *paymentUsecases.CheckExpiredPaymentsResult
}

// Locker is a non-blocking cross-instance lock.
type Locker interface {
	TryAcquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// Status is the externally visible state of the sweep job.
type Status struct {
	IsScheduled     bool       `json:"isScheduled"`
	IsRunning       bool       `json:"isRunning"`
	IntervalSeconds int        `json:"intervalSeconds"`
	LastRunAt       *time.Time `json:"lastRunAt,omitempty"`
	LastExpired     int        `json:"lastExpired"`
	LastUpdated     int        `json:"lastUpdated"`
	LastError       string     `json:"lastError,omitempty"`
}

// PeriodicCheck owns the sweep job. A nil locker disables the
// cross-instance lock.
type PeriodicCheck struct {
	sweeper Sweeper
	locker  Locker
	logger  logger.Interface

	scheduler gocron.Scheduler
	interval  time.Duration
	scheduled atomic.Bool
	running   atomic.Bool
	stopOnce  sync.Once

	mu   sync.RWMutex
	last *paymentUsecases.CheckExpiredPaymentsResult
}

func NewPeriodicCheck(sweeper Sweeper, locker Locker, log logger.Interface) *PeriodicCheck {
	return &PeriodicCheck{
		sweeper: sweeper,
		locker:  locker,
		logger:  log.Named("payment-sweep"),
	}
}

// StartPeriodicCheck builds a PeriodicCheck and starts it.
func StartPeriodicCheck(sweeper Sweeper, locker Locker, interval time.Duration, log logger.Interface) (*PeriodicCheck, error) {
	p := NewPeriodicCheck(sweeper, locker, log)
	if err := p.Start(interval); err != nil {
		return nil, err
	}
	return p, nil
}

// Start runs a sweep immediately and then every interval. Runs that would
// overlap the previous one are skipped.
func (p *PeriodicCheck) Start(interval time.Duration) error {
	if p.scheduled.Load() {
		return nil
	}
	if interval <= 0 {
		return errors.New("sweep interval must be positive")
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(biztime.Location()))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			defer cancel()
			defer goroutine.Recover(p.logger, "payment-sweep")
			if _, err := p.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepInProgress) {
				p.logger.Errorw("payment sweep failed", "error", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("payment", "expire"),
		gocron.WithName("payment-expiry-sweep"),
	)
	if err != nil {
		_ = s.Shutdown()
		return err
	}

	p.scheduler = s
	p.interval = interval
	s.Start()
	p.scheduled.Store(true)

	p.logger.Infow("payment sweep scheduled", "interval", interval)
	return nil
}

// Stop cancels future runs and waits for an in-flight run to finish.
func (p *PeriodicCheck) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		if p.scheduler == nil {
			return
		}
		p.scheduled.Store(false)
		err = p.scheduler.Shutdown()
		p.logger.Infow("payment sweep stopped")
	})
	return err
}

func (p *PeriodicCheck) IsScheduled() bool { return p.scheduled.Load() }

func (p *PeriodicCheck) IsRunning() bool { return p.running.Load() }

// RunOnce sweeps now unless a sweep is already running here or on another
// instance. A lock backend error is logged and the sweep proceeds; the
// conditional status writes keep concurrent sweeps safe.
func (p *PeriodicCheck) RunOnce(ctx context.Context) (*paymentUsecases.CheckExpiredPaymentsResult, error) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Debugw("skipping sweep, previous run still active")
		return nil, ErrSweepInProgress
	}
	defer p.running.Store(false)

	if p.locker != nil {
		release, acquired, err := p.locker.TryAcquire(ctx)
		switch {
		case err != nil:
			p.logger.Warnw("sweep lock unavailable, continuing without it", "error", err)
		case !acquired:
			p.logger.Debugw("skipping sweep, another instance holds the lock")
			return nil, ErrSweepInProgress
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					p.logger.Warnw("failed to release sweep lock", "error", err)
				}
			}()
		}
	}

	start := biztime.NowUTC()
	result := p.sweeper.Execute(ctx)

	p.mu.Lock()
	p.last = result
	p.mu.Unlock()

	switch {
	case !result.Success:
		p.logger.Errorw("payment sweep failed",
			"error", result.Error,
			"duration", time.Since(start),
		)
	case result.TotalExpired > 0:
		p.logger.Infow("expired payments processed",
			"expired", result.TotalExpired,
			"updated", result.UpdatedCount,
			"duration", time.Since(start),
		)
	default:
		p.logger.Debugw("no expired payments", "duration", time.Since(start))
	}

	return result, nil
}

func (p *PeriodicCheck) Status() Status {
	st := Status{
		IsScheduled:     p.IsScheduled(),
		IsRunning:       p.IsRunning(),
		IntervalSeconds: int(p.interval / time.Second),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last != nil {
		at := p.last.Timestamp
		st.LastRunAt = &at
		st.LastExpired = p.last.TotalExpired
		st.LastUpdated = p.last.UpdatedCount
		st.LastError = p.last.Error
	}
	return st
}
