package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentUsecases "github.com/buildhomemart/homemart/internal/application/payment/usecases"
	"github.com/buildhomemart/homemart/internal/shared/logger"
)

type fakeSweeper struct {
	calls   atomic.Int32
	block   chan struct{}
	started chan struct{}
}

func (f *fakeSweeper) Execute(ctx context.Context) *paymentUsecases.CheckExpiredPaymentsResult {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return &paymentUsecases.CheckExpiredPaymentsResult{
		Success:      true,
		TotalExpired: 2,
		UpdatedCount: 1,
		Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

type fakeLocker struct {
	acquired bool
	err      error
	released atomic.Int32
}

func (f *fakeLocker) TryAcquire(ctx context.Context) (func(context.Context) error, bool, error) {
	if f.err != nil || !f.acquired {
		return nil, false, f.err
	}
	return func(context.Context) error {
		f.released.Add(1)
		return nil
	}, true, nil
}

func TestPeriodicCheck_RunsImmediatelyAndStops(t *testing.T) {
	sweeper := &fakeSweeper{}
	p, err := StartPeriodicCheck(sweeper, nil, time.Hour, logger.NewNop())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, p.IsScheduled())

	require.Eventually(t, func() bool { return p.Status().LastRunAt != nil }, time.Second, 10*time.Millisecond)
	st := p.Status()
	assert.Equal(t, 3600, st.IntervalSeconds)
	assert.Equal(t, 2, st.LastExpired)
	assert.Equal(t, 1, st.LastUpdated)

	require.NoError(t, p.Stop())
	assert.False(t, p.IsScheduled())
	require.NoError(t, p.Stop())
}

func TestPeriodicCheck_RepeatsOnInterval(t *testing.T) {
	sweeper := &fakeSweeper{}
	p, err := StartPeriodicCheck(sweeper, nil, 50*time.Millisecond, logger.NewNop())
	require.NoError(t, err)
	defer p.Stop()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestPeriodicCheck_SkipsOverlappingRuns(t *testing.T) {
	sweeper := &fakeSweeper{block: make(chan struct{}), started: make(chan struct{}, 1)}
	p := NewPeriodicCheck(sweeper, nil, logger.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.RunOnce(context.Background())
	}()
	<-sweeper.started
	assert.True(t, p.IsRunning())

	_, err := p.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSweepInProgress)

	close(sweeper.block)
	<-done
	assert.False(t, p.IsRunning())
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

func TestPeriodicCheck_Locking(t *testing.T) {
	t.Run("held elsewhere", func(t *testing.T) {
		sweeper := &fakeSweeper{}
		p := NewPeriodicCheck(sweeper, &fakeLocker{acquired: false}, logger.NewNop())

		_, err := p.RunOnce(context.Background())

		assert.ErrorIs(t, err, ErrSweepInProgress)
		assert.Zero(t, sweeper.calls.Load())
	})

	t.Run("acquired and released", func(t *testing.T) {
		sweeper := &fakeSweeper{}
		locker := &fakeLocker{acquired: true}
		p := NewPeriodicCheck(sweeper, locker, logger.NewNop())

		result, err := p.RunOnce(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, int32(1), locker.released.Load())
	})

	t.Run("backend down", func(t *testing.T) {
		sweeper := &fakeSweeper{}
		p := NewPeriodicCheck(sweeper, &fakeLocker{err: errors.New("dial tcp: connection refused")}, logger.NewNop())

		result, err := p.RunOnce(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, int32(1), sweeper.calls.Load())
	})
}

func TestPeriodicCheck_RejectsBadInterval(t *testing.T) {
	_, err := StartPeriodicCheck(&fakeSweeper{}, nil, 0, logger.NewNop())
	assert.Error(t, err)
}
