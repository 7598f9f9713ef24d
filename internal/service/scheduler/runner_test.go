package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func TestRunner_Trigger(t *testing.T) {
	metrics := &nopMetrics{}
	r := NewRunner(metrics, logger.NewNop())

	var runs atomic.Int32
	r.Register(Job{Name: "scan", Interval: time.Hour, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})

	shared, err := r.Trigger(context.Background(), "scan")
	require.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, 1, metrics.jobs["scan"])
}

func TestRunner_TriggerUnknownJob(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())

	_, err := r.Trigger(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunner_JobErrorAndPanicAreReturned(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())
	boom := errors.New("boom")
	r.Register(Job{Name: "fails", Interval: time.Hour, Run: func(context.Context) error { return boom }})
	r.Register(Job{Name: "panics", Interval: time.Hour, Run: func(context.Context) error { panic("bug") }})

	_, err := r.Trigger(context.Background(), "fails")
	assert.ErrorIs(t, err, boom)

	_, err = r.Trigger(context.Background(), "panics")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRunner_OverlappingTriggersShareOneRun(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())

	var runs atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	r.Register(Job{Name: "slow", Interval: time.Hour, Run: func(context.Context) error {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Trigger(context.Background(), "slow")
	}()
	<-started

	secondDone := make(chan bool, 1)
	go func() {
		shared, _ := r.Trigger(context.Background(), "slow")
		secondDone <- shared
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	<-done

	assert.True(t, <-secondDone)
	assert.Equal(t, int32(1), runs.Load())
}

func TestRunner_RunTicksUntilCancelled(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())

	var runs atomic.Int32
	r.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_EnqueueRunsInRunnerContextAndIsAwaitedByRun(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())

	started := make(chan struct{})
	var cancelledByRun atomic.Bool
	r.Register(Job{Name: "retry", Interval: time.Hour, Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelledByRun.Store(true)
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	assert.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.ctx != context.Background()
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Enqueue("retry"))
	<-started

	// запуск не привязан к вызывающему и живет до остановки Run
	time.Sleep(20 * time.Millisecond)
	assert.False(t, cancelledByRun.Load())

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
	assert.True(t, cancelledByRun.Load())
}

func TestRunner_EnqueueAfterStop(t *testing.T) {
	r := NewRunner(&nopMetrics{}, logger.NewNop())
	r.Register(Job{Name: "retry", Interval: time.Hour, Run: func(context.Context) error { return nil }})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))

	assert.ErrorIs(t, r.Enqueue("retry"), ErrStopped)
	assert.ErrorIs(t, r.Enqueue("missing"), ErrUnknownJob)
}
