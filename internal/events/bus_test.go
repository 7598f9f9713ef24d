package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) HandleEvent(_ context.Context, evt domain.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, evt.ID)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(8, 2, logger.NewNop())
	first, second := &recorder{}, &recorder{}
	bus.Subscribe("first", first)
	bus.Subscribe("second", second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = bus.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		bus.Publish(context.Background(), domain.LifecycleEvent{ID: string(rune('a' + i))})
	}

	assert.Eventually(t, func() bool { return first.count() == 5 && second.count() == 5 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := NewBus(0, 1, logger.NewNop())
	rec := &recorder{}
	bus.Subscribe("rec", rec)

	start := time.Now()
	for i := 0; i < 10; i++ {
		bus.Publish(context.Background(), domain.LifecycleEvent{ID: "x"})
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	assert.Eventually(t, func() bool { return rec.count() == 10 }, time.Second, 5*time.Millisecond)
}

func TestBus_HandlerFailureIsIsolated(t *testing.T) {
	bus := NewBus(4, 1, logger.NewNop())
	rec := &recorder{}
	bus.Subscribe("failing", HandlerFunc(func(context.Context, domain.LifecycleEvent) error {
		return errors.New("boom")
	}))
	bus.Subscribe("panicking", HandlerFunc(func(context.Context, domain.LifecycleEvent) error {
		panic("unexpected")
	}))
	bus.Subscribe("rec", rec)

	bus.Publish(context.Background(), domain.LifecycleEvent{ID: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, bus.Run(ctx))
	assert.Equal(t, 1, rec.count())
}

func TestBus_CancelledPublisherContextStillDelivers(t *testing.T) {
	bus := NewBus(4, 1, logger.NewNop())
	var gotErr error
	var mu sync.Mutex
	bus.Subscribe("ctx", HandlerFunc(func(ctx context.Context, _ domain.LifecycleEvent) error {
		mu.Lock()
		gotErr = ctx.Err()
		mu.Unlock()
		return nil
	}))

	pubCtx, cancelPub := context.WithCancel(context.Background())
	cancelPub()
	bus.Publish(pubCtx, domain.LifecycleEvent{ID: "1"})

	runCtx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, bus.Run(runCtx))

	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, gotErr)
}
