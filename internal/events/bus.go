package events

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Handler обработчик событий жизненного цикла
type Handler interface {
	HandleEvent(ctx context.Context, evt domain.LifecycleEvent) error
}

// HandlerFunc адаптер функции к Handler
type HandlerFunc func(ctx context.Context, evt domain.LifecycleEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt domain.LifecycleEvent) error {
	return f(ctx, evt)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type subscriber struct {
	name    string
	handler Handler
}

type envelope struct {
	ctx context.Context
	evt domain.LifecycleEvent
}

// Bus внутрипроцессная шина событий.
// Publish никогда не блокирует вызывающего: при переполнении очереди
// событие доставляется в отдельной горутине. Ошибки обработчиков только логируются.
type Bus struct {
	queue   chan envelope
	workers int
	logger  Logger

	mu          sync.RWMutex
	subscribers []subscriber

	overflow sync.WaitGroup
}

// NewBus создает шину с буфером bufferSize и workers обработчиками очереди
func NewBus(bufferSize, workers int, logger Logger) *Bus {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Bus{
		queue:   make(chan envelope, bufferSize),
		workers: workers,
		logger:  logger,
	}
}

// Subscribe регистрирует обработчик; name используется в логах
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: h})
}

// Publish ставит событие в очередь. Отмена ctx вызывающего не отменяет доставку.
func (b *Bus) Publish(ctx context.Context, evt domain.LifecycleEvent) {
	env := envelope{ctx: context.WithoutCancel(ctx), evt: evt}

	select {
	case b.queue <- env:
	default:
		b.logger.Warn("Publish: queue is full, dispatching event_id=%s kind=%s inline", evt.ID, evt.Kind)
		b.overflow.Add(1)
		go func() {
			defer b.overflow.Done()
			b.dispatch(env)
		}()
	}
}

// Run запускает обработчики очереди и блокируется до отмены ctx.
// После отмены уже поставленные в очередь события доставляются до выхода.
func (b *Bus) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.work(ctx)
		}()
	}

	<-ctx.Done()
	wg.Wait()
	b.drain()
	b.overflow.Wait()

	b.logger.Info("Event bus stopped")
	return nil
}

func (b *Bus) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-b.queue:
			b.dispatch(env)
		}
	}
}

func (b *Bus) drain() {
	for {
		select {
		case env := <-b.queue:
			b.dispatch(env)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(env envelope) {
	b.mu.RLock()
	subs := append([]subscriber(nil), b.subscribers...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(env, s)
	}
}

func (b *Bus) deliver(env envelope, s subscriber) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("deliver: subscriber=%s panicked on event_id=%s: %v", s.name, env.evt.ID, r)
		}
	}()

	if err := s.handler.HandleEvent(env.ctx, env.evt); err != nil {
		b.logger.Error("deliver: subscriber=%s failed on event_id=%s kind=%s appointment_id=%d: %v",
			s.name, env.evt.ID, env.evt.Kind, env.evt.AppointmentID, err)
	}
}
