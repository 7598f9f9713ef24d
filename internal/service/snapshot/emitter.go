package snapshot

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Publisher интерфейс шины событий
type Publisher interface {
	Publish(ctx context.Context, evt domain.LifecycleEvent)
}

// Emitter публикует события жизненного цикла после фиксации изменений.
// Сборка снимка ходит во внешние сервисы, поэтому выполняется в фоне
// и не задерживает ответ вызывающему.
type Emitter struct {
	builder   *Builder
	publisher Publisher
	wg        sync.WaitGroup
}

func NewEmitter(builder *Builder, publisher Publisher) *Emitter {
	return &Emitter{
		builder:   builder,
		publisher: publisher,
	}
}

// Emit публикует событие kind по копии записи
func (e *Emitter) Emit(ctx context.Context, kind domain.EventKind, a *domain.Appointment) {
	snapshot := *a
	ctx = context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.publisher.Publish(ctx, e.builder.Build(ctx, kind, &snapshot))
	}()
}

// EmitReminder публикует напоминание синхронно: вызывается из фонового сканера
func (e *Emitter) EmitReminder(ctx context.Context, a *domain.Appointment, lead domain.ReminderLead) {
	e.publisher.Publish(ctx, e.builder.Reminder(ctx, a, lead))
}

// Wait дожидается публикации всех событий, запущенных через Emit
func (e *Emitter) Wait() {
	e.wg.Wait()
}
