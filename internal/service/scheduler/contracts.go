package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByStatusAndDateRange(ctx context.Context, status domain.AppointmentStatus, from, to time.Time) ([]*domain.Appointment, error)
	TransitionStatus(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, seenUpdatedAt time.Time) error
}

// EventEmitter публикация событий жизненного цикла
type EventEmitter interface {
	Emit(ctx context.Context, kind domain.EventKind, a *domain.Appointment)
	EmitReminder(ctx context.Context, a *domain.Appointment, lead domain.ReminderLead)
}

// ReminderMarker отмечает отправленные напоминания
type ReminderMarker interface {
	MarkOnce(ctx context.Context, appointmentID int64, lead domain.ReminderLead) (bool, error)
}

// Metrics метрики фоновых задач
type Metrics interface {
	ObserveTransition(status string)
	ObserveJob(job string, d time.Duration, err error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
