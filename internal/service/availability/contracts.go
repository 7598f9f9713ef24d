package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AvailabilityRepository интерфейс репозитория окон доступности и исключений
type AvailabilityRepository interface {
	ListWindows(ctx context.Context, resourceID int64) ([]*domain.AvailabilityWindow, error)
	ReplaceWindows(ctx context.Context, resourceID int64, windows []*domain.AvailabilityWindow) error
	ListExceptions(ctx context.Context, resourceID int64, date time.Time) ([]*domain.AvailabilityException, error)
	CreateException(ctx context.Context, e *domain.AvailabilityException) (*domain.AvailabilityException, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
