package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityModels "github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomer(ctx context.Context, tenantID, customerID int64) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	TransitionStatus(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, seenUpdatedAt time.Time) error
}

// AvailabilityChecker интерфейс проверки доступности ресурса
type AvailabilityChecker interface {
	Check(ctx context.Context, req *availabilityModels.CheckRequest) (*availabilityModels.Verdict, error)
}

// ResourceLocker сериализует изменения расписания одного ресурса
type ResourceLocker interface {
	Lock(key int64) (unlock func())
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventEmitter публикует события жизненного цикла
type EventEmitter interface {
	Emit(ctx context.Context, kind domain.EventKind, a *domain.Appointment)
}

// Metrics счётчики переходов статусов
type Metrics interface {
	ObserveTransition(status string)
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
