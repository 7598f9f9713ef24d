package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByIdempotencyKey(ctx context.Context, tenantID int64, key string) (*domain.Appointment, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AvailabilityChecker интерфейс проверки доступности ресурса
type AvailabilityChecker interface {
	Check(ctx context.Context, req *models.CheckRequest) (*models.Verdict, error)
}

// MerchantServiceClient интерфейс клиента для MerchantService
type MerchantServiceClient interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*merchantservice.Service, error)
}

// ResourceLocker сериализует создание записей на один ресурс внутри процесса
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
