package snapshot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// CustomerServiceClient интерфейс клиента CustomerService
type CustomerServiceClient interface {
	GetCustomer(ctx context.Context, tenantID, customerID int64) (*domain.Customer, error)
}

// MerchantServiceClient интерфейс клиента MerchantService
type MerchantServiceClient interface {
	GetBusinessProfileWithGracefulDegradation(ctx context.Context, tenantID int64) *merchantservice.BusinessProfile
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

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
