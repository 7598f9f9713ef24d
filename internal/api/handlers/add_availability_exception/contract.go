package add_availability_exception

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type AvailabilityService interface {
	AddException(ctx context.Context, tenantID int64, e *domain.AvailabilityException) (*domain.AvailabilityException, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
