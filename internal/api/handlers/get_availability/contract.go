package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type AvailabilityService interface {
	GetWindows(ctx context.Context, tenantID, resourceID int64) ([]*domain.AvailabilityWindow, error)
	ListExceptions(ctx context.Context, tenantID, resourceID int64, date time.Time) ([]*domain.AvailabilityException, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
