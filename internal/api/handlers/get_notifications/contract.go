package get_notifications

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type NotificationQueries interface {
	ListByTenant(ctx context.Context, filter domain.NotificationFilter) ([]*domain.NotificationRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
