package get_appointment_notifications

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type NotificationQueries interface {
	ListByAppointment(ctx context.Context, tenantID, appointmentID int64) ([]*domain.NotificationRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
