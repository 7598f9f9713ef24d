package update_resource_status

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type ResourceService interface {
	SetStatus(ctx context.Context, tenantID, id int64, status domain.ResourceStatus) (*domain.Resource, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
