package notifications

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// MaxPageSize ограничение размера страницы журнала
const MaxPageSize = 200

// QueryService чтение журнала уведомлений
type QueryService struct {
	notificationRepo NotificationRepository
	logger           Logger
}

func NewQueryService(notificationRepo NotificationRepository, logger Logger) *QueryService {
	return &QueryService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListByAppointment история уведомлений по записи
func (q *QueryService) ListByAppointment(ctx context.Context, tenantID, appointmentID int64) ([]*domain.NotificationRecord, error) {
	records, err := q.notificationRepo.GetByBusinessID(ctx, tenantID, domain.BusinessTypeAppointment, strconv.FormatInt(appointmentID, 10))
	if err != nil {
		q.logger.Error("ListByAppointment: repository error for appointment_id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: ListByAppointment - repository error: %v", ErrInternal, err)
	}
	return records, nil
}

// ListByTenant журнал уведомлений тенанта с фильтрами
func (q *QueryService) ListByTenant(ctx context.Context, filter domain.NotificationFilter) ([]*domain.NotificationRecord, error) {
	if filter.Limit <= 0 || filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	records, err := q.notificationRepo.GetByTenant(ctx, filter)
	if err != nil {
		q.logger.Error("ListByTenant: repository error for tenant=%d: %v", filter.TenantID, err)
		return nil, fmt.Errorf("%w: ListByTenant - repository error: %v", ErrInternal, err)
	}
	return records, nil
}
