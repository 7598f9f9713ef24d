package snapshot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Builder собирает денормализованный снимок записи для событий жизненного цикла.
// Ошибки получения связанных данных не прерывают сборку: поля снимка остаются пустыми.
type Builder struct {
	resourceRepo   ResourceRepository
	customerClient CustomerServiceClient
	merchantClient MerchantServiceClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewBuilder создает сборщик снимков
func NewBuilder(
	resourceRepo ResourceRepository,
	customerClient CustomerServiceClient,
	merchantClient MerchantServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *Builder {
	return &Builder{
		resourceRepo:   resourceRepo,
		customerClient: customerClient,
		merchantClient: merchantClient,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// Build строит событие указанного типа по текущему состоянию записи
func (b *Builder) Build(ctx context.Context, kind domain.EventKind, a *domain.Appointment) domain.LifecycleEvent {
	evt := domain.LifecycleEvent{
		ID:            uuid.NewString(),
		Kind:          kind,
		TenantID:      a.TenantID,
		AppointmentID: a.ID,
		OccurredAt:    b.timeProvider.Now(),
		Customer:      domain.CustomerSnapshot{ID: a.CustomerID},
		Resource:      domain.ResourceSnapshot{ID: a.ResourceID, Kind: a.ResourceKind},
		Schedule: domain.ScheduleSnapshot{
			Date:            a.Date,
			StartTime:       a.StartTime,
			DurationMinutes: a.DurationMinutes,
		},
		ServiceNames: a.ServiceNames(),
		TotalAmount:  a.TotalAmount,
	}
	if a.Notes != nil {
		evt.Notes = *a.Notes
	}

	customer, err := b.customerClient.GetCustomer(ctx, a.TenantID, a.CustomerID)
	if err != nil {
		b.logger.Warn("Build: customer_id=%d lookup failed for appointment_id=%d: %v", a.CustomerID, a.ID, err)
	} else {
		evt.Customer = domain.CustomerSnapshot{
			ID:         customer.ID,
			Name:       customer.FullName(),
			Phone:      customer.Phone,
			Email:      customer.Email,
			Preference: customer.Preference,
		}
	}

	resource, err := b.resourceRepo.GetByID(ctx, a.ResourceID)
	if err != nil {
		b.logger.Warn("Build: resource_id=%d lookup failed for appointment_id=%d: %v", a.ResourceID, a.ID, err)
	} else {
		evt.Resource.Name = resource.Name
		evt.Resource.Kind = resource.Kind
	}

	evt.Business = b.merchantClient.GetBusinessProfileWithGracefulDegradation(ctx, a.TenantID).ToSnapshot()

	return evt
}

// Reminder строит событие напоминания с указанием интервала
func (b *Builder) Reminder(ctx context.Context, a *domain.Appointment, lead domain.ReminderLead) domain.LifecycleEvent {
	evt := b.Build(ctx, domain.EventReminder, a)
	evt.ReminderLead = lead
	return evt
}
