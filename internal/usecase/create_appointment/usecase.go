package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/merchantservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	resourceRepo    ResourceRepository
	availability    AvailabilityChecker
	merchantClient  MerchantServiceClient
	locker          ResourceLocker
	txManager       TransactionManager
	emitter         EventEmitter
	metrics         Metrics
	timeProvider    TimeProvider
	config          Config
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	resourceRepo ResourceRepository,
	availability AvailabilityChecker,
	merchantClient MerchantServiceClient,
	locker ResourceLocker,
	txManager TransactionManager,
	emitter EventEmitter,
	metrics Metrics,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		resourceRepo:    resourceRepo,
		availability:    availability,
		merchantClient:  merchantClient,
		locker:          locker,
		txManager:       txManager,
		emitter:         emitter,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		config:          config,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка доступности и вставка выполняются под блокировкой ресурса
// в сериализуемой транзакции; ограничение исключения в БД страхует от гонок между процессами.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, customer=%d, resource=%d, date=%s, time=%s",
		req.TenantID, req.CustomerID, req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Повторный запрос с тем же ключом возвращает уже созданную запись
	if existing, err := uc.findByIdempotencyKey(ctx, req); err != nil || existing != nil {
		if existing != nil {
			return &Response{Appointment: existing, Replayed: true}, nil
		}
		return nil, err
	}

	// 3. Ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateAppointment: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if resource.TenantID != req.TenantID {
		uc.logger.Warn("CreateAppointment: resource id=%d belongs to another tenant", req.ResourceID)
		return nil, ErrResourceNotFound
	}

	// 4. Услуги с денормализацией цены и длительности
	services, err := uc.loadServices(ctx, req)
	if err != nil {
		return nil, err
	}

	appointment := &domain.Appointment{
		TenantID:        req.TenantID,
		CustomerID:      req.CustomerID,
		ResourceID:      req.ResourceID,
		ResourceKind:    resource.Kind,
		Date:            normalizeDate(req.Date),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          domain.StatusConfirmed,
		Services:        services,
		Notes:           req.Notes,
		IdempotencyKey:  req.IdempotencyKey,
	}
	for _, s := range services {
		appointment.TotalAmount += s.Price
		if req.DurationMinutes == 0 {
			appointment.DurationMinutes += s.DurationMinutes
		}
	}
	if appointment.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: services have no duration", ErrInvalidInput)
	}

	endTime, err := appointment.EndTime()
	if err != nil {
		return nil, fmt.Errorf("%w: appointment must end by 24:00: %v", ErrInvalidInput, err)
	}

	// 5. Время начала не раньше допустимого
	now := uc.timeProvider.Now()
	if err := validateStart(appointment, now, uc.config.Location, uc.config.PastBookingGrace); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	// 6. Проверка и вставка под блокировкой ресурса
	unlock := uc.locker.Lock(req.ResourceID)
	defer unlock()

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		verdict, err := uc.availability.Check(txCtx, &models.CheckRequest{
			TenantID:   req.TenantID,
			ResourceID: req.ResourceID,
			Date:       appointment.Date,
			StartTime:  appointment.StartTime,
			EndTime:    endTime,
		})
		if err != nil {
			switch {
			case errors.Is(err, availability.ErrResourceNotFound):
				return ErrResourceNotFound
			case errors.Is(err, availability.ErrInvalidTimeRange):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
		}
		if !verdict.Available {
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, verdict.Reason)
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey):
			// Параллельный запрос с тем же ключом успел зафиксироваться первым
			existing, findErr := uc.findByIdempotencyKey(ctx, req)
			if findErr != nil || existing == nil {
				return nil, fmt.Errorf("%w: idempotent replay lookup: %v", ErrInternal, findErr)
			}
			return &Response{Appointment: existing, Replayed: true}, nil
		case errors.Is(err, appointmentRepo.ErrOverlap), errors.Is(err, appointmentRepo.ErrSerialization):
			uc.logger.Warn("CreateAppointment: store rejected concurrent booking on resource=%d: %v", req.ResourceID, err)
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
			uc.logger.Warn("CreateAppointment: rejected: %v", err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	uc.metrics.ObserveTransition(string(domain.StatusConfirmed))
	uc.emitter.Emit(ctx, domain.EventConfirmed, created)

	return &Response{Appointment: created}, nil
}

func (uc *UseCase) findByIdempotencyKey(ctx context.Context, req *Request) (*domain.Appointment, error) {
	if req.IdempotencyKey == nil {
		return nil, nil
	}

	existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, req.TenantID, *req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateAppointment: idempotency lookup failed: %v", err)
		return nil, fmt.Errorf("%w: idempotency lookup: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: replaying appointment id=%d for idempotency key", existing.ID)
	return existing, nil
}

func (uc *UseCase) loadServices(ctx context.Context, req *Request) ([]domain.AppointmentService, error) {
	services := make([]domain.AppointmentService, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		svc, err := uc.merchantClient.GetService(ctx, req.TenantID, id)
		if err != nil {
			switch {
			case errors.Is(err, merchantservice.ErrServiceNotFound):
				uc.logger.Warn("CreateAppointment: service id=%d not found", id)
				return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, id)
			case errors.Is(err, merchantservice.ErrServiceInactive):
				uc.logger.Warn("CreateAppointment: service id=%d is inactive", id)
				return nil, fmt.Errorf("%w: service_id=%d", ErrServiceInactive, id)
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		services = append(services, svc.ToAppointmentService())
	}
	return services, nil
}
