package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service хранилище расписаний ресурсов и проверка конфликтов
type Service struct {
	resourceRepo     ResourceRepository
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	resourceRepo ResourceRepository,
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo:     resourceRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		txManager:        txManager,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// IsAvailable проверяет, можно ли занять ресурс на [start, end) в указанную дату
func (s *Service) IsAvailable(ctx context.Context, resourceID int64, date time.Time, start, end types.TimeString) (bool, error) {
	verdict, err := s.Check(ctx, &models.CheckRequest{
		ResourceID: resourceID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		return false, err
	}
	return verdict.Available, nil
}

// Check проверяет доступность и возвращает причину отказа.
// Внутри транзакции существующие записи ресурса на дату блокируются репозиторием.
func (s *Service) Check(ctx context.Context, req *models.CheckRequest) (*models.Verdict, error) {
	requested, err := domain.NewMinuteRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	if requested.Empty() {
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidTimeRange, req.StartTime, req.EndTime)
	}

	resource, err := s.getResource(ctx, req.TenantID, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if !resource.IsBookable() {
		return &models.Verdict{Reason: models.ReasonResourceUnavailable}, nil
	}

	open, err := s.openRanges(ctx, req.ResourceID, req.Date)
	if err != nil {
		return nil, err
	}
	if !fitsOneRange(open, requested) {
		return &models.Verdict{Reason: models.ReasonOutsideWindows}, nil
	}

	existing, err := s.appointmentRepo.GetByResourceAndDate(ctx, req.ResourceID, req.Date, domain.BlockingStatuses)
	if err != nil {
		s.logger.Error("Check: failed to load appointments for resource_id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: Check - appointments: %v", ErrInternal, err)
	}

	for _, a := range existing {
		if a.ID == req.ExcludeAppointmentID {
			continue
		}
		occupied, err := a.Range()
		if err != nil {
			s.logger.Warn("Check: appointment_id=%d has invalid time %s: %v", a.ID, a.StartTime, err)
			continue
		}
		if occupied.Overlaps(requested) {
			id := a.ID
			return &models.Verdict{Reason: models.ReasonOverlap, ConflictingAppointmentID: &id}, nil
		}
	}

	return &models.Verdict{Available: true}, nil
}

// openRanges объединение включённых окон дня недели и разовых открытий минус блокировки даты
func (s *Service) openRanges(ctx context.Context, resourceID int64, date time.Time) ([]domain.MinuteRange, error) {
	windows, err := s.availabilityRepo.ListWindows(ctx, resourceID)
	if err != nil {
		s.logger.Error("openRanges: failed to load windows for resource_id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: openRanges - windows: %v", ErrInternal, err)
	}

	exceptions, err := s.availabilityRepo.ListExceptions(ctx, resourceID, date)
	if err != nil {
		s.logger.Error("openRanges: failed to load exceptions for resource_id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: openRanges - exceptions: %v", ErrInternal, err)
	}

	weekday := domain.ISOWeekday(date)
	var open []domain.MinuteRange
	for _, w := range windows {
		if !w.Enabled || w.DayOfWeek != weekday {
			continue
		}
		r, err := domain.NewMinuteRange(w.StartTime, w.EndTime)
		if err != nil {
			s.logger.Warn("openRanges: skipping malformed window id=%d: %v", w.ID, err)
			continue
		}
		open = append(open, r)
	}

	var blocked []domain.MinuteRange
	for _, e := range exceptions {
		if e.Kind == domain.ExceptionBlocked && e.IsWholeDay() {
			return nil, nil
		}
		if e.IsWholeDay() {
			continue
		}
		r, err := domain.NewMinuteRange(*e.StartTime, *e.EndTime)
		if err != nil {
			s.logger.Warn("openRanges: skipping malformed exception id=%d: %v", e.ID, err)
			continue
		}
		switch e.Kind {
		case domain.ExceptionExtra:
			open = append(open, r)
		case domain.ExceptionBlocked:
			blocked = append(blocked, r)
		}
	}

	return domain.SubtractRanges(domain.MergeRanges(open), blocked), nil
}

// fitsOneRange интервал должен целиком лежать в одном непрерывном диапазоне
func fitsOneRange(open []domain.MinuteRange, requested domain.MinuteRange) bool {
	for _, r := range open {
		if r.Contains(requested) {
			return true
		}
	}
	return false
}

// GetWindows возвращает недельное расписание ресурса
func (s *Service) GetWindows(ctx context.Context, tenantID, resourceID int64) ([]*domain.AvailabilityWindow, error) {
	if _, err := s.getResource(ctx, tenantID, resourceID); err != nil {
		return nil, err
	}

	windows, err := s.availabilityRepo.ListWindows(ctx, resourceID)
	if err != nil {
		s.logger.Error("GetWindows: repository error for resource_id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: GetWindows - repository error: %v", ErrInternal, err)
	}
	return windows, nil
}

// ReplaceWindows заменяет недельное расписание целиком в одной транзакции
func (s *Service) ReplaceWindows(ctx context.Context, tenantID, resourceID int64, input []models.WindowInput) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0, len(input))
	for i, in := range input {
		w := &domain.AvailabilityWindow{
			ResourceID: resourceID,
			DayOfWeek:  in.DayOfWeek,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			Enabled:    in.Enabled,
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: window #%d: %v", ErrInvalidInput, i, err)
		}
		windows = append(windows, w)
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		resource, err := s.getResource(ctx, tenantID, resourceID)
		if err != nil {
			return err
		}
		if resource.IsDeleted() {
			return ErrResourceDeleted
		}
		if err := s.availabilityRepo.ReplaceWindows(ctx, resourceID, windows); err != nil {
			return fmt.Errorf("%w: ReplaceWindows - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("ReplaceWindows: resource_id=%d failed: %v", resourceID, err)
		return nil, err
	}

	s.logger.Info("ReplaceWindows: resource_id=%d now has %d windows", resourceID, len(windows))
	return windows, nil
}

// AddException добавляет разовое исключение в расписание на дату
func (s *Service) AddException(ctx context.Context, tenantID int64, e *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resource, err := s.getResource(ctx, tenantID, e.ResourceID)
	if err != nil {
		return nil, err
	}
	if resource.IsDeleted() {
		return nil, ErrResourceDeleted
	}

	e.CreatedAt = s.timeProvider.Now()
	created, err := s.availabilityRepo.CreateException(ctx, e)
	if err != nil {
		s.logger.Error("AddException: repository error for resource_id=%d: %v", e.ResourceID, err)
		return nil, fmt.Errorf("%w: AddException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddException: %s exception id=%d added for resource_id=%d on %s",
		created.Kind, created.ID, created.ResourceID, created.Date.Format(domain.DateFormat))
	return created, nil
}

// ListExceptions возвращает исключения ресурса на дату
func (s *Service) ListExceptions(ctx context.Context, tenantID, resourceID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	if _, err := s.getResource(ctx, tenantID, resourceID); err != nil {
		return nil, err
	}

	exceptions, err := s.availabilityRepo.ListExceptions(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}
	return exceptions, nil
}

func (s *Service) getResource(ctx context.Context, tenantID, resourceID int64) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("getResource: repository error for resource_id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: getResource - repository error: %v", ErrInternal, err)
	}
	if tenantID != 0 && resource.TenantID != tenantID {
		return nil, ErrResourceNotFound
	}
	return resource, nil
}
