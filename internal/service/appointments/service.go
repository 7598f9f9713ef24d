package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	availabilityModels "github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// Service жизненный цикл записи после создания
type Service struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityChecker
	locker          ResourceLocker
	txManager       TransactionManager
	emitter         EventEmitter
	metrics         Metrics
	timeProvider    TimeProvider
	config          models.Config
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	availability AvailabilityChecker,
	locker ResourceLocker,
	txManager TransactionManager,
	emitter EventEmitter,
	metrics Metrics,
	timeProvider TimeProvider,
	config models.Config,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		locker:          locker,
		txManager:       txManager,
		emitter:         emitter,
		metrics:         metrics,
		timeProvider:    timeProvider,
		config:          config,
		logger:          logger,
	}
}

// Get получает запись тенанта по ID
func (s *Service) Get(ctx context.Context, tenantID, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Get: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Get: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	// Чужая запись неотличима от несуществующей
	if a.TenantID != tenantID {
		s.logger.Warn("Get: appointment id=%d requested by tenant=%d", id, tenantID)
		return nil, ErrAppointmentNotFound
	}

	return a, nil
}

// Cancel отменяет подтверждённую запись
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelRequest) (*domain.Appointment, error) {
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReason {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReason)
	}

	return s.transition(ctx, tenantID, id, domain.StatusCancelled, func(a *domain.Appointment) {
		if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
			a.AppendNote("Cancellation reason: " + strings.TrimSpace(*req.Reason))
		}
	})
}

// Complete завершает подтверждённую запись, опционально с оценкой и отзывом
func (s *Service) Complete(ctx context.Context, tenantID, id int64, req *models.CompleteRequest) (*domain.Appointment, error) {
	if req.Rating != nil {
		if err := domain.ValidateRating(*req.Rating); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if req.Review != nil && len(*req.Review) > domain.MaxReviewLength {
		return nil, fmt.Errorf("%w: review must be at most %d characters", ErrInvalidInput, domain.MaxReviewLength)
	}

	return s.transition(ctx, tenantID, id, domain.StatusCompleted, func(a *domain.Appointment) {
		a.Rating = req.Rating
		a.Review = req.Review
	})
}

// transition переводит запись в статус next через compare-and-set по текущему статусу
func (s *Service) transition(
	ctx context.Context,
	tenantID, id int64,
	next domain.AppointmentStatus,
	mutate func(a *domain.Appointment),
) (*domain.Appointment, error) {
	a, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	from := a.Status
	if !from.CanTransitionTo(next) {
		s.logger.Warn("transition: appointment id=%d cannot move %s -> %s", id, from, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}

	seen := a.UpdatedAt
	a.Status = next
	a.UpdatedAt = s.timeProvider.Now()
	mutate(a)

	if err := s.appointmentRepo.TransitionStatus(ctx, a, from, seen); err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			s.logger.Warn("transition: appointment id=%d changed concurrently", id)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		s.logger.Error("transition: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("transition: appointment id=%d %s -> %s", id, from, next)
	s.metrics.ObserveTransition(string(next))
	s.emitter.Emit(ctx, eventFor(next), a)

	return a, nil
}

func eventFor(status domain.AppointmentStatus) domain.EventKind {
	switch status {
	case domain.StatusCancelled:
		return domain.EventCancelled
	case domain.StatusCompleted:
		return domain.EventCompleted
	case domain.StatusNoShow:
		return domain.EventNoShow
	default:
		return domain.EventConfirmed
	}
}

// UpdateDetails меняет заметки и/или переносит подтверждённую запись.
// Перенос повторно проверяет доступность, исключая саму запись.
func (s *Service) UpdateDetails(ctx context.Context, tenantID, id int64, req *models.UpdateDetailsRequest) (*domain.Appointment, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !req.IsReschedule() {
		return s.save(ctx, current, req)
	}

	unlock := s.locker.Lock(current.ResourceID)
	defer unlock()

	var updated *domain.Appointment
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := s.Get(txCtx, tenantID, id)
		if err != nil {
			return err
		}
		if a.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: cannot reschedule %s appointment", ErrInvalidTransition, a.Status)
		}

		if err := s.applyReschedule(a, req); err != nil {
			return err
		}

		end, err := a.EndTime()
		if err != nil {
			return fmt.Errorf("%w: appointment must end by 24:00", ErrInvalidInput)
		}

		verdict, err := s.availability.Check(txCtx, &availabilityModels.CheckRequest{
			TenantID:             tenantID,
			ResourceID:           a.ResourceID,
			Date:                 a.Date,
			StartTime:            a.StartTime,
			EndTime:              end,
			ExcludeAppointmentID: a.ID,
		})
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
		}
		if !verdict.Available {
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, verdict.Reason)
		}

		updated, err = s.save(txCtx, a, req)
		return err
	})
	if err != nil {
		s.logger.Warn("UpdateDetails: appointment id=%d not rescheduled: %v", id, err)
		return nil, err
	}

	s.logger.Info("UpdateDetails: appointment id=%d rescheduled to %s %s (%d min)",
		id, updated.Date.Format(domain.DateFormat), updated.StartTime, updated.DurationMinutes)
	return updated, nil
}

func (s *Service) applyReschedule(a *domain.Appointment, req *models.UpdateDetailsRequest) error {
	if req.Date != nil {
		y, m, d := req.Date.Date()
		a.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		a.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 || *req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be in 1..%d", ErrInvalidInput, domain.MaxDurationMinutes)
		}
		a.DurationMinutes = *req.DurationMinutes
	}

	startsAt, err := a.StartsAt(s.config.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if startsAt.Before(s.timeProvider.Now().Add(-s.config.PastBookingGrace)) {
		return fmt.Errorf("%w: cannot move appointment into the past", ErrInvalidInput)
	}
	return nil
}

func (s *Service) save(ctx context.Context, a *domain.Appointment, req *models.UpdateDetailsRequest) (*domain.Appointment, error) {
	if a.Status != domain.StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot edit %s appointment", ErrInvalidTransition, a.Status)
	}
	if req.Notes != nil {
		a.Notes = req.Notes
	}
	a.UpdatedAt = s.timeProvider.Now()

	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrStatusChanged):
			s.logger.Warn("save: appointment id=%d left confirmed concurrently", a.ID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		case errors.Is(err, appointmentRepo.ErrOverlap), errors.Is(err, appointmentRepo.ErrSerialization):
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("save: repository error for appointment id=%d: %v", a.ID, err)
		return nil, fmt.Errorf("%w: save - repository error: %v", ErrInternal, err)
	}
	return a, nil
}

// CustomerStats проекция по всем записям клиента, считается на лету
func (s *Service) CustomerStats(ctx context.Context, tenantID, customerID int64) (*domain.CustomerAppointmentStats, error) {
	list, err := s.appointmentRepo.GetByCustomer(ctx, tenantID, customerID)
	if err != nil {
		s.logger.Error("CustomerStats: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: CustomerStats - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	stats := &domain.CustomerAppointmentStats{CustomerID: customerID, Total: len(list)}
	ratingSum := 0

	for _, a := range list {
		switch a.Status {
		case domain.StatusCompleted:
			stats.Completed++
			stats.TotalSpent += a.TotalAmount
			if a.Rating != nil {
				stats.RatedCount++
				ratingSum += *a.Rating
			}
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusNoShow:
			stats.NoShow++
		case domain.StatusConfirmed:
			if startsAt, err := a.StartsAt(s.config.Location); err == nil && startsAt.After(now) {
				stats.Upcoming++
			}
		}
	}

	if stats.RatedCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.RatedCount)
	}

	return stats, nil
}
