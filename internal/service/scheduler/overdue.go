package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
)

// OverdueConfig параметры поиска неявок
type OverdueConfig struct {
	Location *time.Location
	Grace    time.Duration
}

// OverdueScanner переводит просроченные подтверждённые записи в no_show
type OverdueScanner struct {
	appointmentRepo AppointmentRepository
	emitter         EventEmitter
	metrics         Metrics
	timeProvider    TimeProvider
	config          OverdueConfig
	logger          Logger
}

func NewOverdueScanner(
	appointmentRepo AppointmentRepository,
	emitter EventEmitter,
	metrics Metrics,
	timeProvider TimeProvider,
	config OverdueConfig,
	logger Logger,
) *OverdueScanner {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Grace <= 0 {
		config.Grace = domain.DefaultNoShowGrace
	}
	return &OverdueScanner{
		appointmentRepo: appointmentRepo,
		emitter:         emitter,
		metrics:         metrics,
		timeProvider:    timeProvider,
		config:          config,
		logger:          logger,
	}
}

// RunOnce один проход. Возвращает количество записей, переведённых в no_show.
// Ошибка по отдельной записи логируется и не прерывает проход.
func (s *OverdueScanner) RunOnce(ctx context.Context) (int, error) {
	candidates, err := s.appointmentRepo.GetByStatus(ctx, domain.StatusConfirmed)
	if err != nil {
		s.logger.Error("RunOnce: failed to load confirmed appointments: %v", err)
		return 0, fmt.Errorf("%w: RunOnce - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	marked := 0
	for _, a := range candidates {
		if ctx.Err() != nil {
			break
		}

		startsAt, err := a.StartsAt(s.config.Location)
		if err != nil {
			s.logger.Warn("RunOnce: appointment id=%d has invalid start time %q: %v", a.ID, a.StartTime, err)
			continue
		}
		if !now.After(startsAt.Add(s.config.Grace)) {
			continue
		}

		if s.markNoShow(ctx, a, now) {
			marked++
		}
	}

	if marked > 0 {
		s.logger.Info("RunOnce: marked %d appointments as no_show", marked)
	}
	return marked, nil
}

// Run адаптер для планировщика
func (s *OverdueScanner) Run(ctx context.Context) error {
	_, err := s.RunOnce(ctx)
	return err
}

func (s *OverdueScanner) markNoShow(ctx context.Context, a *domain.Appointment, now time.Time) bool {
	seen := a.UpdatedAt
	a.Status = domain.StatusNoShow
	a.AppendNote(domain.NoShowAuditNote)
	a.UpdatedAt = now

	if err := s.appointmentRepo.TransitionStatus(ctx, a, domain.StatusConfirmed, seen); err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			s.logger.Info("markNoShow: appointment id=%d changed concurrently, skipping until next pass", a.ID)
			return false
		}
		s.logger.Error("markNoShow: failed to update appointment id=%d: %v", a.ID, err)
		return false
	}

	s.metrics.ObserveTransition(string(domain.StatusNoShow))
	s.emitter.Emit(ctx, domain.EventNoShow, a)
	return true
}
