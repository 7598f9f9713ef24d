package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReminderConfig параметры напоминаний
type ReminderConfig struct {
	Location  *time.Location
	LeadLong  time.Duration
	LeadShort time.Duration
}

// ReminderScanner отправляет напоминания о предстоящих записях.
// Окна не пересекаются: long = (short, long], short = (0, short].
// Маркер гарантирует одно напоминание на запись и окно.
// Запись, созданная уже внутри long окна, получает только короткое напоминание.
type ReminderScanner struct {
	appointmentRepo AppointmentRepository
	marker          ReminderMarker
	emitter         EventEmitter
	timeProvider    TimeProvider
	config          ReminderConfig
	logger          Logger
}

func NewReminderScanner(
	appointmentRepo AppointmentRepository,
	marker ReminderMarker,
	emitter EventEmitter,
	timeProvider TimeProvider,
	config ReminderConfig,
	logger Logger,
) *ReminderScanner {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.LeadLong <= 0 {
		config.LeadLong = domain.DefaultReminderLeadLong
	}
	if config.LeadShort <= 0 {
		config.LeadShort = domain.DefaultReminderLeadShort
	}
	return &ReminderScanner{
		appointmentRepo: appointmentRepo,
		marker:          marker,
		emitter:         emitter,
		timeProvider:    timeProvider,
		config:          config,
		logger:          logger,
	}
}

// RunOnce один проход. Возвращает количество отправленных напоминаний.
func (s *ReminderScanner) RunOnce(ctx context.Context) (int, error) {
	now := s.timeProvider.Now().In(s.config.Location)

	// запись хранит локальную дату, поэтому диапазон берём с запасом в день
	from := now.AddDate(0, 0, -1)
	to := now.Add(s.config.LeadLong).AddDate(0, 0, 1)

	candidates, err := s.appointmentRepo.GetByStatusAndDateRange(ctx, domain.StatusConfirmed, from, to)
	if err != nil {
		s.logger.Error("RunOnce: failed to load upcoming appointments: %v", err)
		return 0, fmt.Errorf("%w: RunOnce - repository error: %v", ErrInternal, err)
	}

	sent := 0
	for _, a := range candidates {
		if ctx.Err() != nil {
			break
		}

		startsAt, err := a.StartsAt(s.config.Location)
		if err != nil {
			s.logger.Warn("RunOnce: appointment id=%d has invalid start time %q: %v", a.ID, a.StartTime, err)
			continue
		}

		lead, ok := s.leadFor(startsAt.Sub(now))
		if !ok {
			continue
		}
		if lead == domain.ReminderLeadLong && s.bookedInsideLongWindow(a, startsAt) {
			continue
		}

		first, err := s.marker.MarkOnce(ctx, a.ID, lead)
		if err != nil {
			s.logger.Error("RunOnce: reminder marker failed for appointment id=%d: %v", a.ID, err)
			continue
		}
		if !first {
			continue
		}

		s.emitter.EmitReminder(ctx, a, lead)
		sent++
	}

	if sent > 0 {
		s.logger.Info("RunOnce: sent %d reminders", sent)
	}
	return sent, nil
}

// Run адаптер для планировщика
func (s *ReminderScanner) Run(ctx context.Context) error {
	_, err := s.RunOnce(ctx)
	return err
}

func (s *ReminderScanner) leadFor(until time.Duration) (domain.ReminderLead, bool) {
	switch {
	case until <= 0:
		return "", false
	case until <= s.config.LeadShort:
		return domain.ReminderLeadShort, true
	case until <= s.config.LeadLong:
		return domain.ReminderLeadLong, true
	}
	return "", false
}

// bookedInsideLongWindow запись создана меньше чем за LeadLong до начала.
// Без CreatedAt считаем, что запись сделана заранее.
func (s *ReminderScanner) bookedInsideLongWindow(a *domain.Appointment, startsAt time.Time) bool {
	if a.CreatedAt.IsZero() {
		return false
	}
	return startsAt.Sub(a.CreatedAt) <= s.config.LeadLong
}
