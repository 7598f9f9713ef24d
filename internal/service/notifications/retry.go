package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// RetryConfig параметры повторной доставки
type RetryConfig struct {
	MaxAttempts    int // 0 = без ограничения
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BatchSize      int
}

// RetryReport итог одного прохода
type RetryReport struct {
	Scanned   int
	Attempted int
	Succeeded int
	Failed    int
	NotDue    int
}

// RetrySupervisor повторно отправляет упавшие уведомления с экспоненциальной задержкой.
// Повтор использует сохранённые получателя и текст, шаблон заново не рендерится.
type RetrySupervisor struct {
	notificationRepo NotificationRepository
	sender           Sender
	metrics          Metrics
	timeProvider     TimeProvider
	config           RetryConfig
	logger           Logger
}

func NewRetrySupervisor(
	notificationRepo NotificationRepository,
	sender Sender,
	metrics Metrics,
	timeProvider TimeProvider,
	config RetryConfig,
	logger Logger,
) *RetrySupervisor {
	return &RetrySupervisor{
		notificationRepo: notificationRepo,
		sender:           sender,
		metrics:          metrics,
		timeProvider:     timeProvider,
		config:           config,
		logger:           logger,
	}
}

// RunOnce один проход по упавшим повторяемым записям
func (s *RetrySupervisor) RunOnce(ctx context.Context) (*RetryReport, error) {
	records, err := s.notificationRepo.GetRetryable(ctx, s.config.MaxAttempts, s.config.BatchSize)
	if err != nil {
		s.logger.Error("RunOnce: failed to load retryable notifications: %v", err)
		return nil, fmt.Errorf("%w: RunOnce - repository error: %v", ErrInternal, err)
	}

	report := &RetryReport{Scanned: len(records)}
	now := s.timeProvider.Now()

	for _, n := range records {
		if ctx.Err() != nil {
			break
		}
		if !s.isDue(n, now) {
			report.NotDue++
			continue
		}

		report.Attempted++
		if s.retry(ctx, n) {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if report.Attempted > 0 {
		s.logger.Info("RunOnce: scanned=%d attempted=%d succeeded=%d failed=%d not_due=%d",
			report.Scanned, report.Attempted, report.Succeeded, report.Failed, report.NotDue)
	}
	return report, nil
}

// Run адаптер для планировщика
func (s *RetrySupervisor) Run(ctx context.Context) error {
	_, err := s.RunOnce(ctx)
	return err
}

func (s *RetrySupervisor) retry(ctx context.Context, n *domain.NotificationRecord) bool {
	subject := ""
	if n.Subject != nil {
		subject = *n.Subject
	}

	result := s.sender.Send(ctx, n.Channel, n.Recipient, subject, n.Body)

	n.RetryCount++
	at := s.timeProvider.Now()
	if result.OK {
		n.MarkSent(at)
	} else {
		n.MarkFailed(at, result.Err.Error(), isRetryable(result.Err))
	}

	if err := s.notificationRepo.Update(ctx, n); err != nil {
		s.logger.Error("retry: failed to store result for notification id=%d: %v", n.ID, err)
		return false
	}

	s.metrics.ObserveNotification(string(n.Channel), string(n.Status))
	if !result.OK {
		s.logger.Warn("retry: notification id=%d attempt %d failed: %v", n.ID, n.RetryCount, result.Err)
	}
	return result.OK
}

// isDue прошло ли время следующей попытки
func (s *RetrySupervisor) isDue(n *domain.NotificationRecord, now time.Time) bool {
	if n.LastAttemptAt == nil {
		return true
	}
	return !now.Before(n.LastAttemptAt.Add(s.Delay(n.RetryCount)))
}

// Delay задержка перед повтором номер retryCount+1: initial * 2^retryCount, не больше max
func (s *RetrySupervisor) Delay(retryCount int) time.Duration {
	if s.config.InitialBackoff <= 0 {
		return 0
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     s.config.InitialBackoff,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         s.config.MaxBackoff,
	}
	if b.MaxInterval <= 0 {
		b.MaxInterval = s.config.InitialBackoff
	}
	b.Reset()

	d := b.NextBackOff()
	for i := 0; i < retryCount; i++ {
		d = b.NextBackOff()
	}
	return d
}
