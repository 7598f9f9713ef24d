package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func failedRecord(t *testing.T, repo *memory.NotificationRepository, retryCount int, lastAttempt time.Time) *domain.NotificationRecord {
	t.Helper()

	n := &domain.NotificationRecord{
		TenantID:     1,
		TemplateCode: domain.TemplateAppointmentConfirmed,
		Channel:      domain.ChannelSMS,
		Recipient:    "+8613800138000",
		Body:         "hello",
		BusinessID:   "42",
		BusinessType: domain.BusinessTypeAppointment,
		RetryCount:   retryCount,
		CreatedAt:    lastAttempt,
	}
	n.MarkFailed(lastAttempt, "timeout", true)

	created, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	return created
}

func newSupervisor(repo *memory.NotificationRepository, sender Sender, c *clock) *RetrySupervisor {
	return NewRetrySupervisor(repo, sender, newCountingMetrics(), c, RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Minute,
		MaxBackoff:     10 * time.Minute,
		BatchSize:      10,
	}, logger.NewNop())
}

func TestRetrySupervisor_FailedThenSent(t *testing.T) {
	repo := memory.NewNotificationRepository()
	rec := failedRecord(t, repo, 0, now)

	c := &clock{t: now.Add(2 * time.Minute)}
	sender := &scriptedSender{}
	report, err := newSupervisor(repo, sender, c).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)

	stored, err := repo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Nil(t, stored.ErrorMessage)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "hello", sender.sent[0].body)
}

func TestRetrySupervisor_StopsAtMaxAttempts(t *testing.T) {
	repo := memory.NewNotificationRepository()
	rec := failedRecord(t, repo, 0, now)

	c := &clock{t: now}
	sender := &scriptedSender{results: []DeliveryResult{{OK: false, Provider: "test", Err: ErrDeliveryTimeout}}}
	supervisor := newSupervisor(repo, sender, c)

	for i := 0; i < 5; i++ {
		c.t = c.t.Add(time.Hour)
		_, err := supervisor.RunOnce(context.Background())
		require.NoError(t, err)
	}

	stored, err := repo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, stored.Status)
	assert.Equal(t, 3, stored.RetryCount)
	assert.Len(t, sender.sent, 3)
}

func TestRetrySupervisor_WaitsForBackoff(t *testing.T) {
	repo := memory.NewNotificationRepository()
	failedRecord(t, repo, 1, now)

	// вторая попытка ждёт 2 минуты
	c := &clock{t: now.Add(90 * time.Second)}
	sender := &scriptedSender{}
	supervisor := newSupervisor(repo, sender, c)

	report, err := supervisor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.NotDue)
	assert.Empty(t, sender.sent)

	c.t = now.Add(2 * time.Minute)
	report, err = supervisor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
}

func TestRetrySupervisor_SkipsNonRetryable(t *testing.T) {
	repo := memory.NewNotificationRepository()
	n := &domain.NotificationRecord{TenantID: 1, Channel: domain.ChannelSMS, Recipient: "x", Body: "b"}
	n.MarkFailed(now, "template not found", false)
	_, err := repo.Create(context.Background(), n)
	require.NoError(t, err)

	sender := &scriptedSender{}
	report, err := newSupervisor(repo, sender, &clock{t: now.Add(time.Hour)}).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Empty(t, sender.sent)
}

func TestRetrySupervisor_Delay(t *testing.T) {
	s := newSupervisor(memory.NewNotificationRepository(), &scriptedSender{}, &clock{t: now})

	assert.Equal(t, time.Minute, s.Delay(0))
	assert.Equal(t, 2*time.Minute, s.Delay(1))
	assert.Equal(t, 4*time.Minute, s.Delay(2))
	assert.Equal(t, 8*time.Minute, s.Delay(3))
	assert.Equal(t, 10*time.Minute, s.Delay(4))
	assert.Equal(t, 10*time.Minute, s.Delay(10))
}
