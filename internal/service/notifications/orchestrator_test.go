package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type sentMessage struct {
	channel   domain.Channel
	recipient string
	subject   string
	body      string
}

// scriptedSender отдаёт результаты по очереди, последний повторяется
type scriptedSender struct {
	mu      sync.Mutex
	results []DeliveryResult
	sent    []sentMessage
}

func (s *scriptedSender) Send(_ context.Context, channel domain.Channel, recipient, subject, body string) DeliveryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, sentMessage{channel: channel, recipient: recipient, subject: subject, body: body})
	if len(s.results) == 0 {
		return DeliveryResult{OK: true, Provider: "test"}
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: map[string]int{}}
}

func (m *countingMetrics) ObserveNotification(channel, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[channel+"/"+status]++
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type failingNotificationRepo struct {
	NotificationRepository
}

func (failingNotificationRepo) Create(context.Context, *domain.NotificationRecord) (*domain.NotificationRecord, error) {
	return nil, errors.New("connection refused")
}

var now = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

func confirmedEvent() domain.LifecycleEvent {
	return domain.LifecycleEvent{
		ID:            "evt-1",
		Kind:          domain.EventConfirmed,
		TenantID:      1,
		AppointmentID: 42,
		OccurredAt:    now,
		Customer: domain.CustomerSnapshot{
			ID:         7,
			Name:       "Ann Lee",
			Phone:      "13800138000",
			Email:      "ann@example.com",
			Preference: domain.PreferSMS,
		},
		Resource: domain.ResourceSnapshot{ID: 3, Name: "Alex", Kind: domain.ResourceKindStaff},
		Schedule: domain.ScheduleSnapshot{
			Date:            time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 60,
		},
		Business:     domain.BusinessSnapshot{Name: "Salon", Address: "Main st 1", Phone: "+1 555 0100"},
		ServiceNames: "Haircut",
		TotalAmount:  4000,
	}
}

type orchestratorFixture struct {
	orchestrator  *Orchestrator
	notifications *memory.NotificationRepository
	templates     *memory.TemplateRepository
	sender        *scriptedSender
	metrics       *countingMetrics
}

func newOrchestratorFixture(policy NoShowPolicy) *orchestratorFixture {
	f := &orchestratorFixture{
		notifications: memory.NewNotificationRepository(),
		templates:     memory.NewTemplateRepository(),
		sender:        &scriptedSender{},
		metrics:       newCountingMetrics(),
	}
	f.orchestrator = NewOrchestrator(
		f.notifications, f.templates, f.sender, f.metrics, &clock{t: now},
		OrchestratorConfig{DefaultRegion: "CN", NoShowPolicy: policy},
		logger.NewNop(),
	)
	return f
}

func (f *orchestratorFixture) putTemplate(code string, channel domain.Channel, subject *string, body string) {
	f.templates.Put(&domain.Template{TenantID: 1, Code: code, Channel: channel, Subject: subject, Body: body, Active: true})
}

func TestOrchestrator_ConfirmedSMS(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelSMS, nil,
		"${customerName}, ${serviceName} with ${staffName} on ${appointmentDate} at ${appointmentTime}, ${totalAmount}")

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, domain.NotificationSent, rec.Status)
	assert.Equal(t, domain.ChannelSMS, rec.Channel)
	assert.Equal(t, "+8613800138000", rec.Recipient)
	assert.Equal(t, "42", rec.BusinessID)
	assert.Equal(t, domain.BusinessTypeAppointment, rec.BusinessType)
	assert.Equal(t, "Ann Lee, Haircut with Alex on 2025-03-04 at 10:00, 40.00", rec.Body)
	require.NotNil(t, rec.SentAt)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "+8613800138000", f.sender.sent[0].recipient)
	assert.Equal(t, 1, f.metrics.counts["SMS/sent"])
}

func TestOrchestrator_EmailPreference(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelEmail, ptr.Ptr("Booking at ${businessName}"), "<p>${customerName}</p>")

	evt := confirmedEvent()
	evt.Customer.Preference = domain.PreferEmail

	rec, err := f.orchestrator.Handle(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationSent, rec.Status)
	assert.Equal(t, domain.ChannelEmail, rec.Channel)
	assert.Equal(t, "ann@example.com", rec.Recipient)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Booking at Salon", f.sender.sent[0].subject)
	assert.Equal(t, "<p>Ann Lee</p>", f.sender.sent[0].body)
}

func TestOrchestrator_PhonePreferenceFallsBackToSMS(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelSMS, nil, "ok")

	evt := confirmedEvent()
	evt.Customer.Preference = domain.PreferPhone

	rec, err := f.orchestrator.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelSMS, rec.Channel)
	assert.Equal(t, domain.NotificationSent, rec.Status)
}

func TestOrchestrator_MissingTemplateIsLoggedAsFailed(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, domain.NotificationFailed, rec.Status)
	assert.False(t, rec.Retryable)
	require.NotNil(t, rec.ErrorMessage)
	assert.Contains(t, *rec.ErrorMessage, "template not found")
	assert.Empty(t, f.sender.sent)

	stored := f.notifications.All()
	require.Len(t, stored, 1)
	assert.Equal(t, domain.NotificationFailed, stored[0].Status)
	assert.Equal(t, 1, f.metrics.counts["SMS/failed"])
}

func TestOrchestrator_InactiveTemplateIsIgnored(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.templates.Put(&domain.Template{TenantID: 1, Code: domain.TemplateAppointmentConfirmed, Channel: domain.ChannelSMS, Body: "x", Active: false})

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, rec.Status)
	assert.Empty(t, f.sender.sent)
}

func TestOrchestrator_InvalidRecipient(t *testing.T) {
	tests := []struct {
		name       string
		preference domain.CommunicationPreference
		phone      string
		email      string
	}{
		{name: "empty phone", preference: domain.PreferSMS, phone: ""},
		{name: "garbage phone", preference: domain.PreferSMS, phone: "abc"},
		{name: "email without at", preference: domain.PreferEmail, email: "ann.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrchestratorFixture(NoShowSuppress)
			f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelSMS, nil, "ok")
			f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelEmail, nil, "ok")

			evt := confirmedEvent()
			evt.Customer.Preference = tt.preference
			evt.Customer.Phone = tt.phone
			evt.Customer.Email = tt.email

			rec, err := f.orchestrator.Handle(context.Background(), evt)
			require.NoError(t, err)
			assert.Equal(t, domain.NotificationFailed, rec.Status)
			assert.False(t, rec.Retryable)
			assert.Empty(t, f.sender.sent)
		})
	}
}

func TestOrchestrator_DeliveryFailureIsRetryable(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelSMS, nil, "ok")
	f.sender.results = []DeliveryResult{{OK: false, Provider: "test", Err: ErrDeliveryTimeout}}

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, rec.Status)
	assert.True(t, rec.Retryable)
	assert.Equal(t, 0, rec.RetryCount)
}

func TestOrchestrator_NoShowPolicy(t *testing.T) {
	t.Run("cancelled template", func(t *testing.T) {
		f := newOrchestratorFixture(NoShowAsCancelled)
		f.putTemplate(domain.TemplateAppointmentCancelled, domain.ChannelSMS, nil, "cancelled")

		evt := confirmedEvent()
		evt.Kind = domain.EventNoShow

		rec, err := f.orchestrator.Handle(context.Background(), evt)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, domain.TemplateAppointmentCancelled, rec.TemplateCode)
		assert.Equal(t, domain.NotificationSent, rec.Status)
	})

	t.Run("suppressed", func(t *testing.T) {
		f := newOrchestratorFixture(NoShowSuppress)
		f.putTemplate(domain.TemplateAppointmentCancelled, domain.ChannelSMS, nil, "cancelled")

		evt := confirmedEvent()
		evt.Kind = domain.EventNoShow

		rec, err := f.orchestrator.Handle(context.Background(), evt)
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.Empty(t, f.notifications.All())
		assert.Empty(t, f.sender.sent)
	})
}

func TestOrchestrator_ReminderTemplate(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentReminder, domain.ChannelSMS, nil, "reminder ${reminderLead}")

	evt := confirmedEvent()
	evt.Kind = domain.EventReminder
	evt.ReminderLead = domain.ReminderLeadShort

	rec, err := f.orchestrator.Handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, "reminder short", rec.Body)
}

func TestOrchestrator_StorageFailure(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	f.putTemplate(domain.TemplateAppointmentConfirmed, domain.ChannelSMS, nil, "ok")
	f.orchestrator.notificationRepo = failingNotificationRepo{}

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.sender.sent)
}
