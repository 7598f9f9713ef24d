package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/template"
	"github.com/m04kA/SMC-SchedulingService/pkg/phone"
)

// NoShowPolicy определяет, уведомлять ли клиента о неявке
type NoShowPolicy string

const (
	// NoShowAsCancelled клиент получает сообщение по шаблону отмены
	NoShowAsCancelled NoShowPolicy = "cancelled"
	// NoShowSuppress уведомление о неявке не отправляется
	NoShowSuppress NoShowPolicy = "suppress"
)

// OrchestratorConfig параметры оркестратора
type OrchestratorConfig struct {
	DefaultRegion string // регион для номеров без кода страны
	NoShowPolicy  NoShowPolicy
}

// Orchestrator превращает события жизненного цикла в уведомления.
// Каждая попытка оставляет запись в журнале, даже если сообщение не отправлено.
type Orchestrator struct {
	notificationRepo NotificationRepository
	templateRepo     TemplateRepository
	sender           Sender
	metrics          Metrics
	timeProvider     TimeProvider
	config           OrchestratorConfig
	logger           Logger
}

func NewOrchestrator(
	notificationRepo NotificationRepository,
	templateRepo TemplateRepository,
	sender Sender,
	metrics Metrics,
	timeProvider TimeProvider,
	config OrchestratorConfig,
	logger Logger,
) *Orchestrator {
	return &Orchestrator{
		notificationRepo: notificationRepo,
		templateRepo:     templateRepo,
		sender:           sender,
		metrics:          metrics,
		timeProvider:     timeProvider,
		config:           config,
		logger:           logger,
	}
}

// HandleEvent подписчик шины событий
func (o *Orchestrator) HandleEvent(ctx context.Context, evt domain.LifecycleEvent) error {
	_, err := o.Handle(ctx, evt)
	return err
}

// Handle строит, отправляет и журналирует уведомление по событию.
// Ошибка возвращается только при сбое хранилища; ошибки доставки и конфигурации
// фиксируются в записи со статусом failed. Возвращает nil, если событие не требует уведомления.
func (o *Orchestrator) Handle(ctx context.Context, evt domain.LifecycleEvent) (*domain.NotificationRecord, error) {
	code, ok := o.templateCode(evt.Kind)
	if !ok {
		o.logger.Info("Handle: no notification for event_id=%s kind=%s appointment_id=%d", evt.ID, evt.Kind, evt.AppointmentID)
		return nil, nil
	}

	channel := channelFor(evt.Customer.Preference)
	if evt.Customer.Preference == domain.PreferPhone {
		o.logger.Info("Handle: customer_id=%d prefers PHONE, falling back to SMS", evt.Customer.ID)
	}

	now := o.timeProvider.Now()
	record := &domain.NotificationRecord{
		TenantID:     evt.TenantID,
		TemplateCode: code,
		Channel:      channel,
		BusinessID:   strconv.FormatInt(evt.AppointmentID, 10),
		BusinessType: domain.BusinessTypeAppointment,
		Status:       domain.NotificationPending,
		CreatedAt:    now,
	}

	recipient, err := o.recipient(channel, evt.Customer)
	if err != nil {
		record.Recipient = rawRecipient(channel, evt.Customer)
		return o.fail(ctx, record, err)
	}
	record.Recipient = recipient

	tpl, err := o.templateRepo.GetActive(ctx, evt.TenantID, code, channel)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			o.logger.Warn("Handle: tenant=%d has no active template code=%s channel=%s", evt.TenantID, code, channel)
			return o.fail(ctx, record, fmt.Errorf("%w: code=%s channel=%s", ErrTemplateNotFound, code, channel))
		}
		o.logger.Error("Handle: template lookup failed for tenant=%d: %v", evt.TenantID, err)
		return nil, fmt.Errorf("%w: Handle - template lookup: %v", ErrInternal, err)
	}

	vars := Variables(evt)
	body, missing := Render(tpl.Body, vars)
	if len(missing) > 0 {
		o.logger.Warn("Handle: template id=%d has unknown placeholders %v", tpl.ID, missing)
	}
	record.Body = body
	if tpl.Subject != nil {
		subject, _ := Render(*tpl.Subject, vars)
		record.Subject = &subject
	}

	created, err := o.notificationRepo.Create(ctx, record)
	if err != nil {
		o.logger.Error("Handle: failed to store pending notification for appointment_id=%d: %v", evt.AppointmentID, err)
		return nil, fmt.Errorf("%w: Handle - create record: %v", ErrInternal, err)
	}

	subject := ""
	if created.Subject != nil {
		subject = *created.Subject
	}
	result := o.sender.Send(ctx, channel, created.Recipient, subject, created.Body)

	at := o.timeProvider.Now()
	if result.OK {
		created.MarkSent(at)
	} else {
		created.MarkFailed(at, result.Err.Error(), isRetryable(result.Err))
	}

	if err := o.notificationRepo.Update(ctx, created); err != nil {
		o.logger.Error("Handle: failed to store delivery result for notification id=%d: %v", created.ID, err)
		return nil, fmt.Errorf("%w: Handle - update record: %v", ErrInternal, err)
	}

	o.metrics.ObserveNotification(string(channel), string(created.Status))
	if result.OK {
		o.logger.Info("Handle: notification id=%d sent via %s to appointment_id=%d", created.ID, result.Provider, evt.AppointmentID)
	} else {
		o.logger.Warn("Handle: notification id=%d failed via %s: %v", created.ID, result.Provider, result.Err)
	}

	return created, nil
}

// fail журналирует уведомление, которое не может быть отправлено
func (o *Orchestrator) fail(ctx context.Context, record *domain.NotificationRecord, cause error) (*domain.NotificationRecord, error) {
	record.MarkFailed(o.timeProvider.Now(), cause.Error(), false)

	created, err := o.notificationRepo.Create(ctx, record)
	if err != nil {
		o.logger.Error("fail: failed to store failed notification: %v", err)
		return nil, fmt.Errorf("%w: fail - create record: %v", ErrInternal, err)
	}

	o.metrics.ObserveNotification(string(record.Channel), string(record.Status))
	o.logger.Warn("fail: notification id=%d for business_id=%s not sent: %v", created.ID, created.BusinessID, cause)
	return created, nil
}

func (o *Orchestrator) templateCode(kind domain.EventKind) (string, bool) {
	switch kind {
	case domain.EventConfirmed:
		return domain.TemplateAppointmentConfirmed, true
	case domain.EventCancelled:
		return domain.TemplateAppointmentCancelled, true
	case domain.EventCompleted:
		return domain.TemplateAppointmentCompleted, true
	case domain.EventReminder:
		return domain.TemplateAppointmentReminder, true
	case domain.EventNoShow:
		if o.config.NoShowPolicy == NoShowAsCancelled {
			return domain.TemplateAppointmentCancelled, true
		}
	}
	return "", false
}

func (o *Orchestrator) recipient(channel domain.Channel, c domain.CustomerSnapshot) (string, error) {
	if channel == domain.ChannelEmail {
		email := strings.TrimSpace(c.Email)
		if email == "" || !strings.Contains(email, "@") {
			return "", fmt.Errorf("%w: customer_id=%d has no valid email", ErrInvalidRecipient, c.ID)
		}
		return email, nil
	}

	normalized, err := phone.Normalize(c.Phone, o.config.DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: customer_id=%d: %v", ErrInvalidRecipient, c.ID, err)
	}
	return normalized, nil
}

func channelFor(pref domain.CommunicationPreference) domain.Channel {
	if pref == domain.PreferEmail {
		return domain.ChannelEmail
	}
	return domain.ChannelSMS
}

func rawRecipient(channel domain.Channel, c domain.CustomerSnapshot) string {
	if channel == domain.ChannelEmail {
		return c.Email
	}
	return c.Phone
}

// isRetryable ошибки доставки можно повторить, ошибки конфигурации нет
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrDelivery)
}
