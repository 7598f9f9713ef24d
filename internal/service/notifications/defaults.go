package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TemplateSeeder создает шаблон, только если для (tenant, code, channel) его ещё нет
type TemplateSeeder interface {
	CreateIfMissing(ctx context.Context, tpl *domain.Template) (created bool, err error)
}

type defaultTemplate struct {
	code    string
	channel domain.Channel
	subject string
	body    string
}

var defaultTemplates = []defaultTemplate{
	{
		code:    domain.TemplateAppointmentConfirmed,
		channel: domain.ChannelSMS,
		body:    "[${businessName}] ${customerName}, ваша запись подтверждена: ${appointmentDate} ${appointmentTime}, ${serviceName}, специалист ${staffName}. Для отмены или переноса звоните ${businessPhone}.",
	},
	{
		code:    domain.TemplateAppointmentConfirmed,
		channel: domain.ChannelEmail,
		subject: "Запись подтверждена - ${businessName}",
		body: "<html><body><h2>Запись подтверждена</h2><p>${customerName}, ваша запись подтверждена.</p>" +
			"<p>Время: ${appointmentDate} ${appointmentTime}<br/>Услуга: ${serviceName}<br/>Специалист: ${staffName}<br/>" +
			"Длительность: ${duration} мин<br/>Стоимость: ${totalAmount}</p>" +
			"<p>${businessName}<br/>${businessAddress}<br/>${businessPhone}</p></body></html>",
	},
	{
		code:    domain.TemplateAppointmentCancelled,
		channel: domain.ChannelSMS,
		body:    "[${businessName}] ${customerName}, ваша запись на ${appointmentDate} ${appointmentTime} (${serviceName}) отменена. Вопросы по телефону ${businessPhone}.",
	},
	{
		code:    domain.TemplateAppointmentCancelled,
		channel: domain.ChannelEmail,
		subject: "Запись отменена - ${businessName}",
		body: "<html><body><h2>Запись отменена</h2><p>${customerName}, ваша запись отменена.</p>" +
			"<p>Время: ${appointmentDate} ${appointmentTime}<br/>Услуга: ${serviceName}<br/>Специалист: ${staffName}</p>" +
			"<p>${businessName}<br/>${businessAddress}<br/>${businessPhone}</p></body></html>",
	},
	{
		code:    domain.TemplateAppointmentCompleted,
		channel: domain.ChannelSMS,
		body:    "[${businessName}] ${customerName}, спасибо за визит ${appointmentDate}! Услуга: ${serviceName}, специалист ${staffName}. Будем рады видеть вас снова.",
	},
	{
		code:    domain.TemplateAppointmentCompleted,
		channel: domain.ChannelEmail,
		subject: "Спасибо за визит - ${businessName}",
		body: "<html><body><h2>Услуга оказана</h2><p>${customerName}, спасибо за визит.</p>" +
			"<p>Время: ${appointmentDate} ${appointmentTime}<br/>Услуга: ${serviceName}<br/>Специалист: ${staffName}<br/>" +
			"Длительность: ${duration} мин<br/>Стоимость: ${totalAmount}</p>" +
			"<p>${businessName}<br/>${businessAddress}<br/>${businessPhone}</p></body></html>",
	},
	{
		code:    domain.TemplateAppointmentReminder,
		channel: domain.ChannelSMS,
		body:    "[${businessName}] Напоминаем, ${customerName}: ${appointmentDate} ${appointmentTime}, ${serviceName}, специалист ${staffName}. Перенести запись можно по телефону ${businessPhone}.",
	},
	{
		code:    domain.TemplateAppointmentReminder,
		channel: domain.ChannelEmail,
		subject: "Напоминание о записи - ${businessName}",
		body: "<html><body><h2>Напоминание о записи</h2><p>${customerName}, напоминаем о предстоящей записи.</p>" +
			"<p>Время: ${appointmentDate} ${appointmentTime}<br/>Услуга: ${serviceName}<br/>Специалист: ${staffName}<br/>" +
			"Длительность: ${duration} мин</p>" +
			"<p>${businessName}<br/>${businessAddress}<br/>${businessPhone}</p></body></html>",
	},
}

// DefaultTemplates стандартный набор шаблонов тенанта: четыре кода на каждый канал
func DefaultTemplates(tenantID int64, now time.Time) []*domain.Template {
	result := make([]*domain.Template, 0, len(defaultTemplates))
	for _, d := range defaultTemplates {
		tpl := &domain.Template{
			TenantID:  tenantID,
			Code:      d.code,
			Channel:   d.channel,
			Body:      d.body,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if d.subject != "" {
			subject := d.subject
			tpl.Subject = &subject
		}
		result = append(result, tpl)
	}
	return result
}

// SeedDefaultTemplates дополняет шаблоны тенантов стандартным набором.
// Существующие шаблоны, в том числе выключенные, не трогаются.
// Возвращает количество созданных шаблонов.
func SeedDefaultTemplates(ctx context.Context, repo TemplateSeeder, tenantIDs []int64, timeProvider TimeProvider, logger Logger) (int, error) {
	now := timeProvider.Now()

	created := 0
	for _, tenantID := range tenantIDs {
		for _, tpl := range DefaultTemplates(tenantID, now) {
			ok, err := repo.CreateIfMissing(ctx, tpl)
			if err != nil {
				logger.Error("SeedDefaultTemplates: tenant=%d code=%s channel=%s: %v", tenantID, tpl.Code, tpl.Channel, err)
				return created, fmt.Errorf("%w: SeedDefaultTemplates - repository error: %v", ErrInternal, err)
			}
			if ok {
				created++
			}
		}
	}

	if created > 0 {
		logger.Info("SeedDefaultTemplates: created %d default templates for %d tenants", created, len(tenantIDs))
	}
	return created, nil
}
