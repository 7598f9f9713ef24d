package notifications

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// NotificationRepository интерфейс репозитория записей уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.NotificationRecord) (*domain.NotificationRecord, error)
	Update(ctx context.Context, n *domain.NotificationRecord) error
	GetRetryable(ctx context.Context, maxRetryCount, limit int) ([]*domain.NotificationRecord, error)
	GetByBusinessID(ctx context.Context, tenantID int64, businessType, businessID string) ([]*domain.NotificationRecord, error)
	GetByTenant(ctx context.Context, filter domain.NotificationFilter) ([]*domain.NotificationRecord, error)
}

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetActive(ctx context.Context, tenantID int64, code string, channel domain.Channel) (*domain.Template, error)
}

// SMSSender провайдер SMS
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
	ProviderID() string
}

// EmailSender провайдер email
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
	ProviderID() string
}

// Sender отправка сообщения по каналу
type Sender interface {
	Send(ctx context.Context, channel domain.Channel, recipient, subject, body string) DeliveryResult
}

// Metrics счётчики уведомлений
type Metrics interface {
	ObserveNotification(channel, status string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
