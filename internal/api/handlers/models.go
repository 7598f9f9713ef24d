package handlers

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentServiceResponse позиция услуги в записи
type AppointmentServiceResponse struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
}

// AppointmentResponse HTTP-модель записи, общая для всех ручек записей
type AppointmentResponse struct {
	ID              int64                        `json:"id"`
	TenantID        int64                        `json:"tenantId"`
	CustomerID      int64                        `json:"customerId"`
	ResourceID      int64                        `json:"resourceId"`
	ResourceKind    string                       `json:"resourceKind"`
	Date            string                       `json:"date"`
	StartTime       string                       `json:"startTime"`
	EndTime         string                       `json:"endTime,omitempty"`
	DurationMinutes int                          `json:"durationMinutes"`
	TotalAmount     int64                        `json:"totalAmount"`
	Status          string                       `json:"status"`
	Services        []AppointmentServiceResponse `json:"services"`
	Notes           *string                      `json:"notes,omitempty"`
	Rating          *int                         `json:"rating,omitempty"`
	Review          *string                      `json:"review,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// FromAppointment конвертирует доменную запись в HTTP-модель
func FromAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		CustomerID:      a.CustomerID,
		ResourceID:      a.ResourceID,
		ResourceKind:    string(a.ResourceKind),
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		TotalAmount:     a.TotalAmount,
		Status:          string(a.Status),
		Services:        make([]AppointmentServiceResponse, 0, len(a.Services)),
		Notes:           a.Notes,
		Rating:          a.Rating,
		Review:          a.Review,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if end, err := a.EndTime(); err == nil {
		resp.EndTime = end.String()
	}
	for _, s := range a.Services {
		resp.Services = append(resp.Services, AppointmentServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return resp
}

// NotificationResponse HTTP-модель записи журнала уведомлений
type NotificationResponse struct {
	ID            int64      `json:"id"`
	TemplateCode  string     `json:"templateCode"`
	Channel       string     `json:"channel"`
	Recipient     string     `json:"recipient"`
	Subject       *string    `json:"subject,omitempty"`
	Body          string     `json:"body"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"errorMessage,omitempty"`
	Retryable     bool       `json:"retryable"`
	RetryCount    int        `json:"retryCount"`
	BusinessID    string     `json:"businessId"`
	BusinessType  string     `json:"businessType"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
}

// FromNotifications конвертирует записи журнала в HTTP-модели
func FromNotifications(records []*domain.NotificationRecord) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(records))
	for _, n := range records {
		result = append(result, NotificationResponse{
			ID:            n.ID,
			TemplateCode:  n.TemplateCode,
			Channel:       string(n.Channel),
			Recipient:     n.Recipient,
			Subject:       n.Subject,
			Body:          n.Body,
			Status:        string(n.Status),
			ErrorMessage:  n.ErrorMessage,
			Retryable:     n.Retryable,
			RetryCount:    n.RetryCount,
			BusinessID:    n.BusinessID,
			BusinessType:  n.BusinessType,
			CreatedAt:     n.CreatedAt,
			LastAttemptAt: n.LastAttemptAt,
			SentAt:        n.SentAt,
		})
	}
	return result
}
