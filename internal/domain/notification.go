package domain

import "time"

// Channel is a notification delivery channel
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
)

// CommunicationPreference is the customer's preferred way of contact
type CommunicationPreference string

const (
	PreferSMS   CommunicationPreference = "SMS"
	PreferEmail CommunicationPreference = "EMAIL"
	PreferPhone CommunicationPreference = "PHONE"
)

// NotificationStatus represents the delivery state of a notification record
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSent      NotificationStatus = "sent"
	NotificationFailed    NotificationStatus = "failed"
	NotificationCancelled NotificationStatus = "cancelled"
)

// BusinessTypeAppointment marks records produced by appointment events
const BusinessTypeAppointment = "APPOINTMENT"

// NotificationRecord is the audit trail of one notification.
// Records are never deleted.
type NotificationRecord struct {
	ID           int64
	TenantID     int64
	TemplateCode string
	Channel      Channel
	Recipient    string
	Subject      *string
	Body         string
	Status       NotificationStatus
	ErrorMessage *string
	Retryable    bool
	RetryCount   int
	BusinessID   string
	BusinessType string

	CreatedAt     time.Time
	LastAttemptAt *time.Time
	SentAt        *time.Time
}

// MarkSent moves the record to sent
func (n *NotificationRecord) MarkSent(at time.Time) {
	n.Status = NotificationSent
	n.SentAt = &at
	n.LastAttemptAt = &at
	n.ErrorMessage = nil
}

// MarkFailed moves the record to failed with a reason
func (n *NotificationRecord) MarkFailed(at time.Time, reason string, retryable bool) {
	n.Status = NotificationFailed
	n.ErrorMessage = &reason
	n.Retryable = retryable
	n.LastAttemptAt = &at
}

// NotificationFilter filters the tenant notification log
type NotificationFilter struct {
	TenantID int64
	Status   *NotificationStatus
	Channel  *Channel
	Limit    int
	Offset   int
}

// Template codes
const (
	TemplateAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	TemplateAppointmentCancelled = "APPOINTMENT_CANCELLED"
	TemplateAppointmentCompleted = "APPOINTMENT_COMPLETED"
	TemplateAppointmentReminder  = "APPOINTMENT_REMINDER"
)

// Template is a per-tenant message template for one code and channel
type Template struct {
	ID        int64
	TenantID  int64
	Code      string
	Channel   Channel
	Subject   *string
	Body      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
