package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// EventKind is the kind of lifecycle event
type EventKind string

const (
	EventConfirmed EventKind = "confirmed"
	EventCancelled EventKind = "cancelled"
	EventCompleted EventKind = "completed"
	EventReminder  EventKind = "reminder"
	EventNoShow    EventKind = "no_show"
)

// ReminderLead identifies which reminder was sent
type ReminderLead string

const (
	ReminderLeadLong  ReminderLead = "long"
	ReminderLeadShort ReminderLead = "short"
)

// CustomerSnapshot is the customer data captured at event time
type CustomerSnapshot struct {
	ID         int64
	Name       string
	Phone      string
	Email      string
	Preference CommunicationPreference
}

// ResourceSnapshot is the resource data captured at event time
type ResourceSnapshot struct {
	ID   int64
	Name string
	Kind ResourceKind
}

// ScheduleSnapshot is the appointment time captured at event time
type ScheduleSnapshot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// BusinessSnapshot is the tenant's public business info
type BusinessSnapshot struct {
	Name    string
	Address string
	Phone   string
}

// LifecycleEvent is a denormalized snapshot emitted on appointment state changes.
// Consumers must not re-read live records to build messages.
type LifecycleEvent struct {
	ID            string
	Kind          EventKind
	TenantID      int64
	AppointmentID int64
	OccurredAt    time.Time

	Customer     CustomerSnapshot
	Resource     ResourceSnapshot
	Schedule     ScheduleSnapshot
	Business     BusinessSnapshot
	ServiceNames string
	TotalAmount  int64
	Notes        string
	ReminderLead ReminderLead
}

// NotificationIntent is derived from an event and drives one notification attempt
type NotificationIntent struct {
	TenantID      int64
	AppointmentID int64
	TemplateCode  string
	Channel       Channel
	Recipient     string
	Variables     map[string]string
}
