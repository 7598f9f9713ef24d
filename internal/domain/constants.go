package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Scheduling defaults
const (
	DefaultNoShowGrace       = 24 * time.Hour
	DefaultReminderLeadLong  = 24 * time.Hour
	DefaultReminderLeadShort = time.Hour
)

// Business validation constants
const (
	MinRating             = 1
	MaxRating             = 5
	MaxNotesLength        = 1000
	MaxReviewLength       = 2000
	MaxDurationMinutes    = 24 * 60
	MaxCancellationReason = 500
)

// NoShowAuditNote is appended to the notes of an appointment marked as no-show by the scanner.
const NoShowAuditNote = "[system] marked as no-show: customer did not arrive within the grace period"

// BlockingStatuses are the appointment statuses that occupy a resource's time.
var BlockingStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusCompleted,
}
