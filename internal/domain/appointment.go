package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// allowedTransitions confirmed is the only state with exits
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// IsValid reports whether the status is a known value
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s AppointmentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo checks the lifecycle state machine
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsBlocking returns true if the status occupies the resource's time
func (s AppointmentStatus) IsBlocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// AppointmentService is a denormalized service line of an appointment
type AppointmentService struct {
	ServiceID       int64
	Name            string
	Price           int64 // minor units
	DurationMinutes int
}

// Appointment represents a booking of a resource by a customer
type Appointment struct {
	ID              int64
	TenantID        int64
	CustomerID      int64
	ResourceID      int64
	ResourceKind    ResourceKind
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TotalAmount     int64 // minor units
	Status          AppointmentStatus

	Services []AppointmentService

	Notes  *string
	Rating *int
	Review *string

	IdempotencyKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns start + duration
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// Range returns the occupied half-open interval of the day
func (a *Appointment) Range() (MinuteRange, error) {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return MinuteRange{}, err
	}
	return MinuteRange{Start: start, End: start + a.DurationMinutes}, nil
}

// StartsAt returns the absolute start instant in the given location
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	minutes, err := a.StartTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := a.Date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}

// ServiceNames joins service names for display
func (a *Appointment) ServiceNames() string {
	names := make([]string, 0, len(a.Services))
	for _, s := range a.Services {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// AppendNote adds a line to the appointment notes
func (a *Appointment) AppendNote(note string) {
	if a.Notes == nil || *a.Notes == "" {
		a.Notes = &note
		return
	}
	joined := *a.Notes + "\n" + note
	a.Notes = &joined
}

// ValidateRating checks the 1..5 range
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating must be in %d..%d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}

// CustomerAppointmentStats is a read-model projection over a customer's appointments
type CustomerAppointmentStats struct {
	CustomerID    int64
	Total         int
	Completed     int
	Cancelled     int
	NoShow        int
	Upcoming      int
	TotalSpent    int64
	AverageRating float64
	RatedCount    int
}
