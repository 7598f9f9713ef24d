package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilityWindow is a recurring weekly opening of a resource.
// DayOfWeek follows ISO-8601: 1 = Monday ... 7 = Sunday.
type AvailabilityWindow struct {
	ID         int64
	ResourceID int64
	DayOfWeek  int
	StartTime  types.TimeString
	EndTime    types.TimeString
	Enabled    bool
}

// Validate checks day range and start < end
func (w *AvailabilityWindow) Validate() error {
	if w.DayOfWeek < 1 || w.DayOfWeek > 7 {
		return fmt.Errorf("%w: day of week must be in 1..7, got %d", ErrValidation, w.DayOfWeek)
	}
	start, err := w.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: start time: %v", ErrValidation, err)
	}
	end, err := w.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: end time: %v", ErrValidation, err)
	}
	if start >= end {
		return fmt.Errorf("%w: window start %s must be before end %s", ErrValidation, w.StartTime, w.EndTime)
	}
	return nil
}

// ExceptionKind distinguishes closures from one-off openings
type ExceptionKind string

const (
	ExceptionBlocked ExceptionKind = "blocked"
	ExceptionExtra   ExceptionKind = "extra"
)

// AvailabilityException is an ad-hoc change to a resource's schedule on a single date.
// A blocked exception with nil times closes the whole day.
type AvailabilityException struct {
	ID         int64
	ResourceID int64
	Date       time.Time
	Kind       ExceptionKind
	StartTime  *types.TimeString
	EndTime    *types.TimeString
	Reason     *string
	CreatedAt  time.Time
}

// IsWholeDay reports whether the exception covers the entire date
func (e *AvailabilityException) IsWholeDay() bool {
	return e.StartTime == nil || e.EndTime == nil
}

// Validate checks kind and time range
func (e *AvailabilityException) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: exception date is required", ErrValidation)
	}
	switch e.Kind {
	case ExceptionBlocked:
	case ExceptionExtra:
		if e.IsWholeDay() {
			return fmt.Errorf("%w: extra opening requires start and end time", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown exception kind %q", ErrValidation, e.Kind)
	}
	if e.IsWholeDay() {
		return nil
	}
	r, err := NewMinuteRange(*e.StartTime, *e.EndTime)
	if err != nil {
		return err
	}
	if r.Empty() {
		return fmt.Errorf("%w: exception start must be before end", ErrValidation)
	}
	return nil
}

// ISOWeekday converts a date to ISO day of week (1 = Monday ... 7 = Sunday)
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
