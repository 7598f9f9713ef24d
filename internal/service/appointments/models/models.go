package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Config параметры сервиса
type Config struct {
	Location         *time.Location
	PastBookingGrace time.Duration
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason *string
}

// CompleteRequest запрос на завершение записи с оценкой
type CompleteRequest struct {
	Rating *int
	Review *string
}

// UpdateDetailsRequest изменение заметок и/или перенос записи.
// Незаданные поля не меняются.
type UpdateDetailsRequest struct {
	Notes           *string
	Date            *time.Time
	StartTime       *types.TimeString
	DurationMinutes *int
}

// IsReschedule true, если меняется время записи
func (r *UpdateDetailsRequest) IsReschedule() bool {
	return r.Date != nil || r.StartTime != nil || r.DurationMinutes != nil
}

// IsEmpty true, если ничего не меняется
func (r *UpdateDetailsRequest) IsEmpty() bool {
	return r.Notes == nil && !r.IsReschedule()
}
