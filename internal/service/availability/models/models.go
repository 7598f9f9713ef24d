package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Reason причина отказа в доступности
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonResourceUnavailable Reason = "resource_unavailable"
	ReasonOutsideWindows      Reason = "outside_windows"
	ReasonOverlap             Reason = "overlap"
)

// CheckRequest запрос проверки доступности интервала.
// TenantID = 0 отключает проверку принадлежности ресурса тенанту.
type CheckRequest struct {
	TenantID             int64
	ResourceID           int64
	Date                 time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	ExcludeAppointmentID int64 // запись, которая не считается конфликтом (перенос)
}

// Verdict результат проверки
type Verdict struct {
	Available                bool
	Reason                   Reason
	ConflictingAppointmentID *int64
}

// WindowInput окно доступности при замене расписания
type WindowInput struct {
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	Enabled   bool
}
