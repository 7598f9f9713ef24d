package get_availability

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// WindowResponse HTTP-модель окна доступности
type WindowResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Enabled   bool   `json:"enabled"`
}

// ExceptionResponse HTTP-модель исключения
type ExceptionResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	Kind      string  `json:"kind"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// AvailabilityResponse расписание ресурса; исключения только при запросе с датой
type AvailabilityResponse struct {
	ResourceID int64               `json:"resourceId"`
	Windows    []WindowResponse    `json:"windows"`
	Exceptions []ExceptionResponse `json:"exceptions,omitempty"`
}

func FromWindows(windows []*domain.AvailabilityWindow) []WindowResponse {
	result := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		result = append(result, WindowResponse{
			ID:        w.ID,
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
			Enabled:   w.Enabled,
		})
	}
	return result
}

func FromException(e *domain.AvailabilityException) ExceptionResponse {
	resp := ExceptionResponse{
		ID:     e.ID,
		Date:   e.Date.Format(domain.DateFormat),
		Kind:   string(e.Kind),
		Reason: e.Reason,
	}
	if e.StartTime != nil {
		s := e.StartTime.String()
		resp.StartTime = &s
	}
	if e.EndTime != nil {
		s := e.EndTime.String()
		resp.EndTime = &s
	}
	return resp
}
