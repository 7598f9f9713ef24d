package replace_availability

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// WindowRequest окно в теле запроса
type WindowRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 1 = понедельник ... 7 = воскресенье
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Enabled   *bool  `json:"enabled,omitempty"` // по умолчанию true
}

// ReplaceAvailabilityRequest HTTP request model: новое недельное расписание целиком
type ReplaceAvailabilityRequest struct {
	Windows []WindowRequest `json:"windows"`
}

func (r *ReplaceAvailabilityRequest) ToServiceRequest() []models.WindowInput {
	result := make([]models.WindowInput, 0, len(r.Windows))
	for _, w := range r.Windows {
		enabled := true
		if w.Enabled != nil {
			enabled = *w.Enabled
		}
		result = append(result, models.WindowInput{
			DayOfWeek: w.DayOfWeek,
			StartTime: types.TimeString(w.StartTime),
			EndTime:   types.TimeString(w.EndTime),
			Enabled:   enabled,
		})
	}
	return result
}

// WindowResponse HTTP-модель окна доступности
type WindowResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Enabled   bool   `json:"enabled"`
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
