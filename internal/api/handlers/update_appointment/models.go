package update_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UpdateAppointmentRequest HTTP request model, незаданные поля не меняются
type UpdateAppointmentRequest struct {
	Notes           *string `json:"notes,omitempty"`
	Date            *string `json:"date,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateAppointmentRequest) ToServiceRequest() (*models.UpdateDetailsRequest, error) {
	req := &models.UpdateDetailsRequest{
		Notes:           r.Notes,
		DurationMinutes: r.DurationMinutes,
	}
	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.Date = &date
	}
	if r.StartTime != nil {
		start := types.TimeString(*r.StartTime)
		req.StartTime = &start
	}
	return req, nil
}
