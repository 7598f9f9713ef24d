package check_availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ToServiceRequest собирает запрос проверки из query-параметров date, start, end
func ToServiceRequest(tenantID, resourceID int64, dateStr, startStr, endStr string) (*models.CheckRequest, error) {
	if dateStr == "" || startStr == "" || endStr == "" {
		return nil, errors.New("date, start and end are required")
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	return &models.CheckRequest{
		TenantID:   tenantID,
		ResourceID: resourceID,
		Date:       date,
		StartTime:  types.TimeString(startStr),
		EndTime:    types.TimeString(endStr),
	}, nil
}

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	Available                bool   `json:"available"`
	Reason                   string `json:"reason,omitempty"`
	ConflictingAppointmentID *int64 `json:"conflictingAppointmentId,omitempty"`
}

func FromVerdict(v *models.Verdict) *CheckAvailabilityResponse {
	return &CheckAvailabilityResponse{
		Available:                v.Available,
		Reason:                   string(v.Reason),
		ConflictingAppointmentID: v.ConflictingAppointmentID,
	}
}
