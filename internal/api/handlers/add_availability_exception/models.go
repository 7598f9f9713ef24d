package add_availability_exception

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AddExceptionRequest HTTP request model.
// kind = blocked без времени закрывает весь день.
type AddExceptionRequest struct {
	Date      string  `json:"date"`
	Kind      string  `json:"kind"` // blocked | extra
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *AddExceptionRequest) ToDomain(resourceID int64) (*domain.AvailabilityException, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	e := &domain.AvailabilityException{
		ResourceID: resourceID,
		Date:       date,
		Kind:       domain.ExceptionKind(r.Kind),
		Reason:     r.Reason,
	}
	if r.StartTime != nil {
		start := types.TimeString(*r.StartTime)
		e.StartTime = &start
	}
	if r.EndTime != nil {
		end := types.TimeString(*r.EndTime)
		e.EndTime = &end
	}
	return e, nil
}

// ExceptionResponse HTTP response model
type ExceptionResponse struct {
	ID         int64   `json:"id"`
	ResourceID int64   `json:"resourceId"`
	Date       string  `json:"date"`
	Kind       string  `json:"kind"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func FromDomain(e *domain.AvailabilityException) *ExceptionResponse {
	resp := &ExceptionResponse{
		ID:         e.ID,
		ResourceID: e.ResourceID,
		Date:       e.Date.Format(domain.DateFormat),
		Kind:       string(e.Kind),
		Reason:     e.Reason,
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
