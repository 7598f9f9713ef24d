package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be in 1..%d", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.DurationMinutes == 0 && len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: durationMinutes or serviceIds is required", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.IdempotencyKey != nil && strings.TrimSpace(*req.IdempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency key must not be blank", ErrInvalidInput)
	}

	return nil
}

// validateStart проверяет, что запись не начинается раньше now - grace
func validateStart(a *domain.Appointment, now time.Time, loc *time.Location, grace time.Duration) error {
	startsAt, err := a.StartsAt(loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if startsAt.Before(now.Add(-grace)) {
		return fmt.Errorf("%w: start %s %s", ErrPastAppointment, a.Date.Format(domain.DateFormat), a.StartTime)
	}

	return nil
}

// normalizeDate отбрасывает время суток
func normalizeDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
